package handler

import (
	"errors"
	"net/http"

	"portfolio_leads_backend/internal/attribution"
	"portfolio_leads_backend/internal/capture/service"
	"portfolio_leads_backend/internal/capture/transport"
	"portfolio_leads_backend/internal/session"
	"portfolio_leads_backend/platform/httpkit"
	"portfolio_leads_backend/platform/logger"
	"portfolio_leads_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler serves the public capture endpoints.
type Handler struct {
	svc      *service.Service
	sessions session.Store
	val      *validator.Validator
	log      *logger.Logger
}

// New creates a new capture handler.
func New(svc *service.Service, sessions session.Store, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{svc: svc, sessions: sessions, val: val, log: log}
}

// RegisterRoutes registers the capture routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/session", h.GetSession)

	rg.POST("/newsletter", h.Subscribe)
	rg.POST("/contact", h.Contact)

	rg.GET("/resources", h.ListResources)
	rg.POST("/resources/:id/download", h.Download)

	rg.GET("/bookings/types", h.ListBookingTypes)
	rg.POST("/bookings", h.Book)

	rg.POST("/chat", h.Chat)
	rg.POST("/page-views", h.PageView)
}

func (h *Handler) GetSession(c *gin.Context) {
	v := h.sessions.Load(c)
	httpkit.OK(c, transport.SessionResponse{Email: v.Email(), LeadScore: v.Score(), Known: v.IsKnown()})
}

func (h *Handler) Subscribe(c *gin.Context) {
	var req transport.NewsletterRequest
	if !h.bind(c, &req) {
		return
	}

	v := h.sessions.Load(c)
	out, err := h.svc.Subscribe(c.Request.Context(), v, req, attribution.Resolve(req.PageURL, c.Request.Referer()))
	if httpkit.HandleError(c, err) {
		return
	}
	h.save(c, out.Visitor)

	httpkit.JSON(c, http.StatusCreated, out.Response())
}

func (h *Handler) Contact(c *gin.Context) {
	var req transport.ContactRequest
	if !h.bind(c, &req) {
		return
	}

	v := h.sessions.Load(c)
	out, err := h.svc.Contact(c.Request.Context(), v, req, attribution.Resolve(req.PageURL, c.Request.Referer()))
	if httpkit.HandleError(c, err) {
		return
	}
	h.save(c, out.Visitor)

	httpkit.JSON(c, http.StatusCreated, out.Response())
}

func (h *Handler) ListResources(c *gin.Context) {
	v := h.sessions.Load(c)
	httpkit.OK(c, transport.ResourceListResponse{Items: h.svc.ListResources(v), LeadScore: v.Score()})
}

func (h *Handler) Download(c *gin.Context) {
	var req transport.DownloadRequest
	if !h.bind(c, &req) {
		return
	}

	v := h.sessions.Load(c)
	out, err := h.svc.Download(c.Request.Context(), v, c.Param("id"), req, attribution.Resolve(req.PageURL, c.Request.Referer()))
	if httpkit.HandleError(c, err) {
		return
	}
	h.save(c, out.Visitor)

	httpkit.OK(c, transport.DownloadResponse{
		CaptureResponse: out.Response(),
		ResourceID:      out.Resource.ID,
		DownloadURL:     out.Link.URL,
		ExpiresAt:       out.Link.ExpiresAt,
	})
}

func (h *Handler) ListBookingTypes(c *gin.Context) {
	types := service.BookingTypes()
	items := make([]transport.BookingTypeResponse, 0, len(types))
	for _, b := range types {
		items = append(items, transport.BookingTypeResponse{
			ID:          b.ID,
			Title:       b.Title,
			Duration:    b.Duration,
			Price:       b.Price,
			Description: b.Description,
		})
	}
	httpkit.OK(c, gin.H{"items": items})
}

func (h *Handler) Book(c *gin.Context) {
	var req transport.BookingRequest
	if !h.bind(c, &req) {
		return
	}

	v := h.sessions.Load(c)
	out, err := h.svc.Book(c.Request.Context(), v, req, attribution.Resolve(req.PageURL, c.Request.Referer()))
	if httpkit.HandleError(c, err) {
		return
	}
	h.save(c, out.Visitor)

	httpkit.JSON(c, http.StatusCreated, transport.BookingResponse{
		CaptureResponse:  out.Response(),
		ConsultationType: out.Booking.ID,
		Title:            out.Booking.Title,
		Duration:         out.Booking.Duration,
		Price:            out.Booking.Price,
	})
}

func (h *Handler) Chat(c *gin.Context) {
	var req transport.ChatRequest
	if !h.bind(c, &req) {
		return
	}

	out, err := h.svc.Chat(c.Request.Context(), h.sessions.Load(c), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ChatResponse{Reply: out.Reply, Topic: out.Topic, Tracked: out.Tracked})
}

func (h *Handler) PageView(c *gin.Context) {
	var req transport.PageViewRequest
	if !h.bind(c, &req) {
		return
	}

	tracked, err := h.svc.PageView(c.Request.Context(), h.sessions.Load(c), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.PageViewResponse{Tracked: tracked})
}

func (h *Handler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.BadRequest(c, msgInvalidRequest)
		return false
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.ValidationError(c, msgValidationFailed, err)
		return false
	}
	return true
}

// save persists the visitor. The action already happened, so a failed
// write is logged and the response still goes out.
func (h *Handler) save(c *gin.Context, v session.Visitor) {
	err := h.sessions.Save(c, v)
	switch {
	case err == nil:
	case errors.Is(err, session.ErrUnreadable):
		h.log.WithContext(c.Request.Context()).Warn("visitor session not saved", "error", err)
	default:
		h.log.WithContext(c.Request.Context()).Error("failed to save visitor session", "error", err)
	}
}
