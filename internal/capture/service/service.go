// Package service runs the lead capture actions: score the submission,
// sync the contact to the CRM, pick a nurture sequence, track the events
// and hand back the updated visitor.
package service

import (
	"context"
	"errors"
	"time"

	"portfolio_leads_backend/internal/adapters/storage"
	"portfolio_leads_backend/internal/capture/transport"
	"portfolio_leads_backend/internal/crm"
	"portfolio_leads_backend/internal/events"
	"portfolio_leads_backend/internal/leads/domain"
	"portfolio_leads_backend/internal/leads/nurture"
	"portfolio_leads_backend/internal/leads/scoring"
	"portfolio_leads_backend/internal/resources"
	"portfolio_leads_backend/internal/session"
	"portfolio_leads_backend/platform/apperr"
	"portfolio_leads_backend/platform/logger"
	"portfolio_leads_backend/platform/metrics"
	"portfolio_leads_backend/platform/phone"
	"portfolio_leads_backend/platform/sanitize"
	"portfolio_leads_backend/platform/validator"
)

const (
	maxNameLength     = 100
	maxCompanyLength  = 200
	maxTitleLength    = 120
	maxWebsiteLength  = 300
	maxMessageLength  = 5000
	maxPageLength     = 300
	defaultConvertVal = 1

	eventNewsletterSignup = "newsletter_signup"
	eventResourceDownload = "resource_download"
	eventContactForm      = "contact_form_submit"
	eventBooking          = "consultation_booking"
	eventChatMessage      = "chat_message"
	eventPageView         = "page_view"

	conversionEventPrefix = "conversion_"
)

var newsletterInterests = []string{"fintech_insights", "ai_trends", "financial_automation"}

// EventTracker records CRM events without reporting failure.
type EventTracker interface {
	Track(ctx context.Context, email, eventName string, properties map[string]any)
}

// Outcome is the result of one scoring action.
type Outcome struct {
	Visitor   session.Visitor
	Increment int
	Breakdown scoring.Breakdown
	Version   string
	Sequence  nurture.Sequence
	ContactID string
	// Tracked is false when the CRM upsert failed.
	Tracked bool
}

// Response renders the outcome for the API.
func (o Outcome) Response() transport.CaptureResponse {
	return transport.CaptureResponse{
		Email:        o.Visitor.Email(),
		Increment:    o.Increment,
		LeadScore:    o.Visitor.Score(),
		Sequence:     o.Sequence.String(),
		Tracked:      o.Tracked,
		Breakdown:    o.Breakdown,
		ScoreVersion: o.Version,
	}
}

// DownloadOutcome adds the issued link to a download's outcome.
type DownloadOutcome struct {
	Outcome
	Resource resources.Resource
	Link     *storage.Link
}

// BookingOutcome adds the booked consultation to a booking's outcome.
type BookingOutcome struct {
	Outcome
	Booking BookingType
}

// ChatOutcome is the reply to a chat message.
type ChatOutcome struct {
	Reply   string
	Topic   string
	Tracked bool
}

// Service runs capture actions. The visitor is passed in and the updated
// visitor handed back; persisting it is the caller's job.
type Service struct {
	calc      *scoring.Calculator
	gateway   crm.Gateway
	tracker   EventTracker
	resources *resources.Service
	eventBus  events.Bus
	val       *validator.Validator
	log       *logger.Logger
	metrics   *metrics.Registry
}

// New creates a new capture service.
func New(
	calc *scoring.Calculator,
	gateway crm.Gateway,
	tracker EventTracker,
	resourceSvc *resources.Service,
	eventBus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
	m *metrics.Registry,
) *Service {
	return &Service{
		calc:      calc,
		gateway:   gateway,
		tracker:   tracker,
		resources: resourceSvc,
		eventBus:  eventBus,
		val:       val,
		log:       log,
		metrics:   m,
	}
}

// capture is one scoring action on its way through the pipeline.
type capture struct {
	contact    domain.Contact
	activities []domain.Activity
	// conversion names both the analytics conversion and, prefixed, the CRM event.
	conversion string
	eventName  string
	eventProps func(increment, total int) map[string]any
	// value is the conversion value in GBP; nil means the increment.
	value   *float64
	message string
}

// Subscribe handles a newsletter signup.
func (s *Service) Subscribe(ctx context.Context, v session.Visitor, req transport.NewsletterRequest, attr domain.Attribution) (Outcome, error) {
	contact, err := s.buildContact(req.Email, req.FirstName, req.LastName, req.Company, req.JobTitle)
	if err != nil {
		return Outcome{}, err
	}
	contact.Source = domain.LeadSourceNewsletter
	contact.LifecycleStage = domain.LifecycleSubscriber
	contact.Interests = newsletterInterests
	contact.Attribution = attr

	return s.run(ctx, v, capture{
		contact: contact,
		activities: []domain.Activity{
			domain.NewActivity(domain.ActivityFormSubmit, map[string]any{"form_type": "newsletter_signup"}),
		},
		conversion: eventNewsletterSignup,
		eventName:  eventNewsletterSignup,
		eventProps: func(_, total int) map[string]any {
			return map[string]any{
				"lead_score": total,
				"interests":  newsletterInterests,
				"company":    orUnknown(contact.Company),
				"job_title":  orUnknown(contact.JobTitle),
			}
		},
	}), nil
}

// ListResources marks every resource unlocked or locked for the visitor.
func (s *Service) ListResources(v session.Visitor) []resources.Listing {
	return s.resources.ListFor(v.Score())
}

// Download gates a resource on the visitor's cached score, then scores the
// download and issues a link. A refused download never reaches the CRM.
func (s *Service) Download(ctx context.Context, v session.Visitor, resourceID string, req transport.DownloadRequest, attr domain.Attribution) (DownloadOutcome, error) {
	r, err := s.resources.Authorize(resourceID, v.Score())
	if err != nil {
		if apperr.Is(err, apperr.KindInsufficientScore) {
			s.denied(ctx, resourceID, err)
		}
		return DownloadOutcome{}, err
	}

	contact, err := s.buildContact(req.Email, req.FirstName, req.LastName, req.Company, req.JobTitle)
	if err != nil {
		return DownloadOutcome{}, err
	}
	contact.Industry = sanitize.Line(req.Industry, maxTitleLength)
	contact.Source = domain.LeadSourceDownload
	contact.LifecycleStage = domain.LifecycleLead
	contact.Interests = r.Interests()
	contact.Attribution = attr

	link, err := s.resources.DownloadLink(ctx, r)
	if err != nil {
		return DownloadOutcome{}, err
	}

	rules := s.calc.Rules()
	points := rules.DownloadPoints(r.Premium)
	out := s.run(ctx, v, capture{
		contact: contact,
		activities: []domain.Activity{
			domain.NewActivity(domain.ActivityFormSubmit, map[string]any{
				"form_type":         "resource_download",
				"resource_id":       r.ID,
				"resource_type":     r.Type,
				"resource_category": r.Category,
			}).WithPoints(points),
		},
		conversion: eventResourceDownload,
		eventName:  eventResourceDownload,
		eventProps: func(increment, total int) map[string]any {
			return map[string]any{
				"resource_id":       r.ID,
				"resource_title":    r.Title,
				"resource_type":     r.Type,
				"resource_category": r.Category,
				"lead_score_boost":  increment,
				"total_lead_score":  total,
				"is_premium":        r.Premium,
			}
		},
	})

	return DownloadOutcome{Outcome: out, Resource: r, Link: link}, nil
}

func (s *Service) denied(ctx context.Context, resourceID string, err error) {
	details := scoreDetails(err)
	s.metrics.GateDenied(resourceID)
	s.log.WithContext(ctx).Info("resource gated",
		"resource_id", resourceID,
		"required_score", details.RequiredScore,
		"current_score", details.CurrentScore,
	)
	s.eventBus.Publish(ctx, events.ResourceGateDenied{
		BaseEvent:     events.NewBaseEvent(),
		ResourceID:    resourceID,
		RequiredScore: details.RequiredScore,
		CurrentScore:  details.CurrentScore,
	})
}

func scoreDetails(err error) apperr.ScoreDetails {
	var e *apperr.Error
	if errors.As(err, &e) {
		if d, ok := e.Details.(apperr.ScoreDetails); ok {
			return d
		}
	}
	return apperr.ScoreDetails{}
}

// Contact handles the contact form.
func (s *Service) Contact(ctx context.Context, v session.Visitor, req transport.ContactRequest, attr domain.Attribution) (Outcome, error) {
	contact, err := s.buildContact(req.Email, req.FirstName, req.LastName, req.Company, req.JobTitle)
	if err != nil {
		return Outcome{}, err
	}
	message := sanitize.Truncate(sanitize.Text(req.Message), maxMessageLength)
	if message == "" {
		return Outcome{}, apperr.Validation("message is required")
	}
	contact.Phone, contact.Country = phoneFields(req.Phone)
	contact.Website = sanitize.Line(req.Website, maxWebsiteLength)
	contact.Source = domain.LeadSourceContact
	contact.LifecycleStage = domain.LifecycleLead
	contact.Attribution = attr

	return s.run(ctx, v, capture{
		contact: contact,
		activities: []domain.Activity{
			domain.NewActivity(domain.ActivityFormSubmit, map[string]any{"form_type": "contact"}),
		},
		conversion: "contact_form",
		eventName:  eventContactForm,
		eventProps: func(increment, total int) map[string]any {
			return map[string]any{
				"lead_score_boost": increment,
				"total_lead_score": total,
				"message_length":   len([]rune(message)),
			}
		},
		message: message,
	}), nil
}

// Book records a consultation booking.
func (s *Service) Book(ctx context.Context, v session.Visitor, req transport.BookingRequest, attr domain.Attribution) (BookingOutcome, error) {
	booking, err := LookupBookingType(req.ConsultationType)
	if err != nil {
		return BookingOutcome{}, err
	}
	contact, err := s.buildContact(req.Email, req.FirstName, req.LastName, req.Company, req.JobTitle)
	if err != nil {
		return BookingOutcome{}, err
	}
	contact.Phone, contact.Country = phoneFields(req.Phone)
	contact.Source = domain.LeadSourceBooking
	contact.LifecycleStage = domain.LifecycleMarketingQualifiedLead
	contact.Interests = []string{"consultation", booking.ID}
	contact.Attribution = attr

	value := booking.Value
	out := s.run(ctx, v, capture{
		contact: contact,
		activities: []domain.Activity{
			domain.NewActivity(domain.ActivityBooking, map[string]any{
				"consultation_type": booking.ID,
				"duration_minutes":  booking.Minutes,
			}),
		},
		conversion: eventBooking,
		eventName:  eventBooking,
		eventProps: func(increment, total int) map[string]any {
			return map[string]any{
				"consultation_type":  booking.ID,
				"consultation_title": booking.Title,
				"duration_minutes":   booking.Minutes,
				"price":              booking.Price,
				"lead_score_boost":   increment,
				"total_lead_score":   total,
			}
		},
		value:   &value,
		message: sanitize.Truncate(sanitize.Text(req.Notes), maxMessageLength),
	})

	return BookingOutcome{Outcome: out, Booking: booking}, nil
}

// Chat answers a chat message. Messages from a known visitor are tracked;
// chat never changes the score.
func (s *Service) Chat(ctx context.Context, v session.Visitor, req transport.ChatRequest) (ChatOutcome, error) {
	message := sanitize.Text(req.Message)
	if message == "" {
		return ChatOutcome{}, apperr.Validation("message is required")
	}
	reply, topic := ReplyTo(message)

	out := ChatOutcome{Reply: reply, Topic: topic}
	if v.IsKnown() {
		s.tracker.Track(ctx, v.Email(), eventChatMessage, map[string]any{
			"topic":          topic,
			"message_length": len([]rune(message)),
			"lead_score":     v.Score(),
		})
		out.Tracked = true
	}
	return out, nil
}

// PageView tracks a page view for a known visitor and reports whether it
// was tracked.
func (s *Service) PageView(ctx context.Context, v session.Visitor, req transport.PageViewRequest) (bool, error) {
	page := sanitize.Line(req.Page, maxPageLength)
	if page == "" {
		return false, apperr.Validation("page is required")
	}
	if !v.IsKnown() {
		return false, nil
	}
	s.tracker.Track(ctx, v.Email(), eventPageView, map[string]any{
		"page":      page,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
	return true, nil
}

// run is the pipeline shared by every scoring action. Nothing after
// scoring can fail the action: CRM and tracking failures are logged and
// reported through Outcome.Tracked.
func (s *Service) run(ctx context.Context, v session.Visitor, c capture) Outcome {
	log := s.log.WithContext(ctx)

	result := s.calc.Calculate(c.contact, c.activities)
	increment := result.Score

	next := v.WithEmail(c.contact.Email).AddScore(increment)
	total := next.Score()
	contact := c.contact.WithScore(total)

	upsert := s.gateway.UpsertContact(ctx, contact)
	if !upsert.Success {
		log.CRMFailure("upsert_contact", contact.Email, upsert.Err)
	}

	sequence := nurture.Select(total, contact.Source)
	if upsert.Success {
		if err := s.gateway.EnrollInSequence(ctx, contact.Email, sequence); err != nil {
			log.CRMFailure("enroll_in_sequence", contact.Email, err)
		}
	}

	s.tracker.Track(ctx, contact.Email, c.eventName, c.eventProps(increment, total))

	value := float64(increment)
	if c.value != nil {
		value = *c.value
	}
	s.tracker.Track(ctx, contact.Email, conversionEventPrefix+c.conversion, map[string]any{
		"value":       conversionValue(value),
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"lead_source": string(contact.Source),
		"lead_score":  total,
	})

	s.eventBus.Publish(ctx, events.LeadCaptured{
		BaseEvent:      events.NewBaseEvent(),
		Email:          contact.Email,
		FirstName:      contact.FirstName,
		LastName:       contact.LastName,
		Company:        contact.Company,
		JobTitle:       contact.JobTitle,
		Source:         string(contact.Source),
		ConversionType: c.conversion,
		Increment:      increment,
		Score:          total,
		Sequence:       sequence.String(),
		HighValue:      sequence.IsHighValue(),
		ContactID:      upsert.ContactID,
		CRMSynced:      upsert.Success,
		Value:          value,
		Message:        c.message,
	})

	log.LeadScored(contact.Email, string(contact.Source), increment, total, sequence.String(), result.Version)
	s.metrics.LeadCaptured(string(contact.Source), total)

	return Outcome{
		Visitor:   next,
		Increment: increment,
		Breakdown: result.Breakdown,
		Version:   result.Version,
		Sequence:  sequence,
		ContactID: upsert.ContactID,
		Tracked:   upsert.Success,
	}
}

func (s *Service) buildContact(email, firstName, lastName, company, jobTitle string) (domain.Contact, error) {
	email = domain.NormalizeEmail(email)
	if err := s.val.Var(email, "required,email,max=254"); err != nil {
		return domain.Contact{}, apperr.Validation("a valid email address is required")
	}
	return domain.Contact{
		Email:     email,
		FirstName: sanitize.Line(firstName, maxNameLength),
		LastName:  sanitize.Line(lastName, maxNameLength),
		Company:   sanitize.Line(company, maxCompanyLength),
		JobTitle:  sanitize.Line(jobTitle, maxTitleLength),
	}, nil
}

// conversionValue treats a zero value as a single conversion.
func conversionValue(v float64) float64 {
	if v == 0 {
		return defaultConvertVal
	}
	return v
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func phoneFields(raw string) (string, string) {
	n := phone.Parse(raw)
	return n.String(), n.Region
}
