// Package capture provides the public lead capture module: newsletter,
// resource downloads, contact form, bookings, chat and page views.
package capture

import (
	"portfolio_leads_backend/internal/capture/handler"
	"portfolio_leads_backend/internal/capture/service"
	"portfolio_leads_backend/internal/crm"
	"portfolio_leads_backend/internal/events"
	apphttp "portfolio_leads_backend/internal/http"
	"portfolio_leads_backend/internal/leads/scoring"
	"portfolio_leads_backend/internal/resources"
	"portfolio_leads_backend/internal/session"
	"portfolio_leads_backend/platform/logger"
	"portfolio_leads_backend/platform/metrics"
	"portfolio_leads_backend/platform/validator"
)

type Module struct {
	handler *handler.Handler
}

// NewModule creates the capture module with all its dependencies.
func NewModule(
	calc *scoring.Calculator,
	gateway crm.Gateway,
	tracker service.EventTracker,
	resourceSvc *resources.Service,
	sessions session.Store,
	eventBus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
	m *metrics.Registry,
) *Module {
	svc := service.New(calc, gateway, tracker, resourceSvc, eventBus, val, log, m)
	return &Module{handler: handler.New(svc, sessions, val, log)}
}

func (m *Module) Name() string {
	return "capture"
}

// RegisterRoutes mounts the capture routes on the public group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Public)
}

var _ apphttp.Module = (*Module)(nil)
