package analytics

import (
	"context"

	"portfolio_leads_backend/internal/events"
	"portfolio_leads_backend/platform/config"
	"portfolio_leads_backend/platform/logger"
	"portfolio_leads_backend/platform/metrics"
)

// Module turns captured leads into conversions.
type Module struct {
	emitter Emitter
}

// NewModule builds the fanout from configuration. The log sink is always on.
func NewModule(cfg config.AnalyticsConfig, log *logger.Logger, m *metrics.Registry) *Module {
	sinks := []Emitter{NewLogSink(log)}
	if cfg.IsGA4Enabled() {
		sinks = append(sinks, NewGA4Sink(cfg.GetGA4Endpoint(), cfg.GetGA4MeasurementID(), cfg.GetGA4APISecret()))
	}
	if u := cfg.GetAnalyticsWebhookURL(); u != "" {
		sinks = append(sinks, NewWebhookSink(u))
	}
	return &Module{emitter: NewFanout(log, m, sinks...)}
}

// NewModuleWithEmitter wires an explicit emitter.
func NewModuleWithEmitter(e Emitter) *Module {
	return &Module{emitter: e}
}

func (m *Module) Name() string { return "analytics" }

// RegisterHandlers subscribes to capture events.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadCaptured{}.EventName(), m)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadCaptured:
		return m.emitter.Emit(ctx, ConversionFromLead(e))
	default:
		return nil
	}
}

// ConversionFromLead maps a capture event onto a conversion.
func ConversionFromLead(e events.LeadCaptured) Conversion {
	return Conversion{
		Type:       e.ConversionType,
		Email:      e.Email,
		Source:     e.Source,
		Score:      e.Score,
		Value:      e.Value,
		Currency:   defaultCurrency,
		OccurredAt: e.OccurredAt(),
		Properties: map[string]any{
			"lead_score_boost": e.Increment,
			"sequence":         e.Sequence,
		},
	}
}
