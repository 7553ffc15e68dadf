// Package tracking records named behavioural events against a contact.
// Tracking is fire-and-forget: failures are logged and never reach the
// visitor's action.
package tracking

import (
	"context"
	"time"

	"portfolio_leads_backend/internal/crm"
	"portfolio_leads_backend/internal/leads/domain"
	"portfolio_leads_backend/internal/scheduler"
	"portfolio_leads_backend/platform/logger"
	"portfolio_leads_backend/platform/metrics"

	"github.com/google/uuid"
)

const defaultDeliveryTimeout = 10 * time.Second

// Delivery hands an event to the CRM, directly or through the queue.
type Delivery interface {
	Deliver(ctx context.Context, payload scheduler.TrackEventPayload) error
	Mode() string
}

// InlineDelivery calls the gateway within the request.
type InlineDelivery struct {
	gateway crm.Gateway
}

func NewInlineDelivery(gateway crm.Gateway) *InlineDelivery {
	return &InlineDelivery{gateway: gateway}
}

func (d *InlineDelivery) Deliver(ctx context.Context, p scheduler.TrackEventPayload) error {
	return d.gateway.TrackEvent(ctx, p.Email, p.EventName, p.Properties)
}

func (d *InlineDelivery) Mode() string { return "inline" }

// QueuedDelivery enqueues the event for the worker, which retries.
type QueuedDelivery struct {
	enqueuer scheduler.TrackEventEnqueuer
}

func NewQueuedDelivery(enqueuer scheduler.TrackEventEnqueuer) *QueuedDelivery {
	return &QueuedDelivery{enqueuer: enqueuer}
}

func (d *QueuedDelivery) Deliver(ctx context.Context, p scheduler.TrackEventPayload) error {
	return d.enqueuer.EnqueueTrackEvent(ctx, p)
}

func (d *QueuedDelivery) Mode() string { return "queued" }

// Tracker records events. The ledger is optional.
type Tracker struct {
	delivery Delivery
	ledger   Ledger
	timeout  time.Duration
	log      *logger.Logger
	metrics  *metrics.Registry
}

// NewTracker creates a tracker. ledger may be nil.
func NewTracker(delivery Delivery, ledger Ledger, log *logger.Logger, m *metrics.Registry) *Tracker {
	return &Tracker{
		delivery: delivery,
		ledger:   ledger,
		timeout:  defaultDeliveryTimeout,
		log:      log,
		metrics:  m,
	}
}

// Track records the event. It never fails; the caller's cancellation does
// not abort delivery.
func (t *Tracker) Track(ctx context.Context, email, eventName string, properties map[string]any) {
	email = domain.NormalizeEmail(email)
	if email == "" || eventName == "" {
		return
	}
	if properties == nil {
		properties = map[string]any{}
	}

	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), t.timeout)
	defer cancel()

	now := time.Now().UTC()
	log := t.log.WithContext(ctx)

	if t.ledger != nil {
		entry := Entry{ID: uuid.New(), Email: email, EventName: eventName, Properties: properties, OccurredAt: now}
		if err := t.ledger.Append(dctx, entry); err != nil {
			log.DatabaseError("append_lead_activity", err)
		}
	}

	err := t.delivery.Deliver(dctx, scheduler.TrackEventPayload{
		Email:      email,
		EventName:  eventName,
		Properties: properties,
		OccurredAt: now,
	})
	t.metrics.TrackingDelivery(t.delivery.Mode(), err)
	if err != nil {
		log.CRMFailure("track_event", email, err)
	}
}
