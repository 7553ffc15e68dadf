package crm

import (
	"context"
	"errors"
	"sync"

	"portfolio_leads_backend/internal/leads/domain"
	"portfolio_leads_backend/internal/leads/nurture"
	"portfolio_leads_backend/platform/logger"

	"github.com/google/uuid"
)

// RecordedEvent is a TrackEvent call captured by the RecordingGateway.
type RecordedEvent struct {
	Name       string
	Properties map[string]any
}

type record struct {
	id        string
	contact   domain.Contact
	sequences []nurture.Sequence
	events    []RecordedEvent
}

// RecordingGateway is the demo-mode gateway. It makes no network calls,
// logs what it would have sent and keeps the last state per email.
type RecordingGateway struct {
	mu      sync.RWMutex
	records map[string]*record
	log     *logger.Logger
}

// NewRecordingGateway creates an empty recording gateway.
func NewRecordingGateway(log *logger.Logger) *RecordingGateway {
	return &RecordingGateway{records: make(map[string]*record), log: log}
}

func (g *RecordingGateway) UpsertContact(_ context.Context, contact domain.Contact) UpsertResult {
	email := domain.NormalizeEmail(contact.Email)
	if email == "" {
		return failed(errors.New("crm: contact email is required"))
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	rec, ok := g.records[email]
	if !ok {
		rec = &record{id: "demo-contact-" + uuid.NewString()}
		g.records[email] = rec
	}
	contact.Email = email
	rec.contact = contact

	g.log.Info("demo mode: would upsert contact",
		"email", logger.MaskEmail(email),
		"contact_id", rec.id,
		"lead_score", contact.Score,
		"lifecycle_stage", contact.Stage(),
	)
	return UpsertResult{Success: true, ContactID: rec.id}
}

func (g *RecordingGateway) EnrollInSequence(_ context.Context, email string, sequence nurture.Sequence) error {
	email = domain.NormalizeEmail(email)
	g.mu.Lock()
	defer g.mu.Unlock()

	rec := g.recordFor(email)
	rec.sequences = append(rec.sequences, sequence)
	g.log.Info("demo mode: would enroll in sequence", "email", logger.MaskEmail(email), "sequence", sequence)
	return nil
}

func (g *RecordingGateway) TrackEvent(_ context.Context, email, eventName string, properties map[string]any) error {
	email = domain.NormalizeEmail(email)
	g.mu.Lock()
	defer g.mu.Unlock()

	rec := g.recordFor(email)
	rec.events = append(rec.events, RecordedEvent{Name: eventName, Properties: properties})
	g.log.Info("demo mode: would track event", "email", logger.MaskEmail(email), "event", eventName)
	return nil
}

// recordFor must be called with mu held.
func (g *RecordingGateway) recordFor(email string) *record {
	rec, ok := g.records[email]
	if !ok {
		rec = &record{}
		g.records[email] = rec
	}
	return rec
}

// Contact returns the last upserted state for an email.
func (g *RecordingGateway) Contact(email string) (domain.Contact, string, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	rec, ok := g.records[domain.NormalizeEmail(email)]
	if !ok || rec.id == "" {
		return domain.Contact{}, "", false
	}
	return rec.contact, rec.id, true
}

// Sequences returns the sequences an email was enrolled in, in call order.
func (g *RecordingGateway) Sequences(email string) []nurture.Sequence {
	g.mu.RLock()
	defer g.mu.RUnlock()
	rec, ok := g.records[domain.NormalizeEmail(email)]
	if !ok {
		return nil
	}
	return append([]nurture.Sequence(nil), rec.sequences...)
}

// Events returns the events tracked for an email, in call order.
func (g *RecordingGateway) Events(email string) []RecordedEvent {
	g.mu.RLock()
	defer g.mu.RUnlock()
	rec, ok := g.records[domain.NormalizeEmail(email)]
	if !ok {
		return nil
	}
	return append([]RecordedEvent(nil), rec.events...)
}

// ContactCount returns the number of distinct upserted contacts.
func (g *RecordingGateway) ContactCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n := 0
	for _, rec := range g.records {
		if rec.id != "" {
			n++
		}
	}
	return n
}

var _ Gateway = (*RecordingGateway)(nil)
