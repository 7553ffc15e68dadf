// Package events holds the lead domain events and the bus aliases that
// capture, analytics and notification share.
package events

import (
	"portfolio_leads_backend/platform/events"
	"portfolio_leads_backend/platform/logger"
)

type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

var NewBaseEvent = events.NewBaseEvent

// NewInMemoryBus returns the process-local bus used by cmd/api and tests.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return events.NewInMemoryBus(log)
}

// =============================================================================
// Lead Capture Events
// =============================================================================

// LeadCaptured is published after a capture action has been scored and
// handed to the CRM. CRMSynced is false when the upsert failed.
type LeadCaptured struct {
	BaseEvent
	Email          string `json:"email"`
	FirstName      string `json:"firstName,omitempty"`
	LastName       string `json:"lastName,omitempty"`
	Company        string `json:"company,omitempty"`
	JobTitle       string `json:"jobTitle,omitempty"`
	Source         string `json:"source"`
	ConversionType string `json:"conversionType"`
	Increment      int    `json:"increment"`
	Score          int    `json:"score"`
	Sequence       string `json:"sequence"`
	HighValue      bool   `json:"highValue"`
	ContactID      string `json:"contactId,omitempty"`
	CRMSynced      bool   `json:"crmSynced"`
	// Value is the monetary value of the conversion in GBP, when known.
	Value float64 `json:"value"`
	// Message is the free-text enquiry for contact and booking captures.
	Message string `json:"message,omitempty"`
}

func (e LeadCaptured) EventName() string { return "leads.captured" }

// ResourceGateDenied is published when a download is refused for score.
type ResourceGateDenied struct {
	BaseEvent
	ResourceID    string `json:"resourceId"`
	RequiredScore int    `json:"requiredScore"`
	CurrentScore  int    `json:"currentScore"`
}

func (e ResourceGateDenied) EventName() string { return "resources.gate_denied" }
