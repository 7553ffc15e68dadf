// Package crm synchronises contacts, sequence enrollments and events with
// the CRM. Failures are reported to the caller as values and never abort a
// visitor's action.
package crm

import (
	"context"
	"strconv"
	"strings"

	"portfolio_leads_backend/internal/leads/domain"
	"portfolio_leads_backend/internal/leads/nurture"
	"portfolio_leads_backend/platform/config"
	"portfolio_leads_backend/platform/logger"
	"portfolio_leads_backend/platform/metrics"
)

// Gateway is the CRM boundary.
type Gateway interface {
	// UpsertContact creates or merges a contact keyed by email. It stores
	// the score and lifecycle stage it is given.
	UpsertContact(ctx context.Context, contact domain.Contact) UpsertResult
	EnrollInSequence(ctx context.Context, email string, sequence nurture.Sequence) error
	TrackEvent(ctx context.Context, email, eventName string, properties map[string]any) error
}

// UpsertResult is the outcome of UpsertContact. ContactID is opaque.
type UpsertResult struct {
	Success   bool
	ContactID string
	Err       error
}

func failed(err error) UpsertResult {
	return UpsertResult{Success: false, Err: err}
}

// New returns the live gateway, or the recording gateway when the
// credential is absent or a placeholder.
func New(cfg config.CRMConfig, log *logger.Logger, m *metrics.Registry) Gateway {
	if !cfg.IsCRMEnabled() {
		log.Info("crm running in demo mode")
		return NewRecordingGateway(log)
	}
	return NewHubSpotGateway(HubSpotOptions{
		BaseURL: cfg.GetCRMBaseURL(),
		APIKey:  cfg.GetCRMAPIKey(),
		Timeout: cfg.GetCRMTimeout(),
	}, log, m)
}

// ContactProperties maps a contact onto the CRM's flat property set.
// Absent optional fields are sent as empty strings.
func ContactProperties(c domain.Contact) map[string]string {
	return map[string]string{
		"email":           domain.NormalizeEmail(c.Email),
		"firstname":       c.FirstName,
		"lastname":        c.LastName,
		"company":         c.Company,
		"jobtitle":        c.JobTitle,
		"phone":           c.Phone,
		"country":         c.Country,
		"website":         c.Website,
		"industry":        c.Industry,
		"lead_source":     string(c.Source),
		"lead_score":      strconv.Itoa(domain.ClampScore(c.Score)),
		"lifecycle_stage": string(c.Stage()),
		"interests":       strings.Join(c.InterestTags(), ";"),
		"utm_source":      c.Attribution.Source,
		"utm_medium":      c.Attribution.Medium,
		"utm_campaign":    c.Attribution.Campaign,
	}
}
