// Package notification sends notifications in response to domain events.
// Capture flows publish events and never talk to the mail server directly.
package notification

import (
	"context"
	"strings"

	"portfolio_leads_backend/internal/email"
	"portfolio_leads_backend/internal/events"
	"portfolio_leads_backend/platform/config"
	"portfolio_leads_backend/platform/logger"
)

const hubSpotContactURLFmt = "https://app.hubspot.com/contacts/"

// Module alerts the consultant about high-value leads.
type Module struct {
	sender     email.Sender
	consultant string
	log        *logger.Logger
}

// New builds the module from configuration; without SMTP the alert is logged.
func New(cfg config.EmailConfig, log *logger.Logger) *Module {
	var sender email.Sender = email.NewLogSender(log)
	if cfg.IsEmailEnabled() {
		sender = email.NewSMTPSender(email.SMTPOptions{
			Host:      cfg.GetSMTPHost(),
			Port:      cfg.GetSMTPPort(),
			Username:  cfg.GetSMTPUsername(),
			Password:  cfg.GetSMTPPassword(),
			FromName:  cfg.GetEmailFromName(),
			FromEmail: cfg.GetEmailFromAddress(),
		})
	}
	return NewWithSender(sender, cfg.GetConsultantEmail(), log)
}

// NewWithSender wires an explicit sender.
func NewWithSender(sender email.Sender, consultantEmail string, log *logger.Logger) *Module {
	return &Module{sender: sender, consultant: strings.TrimSpace(consultantEmail), log: log}
}

func (m *Module) Name() string { return "notification" }

// RegisterHandlers subscribes to capture events.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadCaptured{}.EventName(), m)
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadCaptured:
		return m.handleLeadCaptured(ctx, e)
	default:
		return nil
	}
}

func (m *Module) handleLeadCaptured(ctx context.Context, e events.LeadCaptured) error {
	if !e.HighValue || m.consultant == "" {
		return nil
	}

	alert := email.ConsultantAlert{
		Name:     strings.TrimSpace(e.FirstName + " " + e.LastName),
		Email:    e.Email,
		Company:  e.Company,
		JobTitle: e.JobTitle,
		Source:   e.Source,
		Score:    e.Score,
		Sequence: e.Sequence,
		Message:  e.Message,
	}
	if e.CRMSynced && e.ContactID != "" && !strings.HasPrefix(e.ContactID, "demo-") {
		alert.CRMURL = hubSpotContactURLFmt + e.ContactID
	}

	if err := m.sender.SendConsultantAlert(ctx, m.consultant, alert); err != nil {
		m.log.Error("consultant alert failed", "lead_email", logger.MaskEmail(e.Email), "error", err)
		return err
	}
	return nil
}
