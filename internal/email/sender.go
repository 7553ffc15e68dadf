// Package email delivers operational emails to the consultant.
package email

import (
	"context"
	"fmt"
	"strings"

	"portfolio_leads_backend/platform/logger"
)

// ConsultantAlert describes a lead that warrants a personal follow-up.
type ConsultantAlert struct {
	Name     string
	Email    string
	Company  string
	JobTitle string
	Source   string
	Score    int
	Sequence string
	Message  string
	CRMURL   string
}

// Sender sends consultant emails.
type Sender interface {
	SendConsultantAlert(ctx context.Context, toEmail string, alert ConsultantAlert) error
}

// LogSender logs instead of sending. Used when SMTP is not configured.
type LogSender struct {
	log *logger.Logger
}

func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) SendConsultantAlert(_ context.Context, toEmail string, alert ConsultantAlert) error {
	s.log.Info("email disabled: consultant alert not sent",
		"to", toEmail,
		"lead_email", logger.MaskEmail(alert.Email),
		"score", alert.Score,
	)
	return nil
}

func renderConsultantAlert(alert ConsultantAlert) (subject, body string, err error) {
	name := strings.TrimSpace(alert.Name)
	if name == "" {
		name = alert.Email
	}
	subject = fmt.Sprintf(subjectConsultantAlertFmt, name, alert.Score)
	body, err = renderEmailTemplate("consultant_alert.html", consultantAlertEmailData{
		baseEmailData: baseEmailData{
			Title:      subject,
			Heading:    "New high-value lead",
			Subheading: "This contact was enrolled in the high-value prospect sequence.",
			CTALabel:   "Open in CRM",
			CTAURL:     alert.CRMURL,
		},
		Name:     name,
		Email:    alert.Email,
		Company:  alert.Company,
		JobTitle: alert.JobTitle,
		Source:   alert.Source,
		Score:    alert.Score,
		Sequence: alert.Sequence,
		Message:  alert.Message,
	})
	return subject, body, err
}

// plainConsultantAlert is the text/plain alternative of the alert.
func plainConsultantAlert(alert ConsultantAlert) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New high-value lead: %s <%s>\n", alert.Name, alert.Email)
	if alert.Company != "" {
		fmt.Fprintf(&b, "Company: %s\n", alert.Company)
	}
	if alert.JobTitle != "" {
		fmt.Fprintf(&b, "Job title: %s\n", alert.JobTitle)
	}
	fmt.Fprintf(&b, "Source: %s\nScore: %d\nSequence: %s\n", alert.Source, alert.Score, alert.Sequence)
	if alert.Message != "" {
		fmt.Fprintf(&b, "\n%s\n", alert.Message)
	}
	if alert.CRMURL != "" {
		fmt.Fprintf(&b, "\n%s\n", alert.CRMURL)
	}
	return b.String()
}

var (
	_ Sender = (*LogSender)(nil)
	_ Sender = (*SMTPSender)(nil)
)
