package email

import (
	"context"
	"strings"
	"testing"

	"portfolio_leads_backend/platform/logger"
)

func TestRenderConsultantAlertEscapesInput(t *testing.T) {
	subject, body, err := renderConsultantAlert(ConsultantAlert{
		Name:     "Ada Lovelace",
		Email:    "ada@bigbank.com",
		Company:  "BigBank <Financial>",
		Source:   "booking",
		Score:    100,
		Sequence: "high-value-prospect-sequence",
		Message:  "<script>alert(1)</script>",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if subject != "High-value lead: Ada Lovelace (score 100)" {
		t.Fatalf("unexpected subject %q", subject)
	}
	if strings.Contains(body, "<script>") {
		t.Fatalf("expected message to be escaped")
	}
	if !strings.Contains(body, "BigBank &lt;Financial&gt;") {
		t.Fatalf("expected escaped company in body")
	}
}

func TestRenderConsultantAlertFallsBackToEmail(t *testing.T) {
	subject, _, err := renderConsultantAlert(ConsultantAlert{Email: "ada@bigbank.com", Score: 80})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(subject, "ada@bigbank.com") {
		t.Fatalf("expected email in subject, got %q", subject)
	}
}

func TestLogSenderNeverFails(t *testing.T) {
	if err := NewLogSender(logger.Discard()).SendConsultantAlert(context.Background(), "isaac@example.com", ConsultantAlert{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPlainConsultantAlertSkipsEmptyFields(t *testing.T) {
	text := plainConsultantAlert(ConsultantAlert{
		Name:     "Ada Lovelace",
		Email:    "ada@bigbank.com",
		Source:   "newsletter",
		Score:    85,
		Sequence: "high-value-prospect-sequence",
	})
	if !strings.Contains(text, "Ada Lovelace <ada@bigbank.com>") || !strings.Contains(text, "Score: 85") {
		t.Fatalf("unexpected text body %q", text)
	}
	if strings.Contains(text, "Company:") || strings.Contains(text, "Job title:") {
		t.Fatalf("expected empty fields to be omitted, got %q", text)
	}
}
