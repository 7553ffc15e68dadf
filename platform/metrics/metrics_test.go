package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandlerExposesRecordedSeries(t *testing.T) {
	m := New()
	m.LeadCaptured("newsletter", 20)
	m.CRMCall("upsert_contact", errors.New("boom"))
	m.GateDenied("fintech-risk-management-ai")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	text := string(body)

	for _, want := range []string{
		`leads_captured_total{source="newsletter"} 1`,
		`crm_calls_total{operation="upsert_contact",outcome="failure"} 1`,
		`resource_gate_denials_total{resource="fintech-risk-management-ai"} 1`,
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected metrics output to contain %q", want)
		}
	}
}

func TestNilRegistryIsNoop(t *testing.T) {
	var m *Registry
	m.LeadCaptured("newsletter", 5)
	m.CRMCall("track_event", nil)
	m.AnalyticsEmit("log", nil)
	m.TrackingDelivery("inline", nil)
	m.GateDenied("x")
}
