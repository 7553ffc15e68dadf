package crm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"portfolio_leads_backend/internal/leads/domain"
	"portfolio_leads_backend/internal/leads/nurture"
	"portfolio_leads_backend/platform/logger"
)

func newTestHubSpot(t *testing.T, handler http.HandlerFunc) *HubSpotGateway {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHubSpotGateway(HubSpotOptions{BaseURL: srv.URL, APIKey: "pat-test"}, logger.Discard(), nil)
}

func TestHubSpotUpsertSendsEmailKeyedBatch(t *testing.T) {
	var got upsertRequest
	gw := newTestHubSpot(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != upsertPath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer pat-test" {
			t.Errorf("unexpected auth header %q", r.Header.Get("Authorization"))
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"status":"COMPLETE","results":[{"id":"501"}]}`))
	})

	res := gw.UpsertContact(context.Background(), domain.Contact{
		Email:          " Ada@BigBank.com ",
		FirstName:      "Ada",
		Company:        "BigBank Financial",
		Source:         domain.LeadSourceNewsletter,
		LifecycleStage: domain.LifecycleSubscriber,
		Interests:      []string{"ai_trends", "fintech_insights", "AI_TRENDS"},
		Score:          20,
	})

	if !res.Success || res.ContactID != "501" {
		t.Fatalf("expected success with id 501, got %+v", res)
	}
	if len(got.Inputs) != 1 {
		t.Fatalf("expected one input, got %d", len(got.Inputs))
	}
	in := got.Inputs[0]
	if in.IDProperty != "email" || in.ID != "ada@bigbank.com" {
		t.Fatalf("expected email id property, got %+v", in)
	}
	if in.Properties["lead_score"] != "20" {
		t.Fatalf("expected lead_score 20, got %q", in.Properties["lead_score"])
	}
	if in.Properties["interests"] != "ai_trends;fintech_insights" {
		t.Fatalf("expected semicolon-joined interests, got %q", in.Properties["interests"])
	}
	if in.Properties["lifecycle_stage"] != "subscriber" {
		t.Fatalf("expected subscriber, got %q", in.Properties["lifecycle_stage"])
	}
}

func TestHubSpotUpsertReportsUnauthorized(t *testing.T) {
	gw := newTestHubSpot(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	res := gw.UpsertContact(context.Background(), domain.Contact{Email: "ada@bigbank.com"})
	if res.Success {
		t.Fatalf("expected failure")
	}
	if !errors.Is(res.Err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", res.Err)
	}
}

func TestHubSpotUpsertRejectsMissingEmailWithoutCalling(t *testing.T) {
	var calls int32
	gw := newTestHubSpot(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	if res := gw.UpsertContact(context.Background(), domain.Contact{}); res.Success {
		t.Fatalf("expected failure for empty email")
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Fatalf("expected no CRM call, got %d", calls)
	}
}

func TestHubSpotBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var calls int32
	gw := newTestHubSpot(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	})

	for i := 0; i < 5; i++ {
		if err := gw.TrackEvent(context.Background(), "ada@bigbank.com", "newsletter_signup", nil); err == nil {
			t.Fatalf("expected error on attempt %d", i)
		}
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected breaker to stop calls after 3 failures, got %d calls", got)
	}
}

func TestHubSpotEnrollAndTrackPayloads(t *testing.T) {
	bodies := map[string]map[string]any{}
	gw := newTestHubSpot(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		bodies[r.URL.Path] = body
		w.WriteHeader(http.StatusNoContent)
	})

	ctx := context.Background()
	if err := gw.EnrollInSequence(ctx, "Ada@BigBank.com", nurture.SequenceNewsletterWelcome); err != nil {
		t.Fatalf("unexpected enroll error: %v", err)
	}
	if err := gw.TrackEvent(ctx, "ada@bigbank.com", "newsletter_signup", map[string]any{"lead_score": 20}); err != nil {
		t.Fatalf("unexpected track error: %v", err)
	}

	if bodies[enrollPath]["sequenceId"] != "newsletter-welcome-series" || bodies[enrollPath]["contactEmail"] != "ada@bigbank.com" {
		t.Fatalf("unexpected enroll body %v", bodies[enrollPath])
	}
	if bodies[eventsPath]["eventName"] != "newsletter_signup" {
		t.Fatalf("unexpected event body %v", bodies[eventsPath])
	}
	props, _ := bodies[eventsPath]["properties"].(map[string]any)
	if props["lead_score"] != float64(20) {
		t.Fatalf("expected lead_score 20 in properties, got %v", props)
	}
}
