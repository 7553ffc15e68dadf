package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"portfolio_leads_backend/internal/events"
	"portfolio_leads_backend/platform/logger"
)

type countingSink struct {
	name  string
	err   error
	calls int32
}

func (s *countingSink) Name() string { return s.name }

func (s *countingSink) Emit(context.Context, Conversion) error {
	atomic.AddInt32(&s.calls, 1)
	return s.err
}

func TestEmptyFanoutIsNoop(t *testing.T) {
	f := NewFanout(logger.Discard(), nil)
	if err := f.Emit(context.Background(), Conversion{Type: "newsletter"}); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestFanoutReachesEverySinkDespiteFailures(t *testing.T) {
	bad := &countingSink{name: "bad", err: errors.New("collector down")}
	good := &countingSink{name: "good"}
	f := NewFanout(logger.Discard(), nil, bad, nil, good)

	if f.Len() != 2 {
		t.Fatalf("expected nil sink to be skipped, got %d sinks", f.Len())
	}
	err := f.Emit(context.Background(), Conversion{Type: "booking"})
	if err == nil {
		t.Fatalf("expected joined error")
	}
	if atomic.LoadInt32(&good.calls) != 1 || atomic.LoadInt32(&bad.calls) != 1 {
		t.Fatalf("expected both sinks to be called once")
	}
}

func TestGA4SinkPayload(t *testing.T) {
	var (
		mu    sync.Mutex
		query map[string]string
		body  ga4Payload
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		query = map[string]string{
			"measurement_id": r.URL.Query().Get("measurement_id"),
			"api_secret":     r.URL.Query().Get("api_secret"),
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sink := NewGA4Sink(srv.URL, "G-TEST", "secret")
	err := sink.Emit(context.Background(), Conversion{
		Type: "newsletter", Email: "ada@bigbank.com", Source: "newsletter", Score: 20, Currency: "GBP",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if query["measurement_id"] != "G-TEST" || query["api_secret"] != "secret" {
		t.Fatalf("unexpected query %v", query)
	}
	if len(body.Events) != 1 || body.Events[0].Name != "conversion_newsletter" {
		t.Fatalf("unexpected events %+v", body.Events)
	}
	if body.ClientID != ClientID("ADA@bigbank.com") {
		t.Fatalf("expected stable client id, got %s", body.ClientID)
	}
	if body.ClientID == "ada@bigbank.com" {
		t.Fatalf("email must not be sent as client id")
	}
}

func TestWebhookSinkReportsHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	if err := NewWebhookSink(srv.URL).Emit(context.Background(), Conversion{Type: "contact"}); err == nil {
		t.Fatalf("expected error for 500")
	}
}

func TestModuleHandlesLeadCaptured(t *testing.T) {
	sink := &countingSink{name: "count"}
	m := NewModuleWithEmitter(NewFanout(logger.Discard(), nil, sink))

	bus := events.NewInMemoryBus(logger.Discard())
	m.RegisterHandlers(bus)
	if err := bus.PublishSync(context.Background(), events.LeadCaptured{
		BaseEvent:      events.NewBaseEvent(),
		Email:          "ada@bigbank.com",
		ConversionType: "newsletter",
		Score:          20,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if atomic.LoadInt32(&sink.calls) != 1 {
		t.Fatalf("expected one emission, got %d", sink.calls)
	}
}
