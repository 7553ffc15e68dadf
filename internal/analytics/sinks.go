package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"portfolio_leads_backend/platform/logger"

	"github.com/google/uuid"
)

const sinkTimeout = 5 * time.Second

// LogSink writes conversions to the structured log.
type LogSink struct {
	log *logger.Logger
}

func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Emit(_ context.Context, c Conversion) error {
	s.log.Info("conversion",
		"type", c.Type,
		"source", c.Source,
		"score", c.Score,
		"value", c.Value,
		"currency", c.Currency,
	)
	return nil
}

// GA4Sink sends conversions through the GA4 Measurement Protocol. The
// client id is derived from the email so no address leaves the service.
type GA4Sink struct {
	endpoint      string
	measurementID string
	apiSecret     string
	httpClient    *http.Client
}

func NewGA4Sink(endpoint, measurementID, apiSecret string) *GA4Sink {
	return &GA4Sink{
		endpoint:      endpoint,
		measurementID: measurementID,
		apiSecret:     apiSecret,
		httpClient:    &http.Client{Timeout: sinkTimeout},
	}
}

func (s *GA4Sink) Name() string { return "ga4" }

type ga4Event struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params"`
}

type ga4Payload struct {
	ClientID string     `json:"client_id"`
	Events   []ga4Event `json:"events"`
}

func (s *GA4Sink) Emit(ctx context.Context, c Conversion) error {
	params := map[string]any{
		"event_category": "lead_generation",
		"lead_source":    c.Source,
		"lead_score":     c.Score,
		"value":          c.Value,
		"currency":       c.Currency,
	}
	for k, v := range c.Properties {
		params[k] = v
	}

	payload := ga4Payload{
		ClientID: ClientID(c.Email),
		Events:   []ga4Event{{Name: "conversion_" + c.Type, Params: params}},
	}

	q := url.Values{}
	q.Set("measurement_id", s.measurementID)
	q.Set("api_secret", s.apiSecret)
	return postJSON(ctx, s.httpClient, s.endpoint+"?"+q.Encode(), payload)
}

// ClientID maps an email to a stable pseudonymous analytics id.
func ClientID(email string) string {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return uuid.NewString()
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email)).String()
}

// WebhookSink posts the conversion as JSON to a collector URL.
type WebhookSink struct {
	url        string
	httpClient *http.Client
}

func NewWebhookSink(url string) *WebhookSink {
	return &WebhookSink{url: url, httpClient: &http.Client{Timeout: sinkTimeout}}
}

func (s *WebhookSink) Name() string { return "webhook" }

func (s *WebhookSink) Emit(ctx context.Context, c Conversion) error {
	return postJSON(ctx, s.httpClient, s.url, c)
}

func postJSON(ctx context.Context, client *http.Client, target string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("collector returned status %d", resp.StatusCode)
	}
	return nil
}

var (
	_ Emitter = (*LogSink)(nil)
	_ Emitter = (*GA4Sink)(nil)
	_ Emitter = (*WebhookSink)(nil)
)
