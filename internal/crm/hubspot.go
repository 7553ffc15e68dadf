package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"portfolio_leads_backend/internal/leads/domain"
	"portfolio_leads_backend/internal/leads/nurture"
	"portfolio_leads_backend/platform/logger"
	"portfolio_leads_backend/platform/metrics"

	"github.com/sony/gobreaker"
)

const (
	defaultBaseURL = "https://api.hubapi.com"
	defaultTimeout = 10 * time.Second

	upsertPath = "/crm/v3/objects/contacts/batch/upsert"
	enrollPath = "/automation/v4/sequences/enrollments"
	eventsPath = "/events/v3/send"
)

// ErrUnauthorized is returned when the CRM rejects the credential.
var ErrUnauthorized = errors.New("crm: unauthorized")

// HubSpotOptions configures the live gateway.
type HubSpotOptions struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// HubSpotGateway talks to the HubSpot REST API behind a circuit breaker.
type HubSpotGateway struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	log        *logger.Logger
	metrics    *metrics.Registry
}

// NewHubSpotGateway creates a live gateway.
func NewHubSpotGateway(opts HubSpotOptions, log *logger.Logger, m *metrics.Registry) *HubSpotGateway {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &HubSpotGateway{
		baseURL:    baseURL,
		apiKey:     opts.APIKey,
		httpClient: client,
		breaker:    newBreaker("hubspot"),
		log:        log,
		metrics:    m,
	}
}

type upsertInput struct {
	IDProperty string            `json:"idProperty"`
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
}

type upsertRequest struct {
	Inputs []upsertInput `json:"inputs"`
}

type upsertResponse struct {
	Results []struct {
		ID string `json:"id"`
	} `json:"results"`
}

// UpsertContact merges the contact by email through the batch upsert endpoint.
func (g *HubSpotGateway) UpsertContact(ctx context.Context, contact domain.Contact) UpsertResult {
	email := domain.NormalizeEmail(contact.Email)
	if email == "" {
		return failed(errors.New("crm: contact email is required"))
	}

	body := upsertRequest{Inputs: []upsertInput{{
		IDProperty: "email",
		ID:         email,
		Properties: ContactProperties(contact),
	}}}

	var resp upsertResponse
	err := g.call(ctx, "upsert_contact", upsertPath, body, &resp)
	if err != nil {
		return failed(err)
	}
	if len(resp.Results) == 0 || resp.Results[0].ID == "" {
		return failed(errors.New("crm: upsert returned no contact id"))
	}
	return UpsertResult{Success: true, ContactID: resp.Results[0].ID}
}

// EnrollInSequence enrolls the contact in a nurture sequence.
func (g *HubSpotGateway) EnrollInSequence(ctx context.Context, email string, sequence nurture.Sequence) error {
	body := map[string]string{
		"contactEmail": domain.NormalizeEmail(email),
		"sequenceId":   sequence.String(),
	}
	return g.call(ctx, "enroll_sequence", enrollPath, body, nil)
}

// TrackEvent records a custom behavioural event against the contact.
func (g *HubSpotGateway) TrackEvent(ctx context.Context, email, eventName string, properties map[string]any) error {
	if properties == nil {
		properties = map[string]any{}
	}
	body := map[string]any{
		"email":      domain.NormalizeEmail(email),
		"eventName":  eventName,
		"properties": properties,
	}
	return g.call(ctx, "track_event", eventsPath, body, nil)
}

func (g *HubSpotGateway) call(ctx context.Context, operation, path string, body any, out any) error {
	_, err := g.breaker.Execute(func() (interface{}, error) {
		return nil, g.post(ctx, path, body, out)
	})
	g.metrics.CRMCall(operation, err)
	if err != nil {
		return fmt.Errorf("crm %s: %w", operation, err)
	}
	return nil
}

func (g *HubSpotGateway) post(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode >= 300 || resp.StatusCode == http.StatusMultiStatus:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("upstream error: status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

var _ Gateway = (*HubSpotGateway)(nil)
