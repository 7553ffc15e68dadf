package transport

import (
	"time"

	"portfolio_leads_backend/internal/leads/scoring"
	"portfolio_leads_backend/internal/resources"
)

type NewsletterRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	FirstName string `json:"firstName,omitempty" validate:"omitempty,max=100"`
	LastName  string `json:"lastName,omitempty" validate:"omitempty,max=100"`
	Company   string `json:"company,omitempty" validate:"omitempty,max=200"`
	JobTitle  string `json:"jobTitle,omitempty" validate:"omitempty,max=120"`
	PageURL   string `json:"pageUrl,omitempty" validate:"omitempty,max=2048,pageurl"`
}

type DownloadRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	FirstName string `json:"firstName" validate:"required,notblank,max=100"`
	LastName  string `json:"lastName" validate:"required,notblank,max=100"`
	Company   string `json:"company" validate:"required,notblank,max=200"`
	JobTitle  string `json:"jobTitle,omitempty" validate:"omitempty,max=120"`
	Industry  string `json:"industry,omitempty" validate:"omitempty,max=120"`
	PageURL   string `json:"pageUrl,omitempty" validate:"omitempty,max=2048,pageurl"`
}

type ContactRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	FirstName string `json:"firstName" validate:"required,notblank,max=100"`
	LastName  string `json:"lastName" validate:"required,notblank,max=100"`
	Company   string `json:"company,omitempty" validate:"omitempty,max=200"`
	JobTitle  string `json:"jobTitle,omitempty" validate:"omitempty,max=120"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Website   string `json:"website,omitempty" validate:"omitempty,url,max=300"`
	Message   string `json:"message" validate:"required,notblank,max=5000"`
	PageURL   string `json:"pageUrl,omitempty" validate:"omitempty,max=2048,pageurl"`
}

type BookingRequest struct {
	ConsultationType string `json:"consultationType" validate:"required,oneof=discovery-call technical-consultation strategy-session"`
	Email            string `json:"email" validate:"required,email,max=254"`
	FirstName        string `json:"firstName" validate:"required,notblank,max=100"`
	LastName         string `json:"lastName,omitempty" validate:"omitempty,max=100"`
	Company          string `json:"company,omitempty" validate:"omitempty,max=200"`
	JobTitle         string `json:"jobTitle,omitempty" validate:"omitempty,max=120"`
	Phone            string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Notes            string `json:"notes,omitempty" validate:"omitempty,max=2000"`
	PageURL          string `json:"pageUrl,omitempty" validate:"omitempty,max=2048,pageurl"`
}

type ChatRequest struct {
	Message string `json:"message" validate:"required,notblank,max=2000"`
}

type PageViewRequest struct {
	Page string `json:"page" validate:"required,notblank,max=300"`
}

// CaptureResponse is returned by every scoring action. Tracked is false
// when the CRM could not be updated; the action itself still succeeded.
type CaptureResponse struct {
	Email        string            `json:"email"`
	Increment    int               `json:"increment"`
	LeadScore    int               `json:"leadScore"`
	Sequence     string            `json:"sequence"`
	Tracked      bool              `json:"tracked"`
	Breakdown    scoring.Breakdown `json:"breakdown"`
	ScoreVersion string            `json:"scoreVersion"`
}

type DownloadResponse struct {
	CaptureResponse
	ResourceID  string     `json:"resourceId"`
	DownloadURL string     `json:"downloadUrl"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
}

type BookingResponse struct {
	CaptureResponse
	ConsultationType string `json:"consultationType"`
	Title            string `json:"title"`
	Duration         string `json:"duration"`
	Price            string `json:"price"`
}

type ChatResponse struct {
	Reply   string `json:"reply"`
	Topic   string `json:"topic"`
	Tracked bool   `json:"tracked"`
}

type PageViewResponse struct {
	Tracked bool `json:"tracked"`
}

type ResourceListResponse struct {
	Items     []resources.Listing `json:"items"`
	LeadScore int                 `json:"leadScore"`
}

type SessionResponse struct {
	Email     string `json:"email,omitempty"`
	LeadScore int    `json:"leadScore"`
	Known     bool   `json:"known"`
}

type BookingTypeResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Duration    string `json:"duration"`
	Price       string `json:"price"`
	Description string `json:"description"`
}
