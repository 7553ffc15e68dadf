package domain

import (
	"sort"
	"strings"
)

// LeadSource identifies the widget that produced a contact.
type LeadSource string

const (
	LeadSourceNewsletter LeadSource = "newsletter"
	LeadSourceDownload   LeadSource = "download"
	LeadSourceContact    LeadSource = "contact"
	LeadSourceChat       LeadSource = "chat"
	LeadSourceBooking    LeadSource = "booking"
)

var knownLeadSources = map[LeadSource]struct{}{
	LeadSourceNewsletter: {},
	LeadSourceDownload:   {},
	LeadSourceContact:    {},
	LeadSourceChat:       {},
	LeadSourceBooking:    {},
}

func IsKnownLeadSource(source LeadSource) bool {
	_, ok := knownLeadSources[source]
	return ok
}

// LifecycleStage is the CRM-standard funnel position.
type LifecycleStage string

const (
	LifecycleSubscriber             LifecycleStage = "subscriber"
	LifecycleLead                   LifecycleStage = "lead"
	LifecycleMarketingQualifiedLead LifecycleStage = "marketing_qualified_lead"
	LifecycleSalesQualifiedLead     LifecycleStage = "sales_qualified_lead"
	LifecycleOpportunity            LifecycleStage = "opportunity"
	LifecycleCustomer               LifecycleStage = "customer"
)

var knownLifecycleStages = map[LifecycleStage]struct{}{
	LifecycleSubscriber:             {},
	LifecycleLead:                   {},
	LifecycleMarketingQualifiedLead: {},
	LifecycleSalesQualifiedLead:     {},
	LifecycleOpportunity:            {},
	LifecycleCustomer:               {},
}

func IsKnownLifecycleStage(stage LifecycleStage) bool {
	_, ok := knownLifecycleStages[stage]
	return ok
}

const (
	MinScore = 0
	MaxScore = 100
)

// ClampScore bounds a score to [MinScore, MaxScore].
func ClampScore(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// Attribution carries the UTM parameters captured at submission time.
type Attribution struct {
	Source   string `json:"utm_source,omitempty"`
	Medium   string `json:"utm_medium,omitempty"`
	Campaign string `json:"utm_campaign,omitempty"`
}

// Contact is a lead as the CRM sees it. Email is the only identity.
type Contact struct {
	Email          string
	FirstName      string
	LastName       string
	Company        string
	JobTitle       string
	Phone          string
	Country        string
	Website        string
	Industry       string
	Source         LeadSource
	LifecycleStage LifecycleStage
	Interests      []string
	Attribution    Attribution
	Score          int
}

// NormalizeEmail returns the identity form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// WithScore returns a copy of the contact carrying the clamped score.
func (c Contact) WithScore(score int) Contact {
	c.Score = ClampScore(score)
	return c
}

// Stage returns the lifecycle stage. Empty or unrecognised stages fall back
// to subscriber, the CRM's own default.
func (c Contact) Stage() LifecycleStage {
	if !IsKnownLifecycleStage(c.LifecycleStage) {
		return LifecycleSubscriber
	}
	return c.LifecycleStage
}

// InterestTags returns the trimmed, lower-cased, de-duplicated interests in a stable order.
func (c Contact) InterestTags() []string {
	seen := make(map[string]struct{}, len(c.Interests))
	out := make([]string, 0, len(c.Interests))
	for _, raw := range c.Interests {
		tag := strings.ToLower(strings.TrimSpace(raw))
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	sort.Strings(out)
	return out
}
