// Package scoring computes bounded lead scores from declared contact
// attributes and recorded activities.
package scoring

import (
	"strings"

	"portfolio_leads_backend/internal/leads/domain"

	"golang.org/x/text/cases"
)

// ModelVersion names the point table and bonus rules. It is stamped on every
// Result, logged with each scored lead and returned to the caller.
const ModelVersion = "rules-v1"

// Breakdown explains how a score was reached.
type Breakdown struct {
	Base             int  `json:"base"`
	ActivityPoints   int  `json:"activityPoints"`
	ExecutiveBonus   int  `json:"executiveBonus"`
	CompanySizeBonus int  `json:"companySizeBonus"`
	Raw              int  `json:"raw"`
	Score            int  `json:"score"`
	Clamped          bool `json:"clamped"`
}

// Result is the output of Calculate.
type Result struct {
	Score     int
	Breakdown Breakdown
	Version   string
}

// Calculator applies a rule table. Safe for concurrent use.
type Calculator struct {
	rules        Rules
	executive    []string
	largeCompany []string
}

// NewCalculator creates a calculator for the given rules.
func NewCalculator(rules Rules) *Calculator {
	return &Calculator{
		rules:        rules,
		executive:    foldAll(rules.ExecutiveTitles),
		largeCompany: foldAll(rules.LargeCompanyTerms),
	}
}

// Rules returns the rule table in use.
func (c *Calculator) Rules() Rules {
	return c.rules
}

// Calculate scores a contact's declared attributes plus its activities.
// The contact's stored Score is ignored.
func (c *Calculator) Calculate(contact domain.Contact, activities []domain.Activity) Result {
	b := Breakdown{Base: c.rules.SourceBase(contact.Source)}

	for _, a := range activities {
		b.ActivityPoints += a.PointValue()
	}

	if c.IsExecutiveTitle(contact.JobTitle) {
		b.ExecutiveBonus = c.rules.ExecutiveBonus
	}
	if c.IsLargeCompany(contact.Company) {
		b.CompanySizeBonus = c.rules.CompanySizeBonus
	}

	b.Raw = b.Base + b.ActivityPoints + b.ExecutiveBonus + b.CompanySizeBonus
	b.Score = domain.ClampScore(b.Raw)
	b.Clamped = b.Score != b.Raw

	return Result{Score: b.Score, Breakdown: b, Version: ModelVersion}
}

// CalculateLeadScore is Calculate returning only the score.
func (c *Calculator) CalculateLeadScore(contact domain.Contact, activities []domain.Activity) int {
	return c.Calculate(contact, activities).Score
}

// IsExecutiveTitle reports whether the job title contains an executive term.
func (c *Calculator) IsExecutiveTitle(title string) bool {
	return c.containsAny(title, c.executive)
}

// IsLargeCompany reports whether the company name contains a large-organisation term.
func (c *Calculator) IsLargeCompany(company string) bool {
	return c.containsAny(company, c.largeCompany)
}

func (c *Calculator) containsAny(value string, terms []string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	// Casers carry state, so each call gets its own.
	folded := cases.Fold().String(value)
	for _, term := range terms {
		if term != "" && strings.Contains(folded, term) {
			return true
		}
	}
	return false
}

func foldAll(terms []string) []string {
	fold := cases.Fold()
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		out = append(out, fold.String(t))
	}
	return out
}
