// Package nurture picks the follow-up email sequence for a scored contact.
package nurture

import "portfolio_leads_backend/internal/leads/domain"

// Sequence identifies an email nurture sequence in the CRM.
type Sequence string

const (
	SequenceHighValueProspect Sequence = "high-value-prospect-sequence"
	SequenceQualifiedLead     Sequence = "qualified-lead-sequence"
	SequenceResourceDownload  Sequence = "resource-download-nurture"
	SequenceNewsletterWelcome Sequence = "newsletter-welcome-series"
	SequenceGeneral           Sequence = "general-nurture-sequence"
)

const (
	HighValueThreshold = 75
	QualifiedThreshold = 50
)

// Select returns the sequence for a score and lead source. Score thresholds
// win over the source; every input maps to exactly one sequence.
func Select(score int, source domain.LeadSource) Sequence {
	switch {
	case score >= HighValueThreshold:
		return SequenceHighValueProspect
	case score >= QualifiedThreshold:
		return SequenceQualifiedLead
	case source == domain.LeadSourceDownload:
		return SequenceResourceDownload
	case source == domain.LeadSourceNewsletter:
		return SequenceNewsletterWelcome
	default:
		return SequenceGeneral
	}
}

// IsHighValue reports whether the sequence warrants a personal follow-up.
func (s Sequence) IsHighValue() bool {
	return s == SequenceHighValueProspect
}

func (s Sequence) String() string {
	return string(s)
}
