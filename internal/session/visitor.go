// Package session keeps the per-visitor mirror of the lead score used for
// gating. The CRM stays authoritative; drift between the two is accepted.
package session

import "portfolio_leads_backend/internal/leads/domain"

// Visitor is the score cache for one browser. The zero value is an
// unknown visitor with score 0.
type Visitor struct {
	id    string
	email string
	score int
	// unreadable marks a visitor whose stored state exists but could not be
	// read. Saving it would overwrite that state, so stores refuse to.
	unreadable bool
}

// NewVisitor builds a visitor with a clamped score.
func NewVisitor(email string, score int) Visitor {
	return Visitor{email: domain.NormalizeEmail(email), score: domain.ClampScore(score)}
}

func (v Visitor) ID() string    { return v.id }
func (v Visitor) Email() string { return v.email }
func (v Visitor) Score() int    { return v.score }

// IsKnown reports whether the visitor has identified themselves.
func (v Visitor) IsKnown() bool {
	return v.email != ""
}

// WithEmail returns a copy carrying the normalised email.
func (v Visitor) WithEmail(email string) Visitor {
	v.email = domain.NormalizeEmail(email)
	return v
}

// WithScore returns a copy carrying the clamped score.
func (v Visitor) WithScore(score int) Visitor {
	v.score = domain.ClampScore(score)
	return v
}

// AddScore returns a copy with the increment applied to the cached score.
func (v Visitor) AddScore(increment int) Visitor {
	return v.WithScore(v.score + increment)
}

// CanAccess reports whether the cached score meets the threshold.
func (v Visitor) CanAccess(threshold int) bool {
	return v.score >= threshold
}

// Unreadable reports whether the store failed to read this visitor.
func (v Visitor) Unreadable() bool {
	return v.unreadable
}

func (v Visitor) withID(id string) Visitor {
	v.id = id
	return v
}
