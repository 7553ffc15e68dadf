// Package attribution extracts UTM campaign parameters for a submission.
package attribution

import (
	"net/url"
	"strings"

	"portfolio_leads_backend/internal/leads/domain"
	"portfolio_leads_backend/platform/sanitize"
)

const maxParamLength = 200

// FromURL reads utm_source, utm_medium and utm_campaign from a page URL.
// Unparseable input yields empty attribution.
func FromURL(rawURL string) domain.Attribution {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return domain.Attribution{}
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return domain.Attribution{}
	}
	q := u.Query()
	return domain.Attribution{
		Source:   sanitize.Line(q.Get("utm_source"), maxParamLength),
		Medium:   sanitize.Line(q.Get("utm_medium"), maxParamLength),
		Campaign: sanitize.Line(q.Get("utm_campaign"), maxParamLength),
	}
}

// Resolve prefers the page URL the client reported and falls back to the
// request's Referer.
func Resolve(pageURL, referer string) domain.Attribution {
	if a := FromURL(pageURL); !IsEmpty(a) {
		return a
	}
	return FromURL(referer)
}

func IsEmpty(a domain.Attribution) bool {
	return a.Source == "" && a.Medium == "" && a.Campaign == ""
}
