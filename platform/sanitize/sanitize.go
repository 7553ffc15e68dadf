// Package sanitize cleans visitor-submitted text before it reaches the CRM,
// the activity ledger or an email template.
package sanitize

import (
	"html"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var (
	htmlTagRegex    = regexp.MustCompile(`<[^>]*>`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
	blankLinesRegex = regexp.MustCompile(`\n{3,}`)
)

// StripHTML removes tags, including ones smuggled in as entities.
func StripHTML(s string) string {
	result := htmlTagRegex.ReplaceAllString(s, "")
	result = html.UnescapeString(result)
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

// Text cleans multi-line free text such as chat and contact messages.
// Line breaks survive; other control characters do not, and runs of blank
// lines shrink to one.
func Text(s string) string {
	result := StripHTML(norm.NFC.String(s))
	result = strings.ReplaceAll(result, "\r\n", "\n")
	result = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, result)
	return blankLinesRegex.ReplaceAllString(result, "\n\n")
}

// Line cleans a single-line form field. Whitespace runs collapse to one
// space and the result is cut to max runes when max > 0.
func Line(s string, max int) string {
	result := whitespaceRegex.ReplaceAllString(StripHTML(norm.NFC.String(s)), " ")
	result = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, result)
	return Truncate(result, max)
}

// Truncate cuts s to max runes. max <= 0 leaves s unchanged.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:max]))
}
