package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

const subjectConsultantAlertFmt = "High-value lead: %s (score %d)"

// baseEmailData is the layout shared by every template: title, header
// block and an optional call-to-action button.

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
	CTALabel   string
	CTAURL     string
}

type consultantAlertEmailData struct {
	baseEmailData
	Name     string
	Email    string
	Company  string
	JobTitle string
	Source   string
	Score    int
	Sequence string
	Message  string
}

func renderEmailTemplate(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
