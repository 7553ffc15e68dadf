package scoring

import (
	"fmt"
	"os"

	"portfolio_leads_backend/internal/leads/domain"

	"gopkg.in/yaml.v3"
)

// Rules is the scoring rule table. Point values are fixed per category;
// vocabularies are matched as case-insensitive substrings.
type Rules struct {
	SourcePoints map[domain.LeadSource]int `yaml:"source_points"`

	StandardDownload  int `yaml:"standard_download"`
	PremiumDownload   int `yaml:"premium_download"`
	PageViewServices  int `yaml:"page_view_services"`
	PageViewPortfolio int `yaml:"page_view_portfolio"`
	ReturnVisitor     int `yaml:"return_visitor"`
	MultipleDownloads int `yaml:"multiple_downloads"`

	ExecutiveBonus   int `yaml:"executive_title_bonus"`
	CompanySizeBonus int `yaml:"company_size_bonus"`

	ExecutiveTitles   []string `yaml:"executive_titles"`
	LargeCompanyTerms []string `yaml:"large_company_terms"`
}

// DefaultRules returns the built-in rule table.
func DefaultRules() Rules {
	return Rules{
		SourcePoints: map[domain.LeadSource]int{
			domain.LeadSourceNewsletter: 5,
			domain.LeadSourceDownload:   15,
			domain.LeadSourceContact:    25,
			domain.LeadSourceBooking:    50,
		},
		StandardDownload:  15,
		PremiumDownload:   25,
		PageViewServices:  2,
		PageViewPortfolio: 3,
		ReturnVisitor:     10,
		MultipleDownloads: 10,
		ExecutiveBonus:    20,
		CompanySizeBonus:  15,
		ExecutiveTitles: []string{
			"CEO", "CTO", "CFO", "COO", "CMO",
			"chief", "president", "VP", "vice president", "director",
		},
		LargeCompanyTerms: []string{
			"bank", "financial", "insurance", "capital", "investment",
			"group", "holdings", "corp", "inc", "ltd",
		},
	}
}

// SourceBase returns the base points for a lead source; unknown sources score 0.
func (r Rules) SourceBase(source domain.LeadSource) int {
	return r.SourcePoints[source]
}

// DownloadPoints returns the activity points for downloading a resource.
func (r Rules) DownloadPoints(premium bool) int {
	if premium {
		return r.PremiumDownload
	}
	return r.StandardDownload
}

// Validate rejects rule tables that could break the score invariants.
func (r Rules) Validate() error {
	for source, pts := range r.SourcePoints {
		if !domain.IsKnownLeadSource(source) {
			return fmt.Errorf("unknown lead source %q in source_points", source)
		}
		if pts < 0 {
			return fmt.Errorf("source_points[%s] must not be negative", source)
		}
	}
	values := map[string]int{
		"standard_download":     r.StandardDownload,
		"premium_download":      r.PremiumDownload,
		"page_view_services":    r.PageViewServices,
		"page_view_portfolio":   r.PageViewPortfolio,
		"return_visitor":        r.ReturnVisitor,
		"multiple_downloads":    r.MultipleDownloads,
		"executive_title_bonus": r.ExecutiveBonus,
		"company_size_bonus":    r.CompanySizeBonus,
	}
	for name, v := range values {
		if v < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	return nil
}

// LoadRules reads a YAML override on top of DefaultRules. Keys absent
// from the file keep their default value. An empty path returns the defaults.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read scoring rules: %w", err)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("parse scoring rules: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return Rules{}, fmt.Errorf("invalid scoring rules: %w", err)
	}
	return rules, nil
}
