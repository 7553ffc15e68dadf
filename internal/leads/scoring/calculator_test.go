package scoring

import (
	"os"
	"path/filepath"
	"testing"

	"portfolio_leads_backend/internal/leads/domain"
)

func newTestCalculator() *Calculator {
	return NewCalculator(DefaultRules())
}

func TestCalculateSourceBaseWithoutActivities(t *testing.T) {
	calc := newTestCalculator()
	cases := []struct {
		source domain.LeadSource
		want   int
	}{
		{domain.LeadSourceNewsletter, 5},
		{domain.LeadSourceDownload, 15},
		{domain.LeadSourceContact, 25},
		{domain.LeadSourceBooking, 50},
		{domain.LeadSourceChat, 0},
		{domain.LeadSource("carrier-pigeon"), 0},
	}
	for _, tc := range cases {
		got := calc.CalculateLeadScore(domain.Contact{Source: tc.source}, nil)
		if got != tc.want {
			t.Fatalf("source %s: expected %d, got %d", tc.source, tc.want, got)
		}
	}
}

func TestCalculateClampsStackedBonuses(t *testing.T) {
	calc := newTestCalculator()
	contact := domain.Contact{
		Source:   domain.LeadSourceBooking,
		JobTitle: "CEO",
		Company:  "Acme Holdings",
	}
	activities := []domain.Activity{domain.NewActivity(domain.ActivityDownload, nil).WithPoints(25)}

	result := calc.Calculate(contact, activities)

	if result.Breakdown.Raw != 110 {
		t.Fatalf("expected raw 110, got %d", result.Breakdown.Raw)
	}
	if result.Score != 100 {
		t.Fatalf("expected clamped 100, got %d", result.Score)
	}
	if !result.Breakdown.Clamped {
		t.Fatalf("expected breakdown to report clamping")
	}
}

func TestCalculateClampsLargeOverflow(t *testing.T) {
	calc := newTestCalculator()
	var activities []domain.Activity
	for i := 0; i < 50; i++ {
		activities = append(activities, domain.NewActivity(domain.ActivityDownload, nil).WithPoints(25))
	}
	if got := calc.CalculateLeadScore(domain.Contact{Source: domain.LeadSourceBooking}, activities); got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}
}

func TestCalculateClampsNegativeToZero(t *testing.T) {
	calc := newTestCalculator()
	activities := []domain.Activity{domain.NewActivity(domain.ActivityEmailOpen, nil).WithPoints(-40)}
	if got := calc.CalculateLeadScore(domain.Contact{Source: domain.LeadSourceNewsletter}, activities); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestCalculateIsMonotonicInPositiveActivities(t *testing.T) {
	calc := newTestCalculator()
	contact := domain.Contact{Source: domain.LeadSourceNewsletter, Company: "Tiny Studio"}

	var activities []domain.Activity
	prev := calc.CalculateLeadScore(contact, activities)
	for _, pts := range []int{1, 3, 15, 25, 10, 40, 5} {
		activities = append(activities, domain.NewActivity(domain.ActivityPageView, nil).WithPoints(pts))
		got := calc.CalculateLeadScore(contact, activities)
		if got < prev {
			t.Fatalf("score decreased from %d to %d after adding %d points", prev, got, pts)
		}
		prev = got
	}
}

func TestCalculateIsOrderIndependent(t *testing.T) {
	calc := newTestCalculator()
	contact := domain.Contact{Source: domain.LeadSourceDownload}
	a := domain.NewActivity(domain.ActivityDownload, nil).WithPoints(15)
	b := domain.NewActivity(domain.ActivityPageView, nil).WithPoints(3)
	c := domain.NewActivity(domain.ActivityPageView, nil)

	first := calc.CalculateLeadScore(contact, []domain.Activity{a, b, c})
	second := calc.CalculateLeadScore(contact, []domain.Activity{c, b, a})
	if first != second || first != 33 {
		t.Fatalf("expected 33 in both orders, got %d and %d", first, second)
	}
}

func TestExecutiveTitleMatching(t *testing.T) {
	calc := newTestCalculator()
	cases := map[string]bool{
		"chief growth officer":    true,
		"director of engineering": true,
		"VP Sales":                true,
		"vice president, risk":    true,
		"Co-founder & ceo":        true,
		"administrator":           false,
		"Software Engineer":       false,
		"":                        false,
	}
	for title, want := range cases {
		if got := calc.IsExecutiveTitle(title); got != want {
			t.Fatalf("IsExecutiveTitle(%q) = %v, want %v", title, got, want)
		}
	}
}

func TestLargeCompanyMatchingIsCaseInsensitive(t *testing.T) {
	calc := newTestCalculator()
	cases := map[string]bool{
		"BigBank Financial": true,
		"ACME CORP":         true,
		"northwind ltd":     true,
		"Tiny Studio":       false,
		"":                  false,
	}
	for company, want := range cases {
		if got := calc.IsLargeCompany(company); got != want {
			t.Fatalf("IsLargeCompany(%q) = %v, want %v", company, got, want)
		}
	}
}

func TestNewsletterSignupForBankContact(t *testing.T) {
	calc := newTestCalculator()
	contact := domain.Contact{
		Email:     "ada@bigbank.com",
		FirstName: "Ada",
		Company:   "BigBank Financial",
		Source:    domain.LeadSourceNewsletter,
	}
	activities := []domain.Activity{domain.NewActivity(domain.ActivityFormSubmit, map[string]any{"form_type": "newsletter_signup"})}

	result := calc.Calculate(contact, activities)
	if result.Score != 20 {
		t.Fatalf("expected 20, got %d (%+v)", result.Score, result.Breakdown)
	}
	if result.Breakdown.CompanySizeBonus != 15 || result.Breakdown.Base != 5 {
		t.Fatalf("unexpected breakdown %+v", result.Breakdown)
	}
}

func TestLoadRulesOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	data := []byte("premium_download: 30\nsource_points:\n  booking: 60\nexecutive_titles: [founder]\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	rules, err := LoadRules(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rules.PremiumDownload != 30 {
		t.Fatalf("expected premium download 30, got %d", rules.PremiumDownload)
	}
	if rules.SourceBase(domain.LeadSourceBooking) != 60 || rules.SourceBase(domain.LeadSourceNewsletter) != 5 {
		t.Fatalf("expected booking override and newsletter default, got %v", rules.SourcePoints)
	}
	if !NewCalculator(rules).IsExecutiveTitle("Founder") {
		t.Fatalf("expected overridden vocabulary to apply")
	}
}

func TestLoadRulesRejectsNegativePoints(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("company_size_bonus: -1\n"), 0o600); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	if _, err := LoadRules(path); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadRulesEmptyPathReturnsDefaults(t *testing.T) {
	rules, err := LoadRules("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rules.DownloadPoints(true) != 25 || rules.DownloadPoints(false) != 15 {
		t.Fatalf("unexpected download points %d/%d", rules.DownloadPoints(true), rules.DownloadPoints(false))
	}
}
