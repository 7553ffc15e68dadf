package nurture

import (
	"testing"

	"portfolio_leads_backend/internal/leads/domain"
)

func TestSelectThresholdBoundaries(t *testing.T) {
	cases := []struct {
		score  int
		source domain.LeadSource
		want   Sequence
	}{
		{75, domain.LeadSourceNewsletter, SequenceHighValueProspect},
		{74, domain.LeadSourceNewsletter, SequenceQualifiedLead},
		{100, domain.LeadSourceDownload, SequenceHighValueProspect},
		{50, domain.LeadSourceDownload, SequenceQualifiedLead},
		{49, domain.LeadSourceDownload, SequenceResourceDownload},
		{49, domain.LeadSourceNewsletter, SequenceNewsletterWelcome},
		{20, domain.LeadSourceNewsletter, SequenceNewsletterWelcome},
		{25, domain.LeadSourceContact, SequenceGeneral},
		{0, domain.LeadSourceChat, SequenceGeneral},
		{10, domain.LeadSource("unknown"), SequenceGeneral},
	}
	for _, tc := range cases {
		if got := Select(tc.score, tc.source); got != tc.want {
			t.Fatalf("Select(%d, %s): expected %s, got %s", tc.score, tc.source, tc.want, got)
		}
	}
}

func TestSelectIsTotal(t *testing.T) {
	valid := map[Sequence]bool{
		SequenceHighValueProspect: true,
		SequenceQualifiedLead:     true,
		SequenceResourceDownload:  true,
		SequenceNewsletterWelcome: true,
		SequenceGeneral:           true,
	}
	sources := []domain.LeadSource{
		domain.LeadSourceNewsletter, domain.LeadSourceDownload, domain.LeadSourceContact,
		domain.LeadSourceChat, domain.LeadSourceBooking, "",
	}
	for score := domain.MinScore; score <= domain.MaxScore; score++ {
		for _, source := range sources {
			if got := Select(score, source); !valid[got] {
				t.Fatalf("Select(%d, %q) returned unknown sequence %q", score, source, got)
			}
		}
	}
}

func TestIsHighValue(t *testing.T) {
	if !SequenceHighValueProspect.IsHighValue() {
		t.Fatalf("expected high-value sequence to report high value")
	}
	if SequenceQualifiedLead.IsHighValue() {
		t.Fatalf("expected qualified sequence not to report high value")
	}
}
