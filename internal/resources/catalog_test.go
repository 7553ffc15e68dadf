package resources

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"portfolio_leads_backend/internal/adapters/storage"
	"portfolio_leads_backend/platform/apperr"
)

func TestDefaultCatalogThresholds(t *testing.T) {
	want := map[string]int{
		"ai-banking-transformation-2024":  0,
		"voice-agents-insurance-playbook": 15,
		"fintech-risk-management-ai":      25,
		"mortgage-automation-case-study":  35,
	}
	c := DefaultCatalog()
	if len(c.List()) != len(want) {
		t.Fatalf("expected %d resources, got %d", len(want), len(c.List()))
	}
	for id, threshold := range want {
		r, err := c.Get(id)
		if err != nil {
			t.Fatalf("expected %s to exist: %v", id, err)
		}
		if r.RequiredScore != threshold {
			t.Fatalf("%s: expected threshold %d, got %d", id, threshold, r.RequiredScore)
		}
	}
}

func TestAuthorizeGateBoundary(t *testing.T) {
	svc := NewService(DefaultCatalog(), storage.NewStaticLinker("/downloads"))

	_, err := svc.Authorize("fintech-risk-management-ai", 24)
	if !apperr.Is(err, apperr.KindInsufficientScore) {
		t.Fatalf("expected insufficient score at 24, got %v", err)
	}
	if !strings.Contains(err.Error(), "requires a lead score of 25") || !strings.Contains(err.Error(), "current score is 24") {
		t.Fatalf("unexpected message %q", err.Error())
	}

	if _, err := svc.Authorize("fintech-risk-management-ai", 25); err != nil {
		t.Fatalf("expected access at 25, got %v", err)
	}
}

func TestAuthorizeUnknownResource(t *testing.T) {
	svc := NewService(DefaultCatalog(), storage.NewStaticLinker("/downloads"))
	if _, err := svc.Authorize("nope", 100); !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListForMarksUnlocked(t *testing.T) {
	svc := NewService(DefaultCatalog(), storage.NewStaticLinker("/downloads"))
	unlocked := 0
	for _, l := range svc.ListFor(20) {
		if l.Unlocked {
			unlocked++
		}
	}
	if unlocked != 2 {
		t.Fatalf("expected 2 unlocked at score 20, got %d", unlocked)
	}
}

func TestDownloadLinkUsesFileKey(t *testing.T) {
	svc := NewService(DefaultCatalog(), storage.NewStaticLinker("/downloads"))
	r, _ := svc.Authorize("ai-banking-transformation-2024", 0)
	link, err := svc.DownloadLink(context.Background(), r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if link.URL != "/downloads/whitepapers/ai-banking-transformation-2024.pdf" {
		t.Fatalf("unexpected url %s", link.URL)
	}
}

func TestResourceInterests(t *testing.T) {
	r, _ := DefaultCatalog().Get("fintech-risk-management-ai")
	got := strings.Join(r.Interests(), ",")
	if got != "risk management,report,ai_implementation" {
		t.Fatalf("unexpected interests %s", got)
	}
}

func TestLoadCatalogFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resources.yaml")
	data := []byte(`resources:
  - id: pricing-guide
    title: Pricing Guide
    type: guide
    category: Consulting
    required_score: 10
  - id: deep-dive
    title: Deep Dive
    type: report
    category: Banking
    premium: true
    required_score: 40
    file_key: reports/deep-dive.pdf
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	c, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	r, err := c.Get("pricing-guide")
	if err != nil || r.FileKey != "pricing-guide.pdf" {
		t.Fatalf("expected default file key, got %+v %v", r, err)
	}
	if r, _ := c.Get("deep-dive"); !r.Premium || r.RequiredScore != 40 {
		t.Fatalf("unexpected resource %+v", r)
	}
}

func TestNewCatalogRejectsBadInput(t *testing.T) {
	if _, err := NewCatalog([]Resource{{ID: "a"}, {ID: "a"}}); err == nil {
		t.Fatalf("expected duplicate id error")
	}
	if _, err := NewCatalog([]Resource{{ID: "a", RequiredScore: 101}}); err == nil {
		t.Fatalf("expected range error")
	}
}
