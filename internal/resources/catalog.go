// Package resources holds the downloadable resource catalog and the
// score gate in front of it.
package resources

import (
	"fmt"
	"os"
	"strings"

	"portfolio_leads_backend/internal/leads/domain"
	"portfolio_leads_backend/platform/apperr"

	"gopkg.in/yaml.v3"
)

// Resource is a gated download.
type Resource struct {
	ID            string `yaml:"id" json:"id"`
	Title         string `yaml:"title" json:"title"`
	Description   string `yaml:"description" json:"description"`
	Type          string `yaml:"type" json:"type"`
	Category      string `yaml:"category" json:"category"`
	Pages         int    `yaml:"pages" json:"pages"`
	FileSize      string `yaml:"file_size" json:"fileSize"`
	Featured      bool   `yaml:"featured" json:"featured"`
	Premium       bool   `yaml:"premium" json:"premium"`
	RequiredScore int    `yaml:"required_score" json:"requiredScore"`
	FileKey       string `yaml:"file_key" json:"-"`
}

// FileName is the name suggested to the browser when downloading.
func (r Resource) FileName() string {
	if i := strings.LastIndex(r.FileKey, "/"); i >= 0 {
		return r.FileKey[i+1:]
	}
	return r.FileKey
}

// Interests are the tags a download adds to the contact.
func (r Resource) Interests() []string {
	return []string{strings.ToLower(r.Category), r.Type, "ai_implementation"}
}

// Catalog is an immutable, ordered set of resources.
type Catalog struct {
	ordered []Resource
	byID    map[string]Resource
}

// DefaultResources returns the built-in catalog.
func DefaultResources() []Resource {
	return []Resource{
		{
			ID:            "ai-banking-transformation-2024",
			Title:         "AI Banking Transformation Guide 2024",
			Description:   "Comprehensive guide to implementing AI solutions in traditional banking operations, featuring 12 real-world case studies and ROI calculations.",
			Type:          "whitepaper",
			Category:      "AI Implementation",
			Pages:         45,
			FileSize:      "2.8 MB",
			Featured:      true,
			RequiredScore: 0,
			FileKey:       "whitepapers/ai-banking-transformation-2024.pdf",
		},
		{
			ID:            "voice-agents-insurance-playbook",
			Title:         "Voice Agents in Insurance: Complete Playbook",
			Description:   "Step-by-step implementation guide for deploying conversational AI in insurance operations, with compliance frameworks and best practices.",
			Type:          "guide",
			Category:      "Voice Technology",
			Pages:         32,
			FileSize:      "1.9 MB",
			RequiredScore: 15,
			FileKey:       "guides/voice-agents-insurance-playbook.pdf",
		},
		{
			ID:            "fintech-risk-management-ai",
			Title:         "AI-Driven Risk Management Framework",
			Description:   "Advanced strategies for implementing AI in financial risk assessment, featuring regulatory compliance guidelines and implementation roadmaps.",
			Type:          "report",
			Category:      "Risk Management",
			Pages:         38,
			FileSize:      "3.2 MB",
			Premium:       true,
			RequiredScore: 25,
			FileKey:       "reports/fintech-risk-management-ai.pdf",
		},
		{
			ID:            "mortgage-automation-case-study",
			Title:         "Mortgage Automation Success Story",
			Description:   "Detailed case study of how a major UK bank reduced mortgage processing time by 65% using AI automation, including implementation timeline and costs.",
			Type:          "case-study",
			Category:      "Banking",
			Pages:         24,
			FileSize:      "1.4 MB",
			Featured:      true,
			Premium:       true,
			RequiredScore: 35,
			FileKey:       "case-studies/mortgage-automation-case-study.pdf",
		},
	}
}

// NewCatalog validates and indexes resources.
func NewCatalog(items []Resource) (*Catalog, error) {
	c := &Catalog{byID: make(map[string]Resource, len(items))}
	for _, r := range items {
		r.ID = strings.TrimSpace(r.ID)
		if r.ID == "" {
			return nil, fmt.Errorf("resource with title %q has no id", r.Title)
		}
		if _, dup := c.byID[r.ID]; dup {
			return nil, fmt.Errorf("duplicate resource id %q", r.ID)
		}
		if r.RequiredScore < domain.MinScore || r.RequiredScore > domain.MaxScore {
			return nil, fmt.Errorf("resource %q: required_score %d out of range", r.ID, r.RequiredScore)
		}
		if r.FileKey == "" {
			r.FileKey = r.ID + ".pdf"
		}
		c.byID[r.ID] = r
		c.ordered = append(c.ordered, r)
	}
	return c, nil
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultResources())
	if err != nil {
		panic(err)
	}
	return c
}

// LoadCatalog reads a YAML list of resources, or returns the default
// catalog when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read resource catalog: %w", err)
	}
	var doc struct {
		Resources []Resource `yaml:"resources"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse resource catalog: %w", err)
	}
	if len(doc.Resources) == 0 {
		return nil, fmt.Errorf("resource catalog %s is empty", path)
	}
	return NewCatalog(doc.Resources)
}

// List returns the resources in catalog order.
func (c *Catalog) List() []Resource {
	return append([]Resource(nil), c.ordered...)
}

// Get returns a resource by id.
func (c *Catalog) Get(id string) (Resource, error) {
	r, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return Resource{}, apperr.NotFound("resource not found")
	}
	return r, nil
}
