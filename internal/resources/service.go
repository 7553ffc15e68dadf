package resources

import (
	"context"

	"portfolio_leads_backend/internal/adapters/storage"
	"portfolio_leads_backend/platform/apperr"
)

// Listing is a resource as seen by one visitor.
type Listing struct {
	Resource
	Unlocked bool `json:"unlocked"`
}

// Service gates resources on the visitor's cached score and issues links.
type Service struct {
	catalog *Catalog
	linker  storage.Linker
}

func NewService(catalog *Catalog, linker storage.Linker) *Service {
	return &Service{catalog: catalog, linker: linker}
}

// Catalog returns the underlying catalog.
func (s *Service) Catalog() *Catalog {
	return s.catalog
}

// ListFor marks each resource unlocked or not for the given score.
func (s *Service) ListFor(score int) []Listing {
	items := s.catalog.List()
	out := make([]Listing, 0, len(items))
	for _, r := range items {
		out = append(out, Listing{Resource: r, Unlocked: score >= r.RequiredScore})
	}
	return out
}

// Authorize returns the resource when the score meets its threshold.
func (s *Service) Authorize(id string, score int) (Resource, error) {
	r, err := s.catalog.Get(id)
	if err != nil {
		return Resource{}, err
	}
	if score < r.RequiredScore {
		return Resource{}, apperr.InsufficientScore(r.RequiredScore, score)
	}
	return r, nil
}

// DownloadLink issues a link for an authorized resource.
func (s *Service) DownloadLink(ctx context.Context, r Resource) (*storage.Link, error) {
	link, err := s.linker.DownloadURL(ctx, r.FileKey, r.FileName())
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, "download link unavailable", err)
	}
	return link, nil
}
