package provider

import (
	"context"

	"footin-engine/internal/domain"
	"footin-engine/internal/normalize"
)

// JobSearcher is the narrow contract with the job-scraping provider. The
// returned items are schema-less on purpose; the normalizer owns field
// resolution.
type JobSearcher interface {
	Name() string
	Search(ctx context.Context, params domain.SearchParams) ([]normalize.RawItem, error)
}

// ContactQuery is one call to the contact-search provider: a single
// (domain, department, seniority) combination.
type ContactQuery struct {
	Domain     string
	Department string
	Seniority  domain.SeniorityTier
}

type ContactSearcher interface {
	Name() string
	Search(ctx context.Context, q ContactQuery) ([]domain.Contact, error)
}
