package types

import (
	"context"

	"freeclaim/internal/domain"
)

// ScrapeResult is one storefront's extraction output. Offers keep the order
// the storefront presented them in.
type ScrapeResult struct {
	Source domain.Source
	Offers []domain.Offer
}

// Fetcher is the single capability every storefront extractor implements.
// A Fetch error means the whole source degraded; it never carries partial
// output. Per-item problems are handled inside Fetch.
type Fetcher interface {
	Name() string
	Source() domain.Source
	Fetch(ctx context.Context) (ScrapeResult, error)
}
