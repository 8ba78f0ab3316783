package scrape

import (
	"context"
	"log"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"freeclaim/internal/domain"
	"freeclaim/internal/ledger"
	"freeclaim/internal/scrape/types"
)

// RunAll fetches every storefront concurrently. A failed source logs and
// contributes an empty result; nothing cancels the siblings. The returned
// slice is indexed by fetcher position, so output order never depends on
// completion order.
func RunAll(ctx context.Context, fetchers []types.Fetcher, perSource time.Duration) []types.ScrapeResult {
	results := make([]types.ScrapeResult, len(fetchers))

	var g errgroup.Group
	for i, f := range fetchers {
		i, f := i, f

		g.Go(func() error {
			fctx, cancel := context.WithTimeout(ctx, perSource)
			defer cancel()

			log.Printf("[%s] checking...", f.Name())
			res, err := f.Fetch(fctx)
			if err != nil {
				log.Printf("[%s] error: %v", f.Name(), err)
				results[i] = types.ScrapeResult{Source: f.Source()}
				return nil // best-effort: don't cancel siblings
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Reconcile produces the session's actionable offer list: all extractor
// outputs grouped by source priority (Epic, Steam, GOG, Ubisoft), original
// order kept within each group, minus anything already in the ledger.
// It is a pure filter; no cross-source dedup happens here.
func Reconcile(led *ledger.Ledger, results []types.ScrapeResult) []domain.Offer {
	sorted := make([]types.ScrapeResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Source < sorted[j].Source
	})

	var out []domain.Offer
	for _, res := range sorted {
		for _, o := range res.Offers {
			if led != nil && led.Contains(o.Title) {
				continue
			}
			out = append(out, o)
		}
	}
	return out
}
