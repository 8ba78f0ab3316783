package scrape

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freeclaim/internal/domain"
	"freeclaim/internal/ledger"
	"freeclaim/internal/scrape/types"
)

type fakeFetcher struct {
	name   string
	source domain.Source
	offers []domain.Offer
	delay  time.Duration
	err    error
}

func (f *fakeFetcher) Name() string          { return f.name }
func (f *fakeFetcher) Source() domain.Source { return f.source }

func (f *fakeFetcher) Fetch(ctx context.Context) (types.ScrapeResult, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return types.ScrapeResult{Source: f.source}, ctx.Err()
		}
	}
	if f.err != nil {
		return types.ScrapeResult{Source: f.source}, f.err
	}
	return types.ScrapeResult{Source: f.source, Offers: f.offers}, nil
}

func offer(title string, src domain.Source) domain.Offer {
	return domain.Offer{Title: title, URL: "https://x.test/" + title, Source: src}
}

func emptyLedger(t *testing.T) *ledger.Ledger {
	t.Helper()
	l, err := ledger.Load(filepath.Join(t.TempDir(), "claimed_games.txt"))
	require.NoError(t, err)
	return l
}

func TestRunAllOrderIndependentOfCompletion(t *testing.T) {
	// Epic finishes last but must still come out first.
	fetchers := []types.Fetcher{
		&fakeFetcher{name: "epic", source: domain.Epic, delay: 50 * time.Millisecond,
			offers: []domain.Offer{offer("E1", domain.Epic)}},
		&fakeFetcher{name: "steam", source: domain.Steam,
			offers: []domain.Offer{offer("S1", domain.Steam)}},
		&fakeFetcher{name: "gog", source: domain.GOG,
			offers: []domain.Offer{offer("G1", domain.GOG)}},
	}

	results := RunAll(context.Background(), fetchers, time.Second)
	require.Len(t, results, 3)
	assert.Equal(t, domain.Epic, results[0].Source)
	assert.Equal(t, "E1", results[0].Offers[0].Title)
	assert.Equal(t, domain.Steam, results[1].Source)
	assert.Equal(t, domain.GOG, results[2].Source)
}

func TestRunAllFailedSourceContributesEmpty(t *testing.T) {
	fetchers := []types.Fetcher{
		&fakeFetcher{name: "epic", source: domain.Epic, err: assert.AnError},
		&fakeFetcher{name: "steam", source: domain.Steam,
			offers: []domain.Offer{offer("S1", domain.Steam)}},
	}

	results := RunAll(context.Background(), fetchers, time.Second)
	assert.Empty(t, results[0].Offers)
	assert.Len(t, results[1].Offers, 1)
}

func TestRunAllTimesOutSlowSource(t *testing.T) {
	fetchers := []types.Fetcher{
		&fakeFetcher{name: "epic", source: domain.Epic, delay: time.Second,
			offers: []domain.Offer{offer("E1", domain.Epic)}},
	}

	results := RunAll(context.Background(), fetchers, 20*time.Millisecond)
	assert.Empty(t, results[0].Offers)
}

func TestReconcileDropsLedgeredTitles(t *testing.T) {
	led := emptyLedger(t)
	require.NoError(t, led.Commit([]string{"abc"}))

	results := []types.ScrapeResult{
		{Source: domain.Epic, Offers: []domain.Offer{offer("ABC", domain.Epic), offer("Def", domain.Epic)}},
		{Source: domain.Steam},
	}

	got := Reconcile(led, results)
	require.Len(t, got, 1)
	assert.Equal(t, "Def", got[0].Title)
}

func TestReconcileIsPure(t *testing.T) {
	led := emptyLedger(t)
	require.NoError(t, led.Commit([]string{"seen"}))

	results := []types.ScrapeResult{
		{Source: domain.Epic, Offers: []domain.Offer{offer("Seen", domain.Epic), offer("New", domain.Epic)}},
	}

	first := Reconcile(led, results)
	second := Reconcile(led, results)
	assert.Equal(t, first, second, "reconciling twice without committing must be identical")
}

func TestReconcileGroupsBySourcePriority(t *testing.T) {
	// Results arrive in scrambled order; output is grouped Epic, Steam,
	// GOG, Ubisoft with per-source order intact.
	results := []types.ScrapeResult{
		{Source: domain.Ubisoft, Offers: []domain.Offer{offer("U1", domain.Ubisoft)}},
		{Source: domain.Epic, Offers: []domain.Offer{offer("E1", domain.Epic), offer("E2", domain.Epic)}},
		{Source: domain.GOG, Offers: []domain.Offer{offer("G1", domain.GOG)}},
		{Source: domain.Steam, Offers: []domain.Offer{offer("S1", domain.Steam)}},
	}

	got := Reconcile(emptyLedger(t), results)
	titles := make([]string, len(got))
	for i, o := range got {
		titles[i] = o.Title
	}
	assert.Equal(t, []string{"E1", "E2", "S1", "G1", "U1"}, titles)
}

func TestReconcileKeepsCrossSourceTitleCollisions(t *testing.T) {
	// Title-only identity is a known weakness: two sources offering
	// same-titled but different games both surface. Flagged, not fixed.
	results := []types.ScrapeResult{
		{Source: domain.Epic, Offers: []domain.Offer{offer("Collision", domain.Epic)}},
		{Source: domain.Steam, Offers: []domain.Offer{offer("Collision", domain.Steam)}},
	}

	got := Reconcile(emptyLedger(t), results)
	assert.Len(t, got, 2)
}
