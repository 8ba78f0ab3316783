package steam

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freeclaim/internal/scrape/util"
)

func row(title, href, price string) string {
	return fmt.Sprintf(`<a class="search_result_row" href=%q>
		<span class="title">%s</span>
		<div class="search_price">%s</div>
	</a>`, href, title, price)
}

func serve(t *testing.T, html string) *Scraper {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "<html><body>"+html+"</body></html>")
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL, util.NewClient(5*time.Second, "test", nil))
}

func TestFreeRowsAreExtracted(t *testing.T) {
	s := serve(t,
		row("Free Game", "https://store.test/app/1?snr=1_7", "Free")+
			row("Zero Dollar Game", "https://store.test/app/2", "$0.00")+
			row("Paid Game", "https://store.test/app/3", "$19.99"))

	res, err := s.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Offers, 2)
	assert.Equal(t, "Free Game", res.Offers[0].Title)
	assert.Equal(t, "https://store.test/app/1", res.Offers[0].URL, "query string is stripped")
	assert.Equal(t, "Zero Dollar Game", res.Offers[1].Title)
}

func TestOnlyTopFiveRowsConsidered(t *testing.T) {
	var html string
	for i := 0; i < 8; i++ {
		html += row(fmt.Sprintf("Game %d", i), fmt.Sprintf("https://store.test/app/%d", i), "Free")
	}
	s := serve(t, html)

	res, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Offers, 5)
	assert.Equal(t, "Game 4", res.Offers[4].Title)
}

func TestRowWithoutTitleIsSkipped(t *testing.T) {
	s := serve(t, `<a class="search_result_row" href="https://store.test/app/9">
		<div class="search_price">Free</div>
	</a>`)

	res, err := s.Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Offers)
}

func TestUpstreamErrorDegradesSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	s := New(srv.URL, util.NewClient(5*time.Second, "test", nil))
	_, err := s.Fetch(context.Background())
	assert.Error(t, err)
}
