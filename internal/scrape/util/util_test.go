package util

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	assert.Equal(t, "Dead Cells", CleanText("  Dead\n\tCells "))
	assert.Equal(t, "Free To Play", CleanText("Free To Play"))
	assert.Equal(t, "", CleanText(" \n "))
}

func TestStripQuery(t *testing.T) {
	assert.Equal(t, "https://x.test/app/1", StripQuery("https://x.test/app/1?snr=1_7_7"))
	assert.Equal(t, "https://x.test/app/1", StripQuery("https://x.test/app/1"))
}

func TestOrigin(t *testing.T) {
	assert.Equal(t, "https://www.gog.com", Origin("https://www.gog.com/en"))
	assert.Equal(t, "", Origin("::not-a-url"))
}

func TestResolveHref(t *testing.T) {
	assert.Equal(t, "https://s.test/game/x", ResolveHref("https://s.test", "/game/x"))
	assert.Equal(t, "https://s.test/game/x", ResolveHref("https://s.test", "game/x"))
	assert.Equal(t, "https://other.test/y", ResolveHref("https://s.test", "https://other.test/y"))
	assert.Equal(t, "", ResolveHref("https://s.test", ""))
}

func TestClientGetSendsUserAgent(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := NewClient(5*time.Second, "Mozilla/5.0 (test)", nil)
	body, err := c.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, "Mozilla/5.0 (test)", gotUA)
}

func TestClientGetRejectsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(5*time.Second, "test", nil)
	_, err := c.Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 503")
}

func TestClientGetJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"title":"Hades"}`))
	}))
	defer srv.Close()

	var out struct {
		Title string `json:"title"`
	}
	c := NewClient(5*time.Second, "test", NewHostLimiter(100, 10))
	require.NoError(t, c.GetJSON(context.Background(), srv.URL, &out))
	assert.Equal(t, "Hades", out.Title)
}

func TestClientGetDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><span class="title">Hades</span></body></html>`))
	}))
	defer srv.Close()

	c := NewClient(5*time.Second, "test", nil)
	doc, err := c.GetDocument(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Hades", doc.Find("span.title").Text())
}
