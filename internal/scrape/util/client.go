package util

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Storefront listing pages are small; anything past this is not the page
// we asked for.
const maxBodyBytes = 8 << 20

// Client is the shared outbound fetcher for all extractors: constant
// browser user agent, bounded per-request timeout, per-host rate limit.
type Client struct {
	hc        *http.Client
	userAgent string
	limiter   *HostLimiter
}

func NewClient(timeout time.Duration, userAgent string, limiter *HostLimiter) *Client {
	return &Client{
		hc:        &http.Client{Timeout: timeout},
		userAgent: userAgent,
		limiter:   limiter,
	}
}

// Get fetches raw and returns the response body. Non-2xx statuses are
// errors.
func (c *Client) Get(ctx context.Context, raw string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	if c.limiter != nil {
		if err := c.limiter.WaitURL(ctx, raw); err != nil {
			return nil, err
		}
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", res.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// GetJSON fetches raw and decodes the body into v.
func (c *Client) GetJSON(ctx context.Context, raw string, v any) error {
	body, err := c.Get(ctx, raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	return nil
}

// GetDocument fetches raw and parses the body as an HTML document.
func (c *Client) GetDocument(ctx context.Context, raw string) (*goquery.Document, error) {
	body, err := c.Get(ctx, raw)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// Origin returns the scheme://host part of raw, for resolving relative
// storefront links.
func Origin(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// ResolveHref joins a page-relative href with the listing's origin.
// Absolute hrefs pass through untouched.
func ResolveHref(origin, href string) string {
	if href == "" {
		return ""
	}
	u, err := url.Parse(href)
	if err == nil && u.IsAbs() {
		return href
	}
	if href[0] != '/' {
		href = "/" + href
	}
	return origin + href
}
