// Package epic extracts currently-free games from the Epic Games Store
// promotions API. The only structured-API source; everything else in
// internal/scrape reads HTML.
package epic

import (
	"context"
	"log"
	"strings"
	"time"

	"freeclaim/internal/domain"
	"freeclaim/internal/ledger"
	"freeclaim/internal/scrape/types"
	"freeclaim/internal/scrape/util"
)

// Product pages live on the store origin, not on the API host.
const productBase = "https://store.epicgames.com/en-US/"

type Scraper struct {
	url    string
	client *util.Client
	ledger *ledger.Ledger

	now func() time.Time // test hook
}

func New(url string, client *util.Client, led *ledger.Ledger) *Scraper {
	return &Scraper{url: url, client: client, ledger: led, now: time.Now}
}

func (s *Scraper) Name() string          { return "epic" }
func (s *Scraper) Source() domain.Source { return domain.Epic }

type payload struct {
	Data struct {
		Catalog struct {
			SearchStore struct {
				Elements []element `json:"elements"`
			} `json:"searchStore"`
		} `json:"Catalog"`
	} `json:"data"`
}

type element struct {
	Title       string `json:"title"`
	OfferType   string `json:"offerType"`
	ProductSlug string `json:"productSlug"`
	URLSlug     string `json:"urlSlug"`
	CatalogNs   struct {
		Mappings []mapping `json:"mappings"`
	} `json:"catalogNs"`
	Categories []struct {
		Path string `json:"path"`
	} `json:"categories"`
	Price struct {
		TotalPrice struct {
			// Pointer so a missing discount field never reads as 0%.
			DiscountPercentage *float64 `json:"discountPercentage"`
			OriginalPrice      int64    `json:"originalPrice"`
		} `json:"totalPrice"`
	} `json:"price"`
	Promotions *promotions `json:"promotions"`
}

type mapping struct {
	PageSlug string `json:"pageSlug"`
	PageType string `json:"pageType"`
}

type promotions struct {
	PromotionalOffers         []offerGroup `json:"promotionalOffers"`
	UpcomingPromotionalOffers []offerGroup `json:"upcomingPromotionalOffers"`
}

type offerGroup struct {
	PromotionalOffers []promoOffer `json:"promotionalOffers"`
}

type promoOffer struct {
	StartDate       string `json:"startDate"`
	EndDate         string `json:"endDate"`
	DiscountSetting struct {
		DiscountPercentage *float64 `json:"discountPercentage"`
	} `json:"discountSetting"`
}

func (s *Scraper) Fetch(ctx context.Context) (types.ScrapeResult, error) {
	res := types.ScrapeResult{Source: domain.Epic}

	var p payload
	if err := s.client.GetJSON(ctx, s.url, &p); err != nil {
		return res, err
	}

	now := s.now().UTC()
	for _, el := range p.Data.Catalog.SearchStore.Elements {
		slug := chooseSlug(el)
		if slug == "" {
			continue
		}
		if !isFreeNow(el, now) {
			continue
		}
		// Self-filter against the ledger. Reconciliation filters again
		// later; the double check is a deliberate no-op.
		if s.ledger != nil && s.ledger.Contains(el.Title) {
			continue
		}
		res.Offers = append(res.Offers, domain.Offer{
			Title:  el.Title,
			URL:    productURL(el, slug),
			Source: domain.Epic,
		})
	}

	log.Printf("[epic] %d free offer(s)", len(res.Offers))
	return res, nil
}

// chooseSlug picks the human-readable product slug. The mappings list wins
// because productSlug often carries an opaque ID while the real name sits
// under a product-home mapping.
func chooseSlug(el element) string {
	for _, m := range el.CatalogNs.Mappings {
		if m.PageType == "productHome" || m.PageType == "product" {
			if m.PageSlug != "" {
				return m.PageSlug
			}
		}
	}
	if el.ProductSlug != "" {
		return el.ProductSlug
	}
	return el.URLSlug
}

// isFreeNow decides "free right now", first match wins:
// a 100%-off price (discount shows 0 with an original price above zero,
// which keeps permanently-free titles out), else an active 0%-discount
// promo window.
func isFreeNow(el element, now time.Time) bool {
	tp := el.Price.TotalPrice
	if tp.DiscountPercentage != nil && *tp.DiscountPercentage == 0 && tp.OriginalPrice > 0 {
		return true
	}
	if el.Promotions == nil {
		return false
	}
	for _, groups := range [][]offerGroup{
		el.Promotions.PromotionalOffers,
		el.Promotions.UpcomingPromotionalOffers,
	} {
		for _, g := range groups {
			for _, o := range g.PromotionalOffers {
				d := o.DiscountSetting.DiscountPercentage
				if d == nil || *d != 0 || o.StartDate == "" || o.EndDate == "" {
					continue
				}
				start, err := parseDate(o.StartDate)
				if err != nil {
					continue // skip this entry, siblings still count
				}
				end, err := parseDate(o.EndDate)
				if err != nil {
					continue
				}
				// Window is [start, end): inclusive start, exclusive end.
				if !now.Before(start) && now.Before(end) {
					return true
				}
			}
		}
	}
	return false
}

// parseDate accepts the API's ISO-8601 variants: with or without a
// trailing Z, with or without fractional seconds. Result is always UTC.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	s = strings.TrimSuffix(s, "Z")
	t, err := time.Parse("2006-01-02T15:04:05.999999999", s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// productURL builds the store page link. A slug with an internal path
// separator is already a complete relative path; otherwise it sits under
// "p" (product) or "bundles" (bundle offers).
func productURL(el element, slug string) string {
	slug = strings.TrimSuffix(slug, "/")
	if strings.Contains(slug, "/") {
		return productBase + slug
	}

	segment := "p"
	if strings.EqualFold(el.OfferType, "BUNDLE") {
		segment = "bundles"
	} else {
		for _, c := range el.Categories {
			if strings.Contains(strings.ToLower(c.Path), "bundles") {
				segment = "bundles"
				break
			}
		}
	}
	return productBase + segment + "/" + slug
}
