// Package gog extracts the front-page giveaway tile, when one exists.
package gog

import (
	"context"
	"log"

	"freeclaim/internal/domain"
	"freeclaim/internal/scrape/types"
	"freeclaim/internal/scrape/util"
)

// Giveaway titles carry a marker so the operator can tell them apart from
// regular listings.
const titleSuffix = " (GOG GIVEAWAY)"

type Scraper struct {
	url    string
	client *util.Client
}

func New(url string, client *util.Client) *Scraper {
	return &Scraper{url: url, client: client}
}

func (s *Scraper) Name() string          { return "gog" }
func (s *Scraper) Source() domain.Source { return domain.GOG }

func (s *Scraper) Fetch(ctx context.Context) (types.ScrapeResult, error) {
	res := types.ScrapeResult{Source: domain.GOG}

	doc, err := s.client.GetDocument(ctx, s.url)
	if err != nil {
		return res, err
	}

	// No giveaway section means no giveaway this week, not a failure.
	tile := doc.Find(".product-tile-container--giveaway").First()
	if tile.Length() == 0 {
		log.Printf("[gog] no giveaway section")
		return res, nil
	}

	href, ok := tile.Find("a").First().Attr("href")
	title := util.CleanText(tile.Find(".product-tile__title").First().Text())
	if !ok || title == "" {
		log.Printf("[gog] giveaway tile missing link or title")
		return res, nil
	}

	res.Offers = append(res.Offers, domain.Offer{
		Title:  title + titleSuffix,
		URL:    util.ResolveHref(util.Origin(s.url), href),
		Source: domain.GOG,
	})

	log.Printf("[gog] 1 giveaway")
	return res, nil
}
