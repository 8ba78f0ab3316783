// Package ubisoft extracts free titles from the Ubisoft Store free-games
// listing.
package ubisoft

import (
	"context"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"freeclaim/internal/domain"
	"freeclaim/internal/scrape/types"
	"freeclaim/internal/scrape/util"
)

type Scraper struct {
	url    string
	client *util.Client
}

func New(url string, client *util.Client) *Scraper {
	return &Scraper{url: url, client: client}
}

func (s *Scraper) Name() string          { return "ubisoft" }
func (s *Scraper) Source() domain.Source { return domain.Ubisoft }

func (s *Scraper) Fetch(ctx context.Context) (types.ScrapeResult, error) {
	res := types.ScrapeResult{Source: domain.Ubisoft}

	doc, err := s.client.GetDocument(ctx, s.url)
	if err != nil {
		return res, err
	}

	origin := util.Origin(s.url)

	// Every tile whose price text mentions "free" qualifies; no cap.
	doc.Find("div.product-tile").Each(func(_ int, tile *goquery.Selection) {
		price := tile.Find("div.product-tile__price span").First().Text()
		if !strings.Contains(strings.ToLower(price), "free") {
			return
		}

		title := util.CleanText(tile.Find("span.product-tile-title").First().Text())
		href, ok := tile.Find("a[href]").First().Attr("href")
		if title == "" || !ok {
			return
		}

		res.Offers = append(res.Offers, domain.Offer{
			Title:  title,
			URL:    util.ResolveHref(origin, href),
			Source: domain.Ubisoft,
		})
	})

	log.Printf("[ubisoft] %d free offer(s)", len(res.Offers))
	return res, nil
}
