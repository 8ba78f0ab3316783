// Package steam extracts free specials from the Steam search results page.
package steam

import (
	"context"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"freeclaim/internal/domain"
	"freeclaim/internal/scrape/types"
	"freeclaim/internal/scrape/util"
)

// Only the top rows of the "free + on special" search are considered.
const maxRows = 5

type Scraper struct {
	url    string
	client *util.Client
}

func New(url string, client *util.Client) *Scraper {
	return &Scraper{url: url, client: client}
}

func (s *Scraper) Name() string          { return "steam" }
func (s *Scraper) Source() domain.Source { return domain.Steam }

func (s *Scraper) Fetch(ctx context.Context) (types.ScrapeResult, error) {
	res := types.ScrapeResult{Source: domain.Steam}

	doc, err := s.client.GetDocument(ctx, s.url)
	if err != nil {
		return res, err
	}

	doc.Find("a.search_result_row").EachWithBreak(func(i int, row *goquery.Selection) bool {
		if i >= maxRows {
			return false
		}

		price := row.Find("div.search_price").Text()
		if !strings.Contains(price, "Free") && !strings.Contains(price, "$0.00") {
			return true
		}

		title := util.CleanText(row.Find("span.title").First().Text())
		href, ok := row.Attr("href")
		if title == "" || !ok {
			return true
		}

		res.Offers = append(res.Offers, domain.Offer{
			Title:  title,
			URL:    util.StripQuery(href),
			Source: domain.Steam,
		})
		return true
	})

	log.Printf("[steam] %d free offer(s)", len(res.Offers))
	return res, nil
}
