package source

import (
	"context"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"dealsniper/helpers"
	"dealsniper/logger"
	errs "dealsniper/pkg/errors"
)

// EbayCollector scrapes eBay search results into candidates
type EbayCollector struct {
	searchURL string
	fetcher   *helpers.Fetcher
	log       *logger.Logger
}

// NewEbayCollector creates a new eBay collector
func NewEbayCollector(searchURL string, fetcher *helpers.Fetcher) *EbayCollector {
	return &EbayCollector{
		searchURL: searchURL,
		fetcher:   fetcher,
		log:       logger.ForSource("ebay"),
	}
}

// Source returns the provider ID
func (c *EbayCollector) Source() ID {
	return EBay
}

// Collect fetches the search results page and extracts listings. Listings
// missing a title or a parseable positive price are dropped silently.
func (c *EbayCollector) Collect(ctx context.Context, term string) ([]Candidate, error) {
	searchURL := fmt.Sprintf("%s?_nkw=%s", c.searchURL, url.QueryEscape(term))

	body, err := c.fetcher.Fetch(ctx, searchURL, string(EBay))
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, errs.NewParsing(string(EBay), "failed to parse search results", err)
	}

	candidates := []Candidate{}
	doc.Find("li.s-item").Each(func(_ int, s *goquery.Selection) {
		title := s.Find("h3.s-item__title").Text()
		priceText := s.Find(".s-item__price").First().Text()
		link, _ := s.Find("a.s-item__link").Attr("href")

		if candidate, ok := NewCandidate(title, priceText, link, EBay); ok {
			candidates = append(candidates, candidate)
		}
	})

	c.log.Debug().Str("term", term).Int("count", len(candidates)).Msg("Extracted eBay listings")
	return candidates, nil
}
