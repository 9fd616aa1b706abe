package source

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"dealsniper/logger"
	errs "dealsniper/pkg/errors"
	"dealsniper/services/proxy"
)

// WalmartCollector scrapes Walmart search results using a colly collector.
// Walmart's markup is grid-based, which colly's element callbacks handle more
// naturally than a single document traversal.
type WalmartCollector struct {
	searchURL string
	baseURL   string
	rotator   *proxy.Rotator
	timeout   time.Duration
	log       *logger.Logger
}

// NewWalmartCollector creates a new Walmart collector
func NewWalmartCollector(searchURL string, rotator *proxy.Rotator, timeout time.Duration) *WalmartCollector {
	base := searchURL
	if u, err := url.Parse(searchURL); err == nil && u.Host != "" {
		base = u.Scheme + "://" + u.Host
	}
	return &WalmartCollector{
		searchURL: searchURL,
		baseURL:   base,
		rotator:   rotator,
		timeout:   timeout,
		log:       logger.ForSource("walmart"),
	}
}

// Source returns the provider ID
func (c *WalmartCollector) Source() ID {
	return Walmart
}

// Collect visits the search page and extracts product tiles
func (c *WalmartCollector) Collect(ctx context.Context, term string) ([]Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	collector := colly.NewCollector(
		colly.UserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/112.0.0.0 Safari/537.36"),
		colly.IgnoreRobotsTxt(),
	)
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	collector.SetRequestTimeout(timeout)
	if c.rotator != nil {
		collector.WithTransport(c.rotator.Transport())
	}

	candidates := []Candidate{}
	var visitErr error

	collector.OnHTML("div[data-item-id]", func(e *colly.HTMLElement) {
		title := e.ChildText(`span[data-automation-id="product-title"]`)
		priceText := e.ChildText(`div[data-automation-id="product-price"]`)
		link := e.ChildAttr("a", "href")
		if link != "" && strings.HasPrefix(link, "/") {
			link = c.baseURL + link
		}

		if candidate, ok := NewCandidate(title, priceText, link, Walmart); ok {
			candidates = append(candidates, candidate)
		}
	})

	collector.OnError(func(r *colly.Response, err error) {
		visitErr = errs.NewNetwork(string(Walmart), fmt.Sprintf("request failed with status %d", r.StatusCode), err)
	})

	searchURL := fmt.Sprintf("%s?q=%s", c.searchURL, url.QueryEscape(term))
	if err := collector.Visit(searchURL); err != nil {
		return nil, errs.NewNetwork(string(Walmart), "failed to visit search page", err)
	}
	collector.Wait()

	if visitErr != nil {
		return nil, visitErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.log.Debug().Str("term", term).Int("count", len(candidates)).Msg("Extracted Walmart listings")
	return candidates, nil
}
