package pricing

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"dealsniper/helpers"
	"dealsniper/logger"
	errs "dealsniper/pkg/errors"
)

const tcgplayerKey = "tcgplayer"

// TCGplayer search pages change markup often; try several selectors before
// giving up on either hop.
var (
	productLinkSelectors = []string{
		"a.search-result__title",
		"a.product-card__link",
	}
	marketPriceSelectors = []string{
		"span.price--market",
		"span.marketPrice",
		"div.product-market-price",
	}
	jsonLDPriceRegex = regexp.MustCompile(`"price":\s*"([\d.]+)"`)
)

// TCGPlayerFetcher resolves a reference price from TCGplayer in two hops:
// search page for the first matching product, then that product's page for
// its listed market price.
type TCGPlayerFetcher struct {
	searchURL string
	baseURL   string
	fetcher   *helpers.Fetcher
	log       *logger.Logger
}

// NewTCGPlayerFetcher creates a new TCGplayer reference fetcher
func NewTCGPlayerFetcher(searchURL string, fetcher *helpers.Fetcher) *TCGPlayerFetcher {
	base := "https://www.tcgplayer.com"
	if u, err := url.Parse(searchURL); err == nil && u.Host != "" {
		base = u.Scheme + "://" + u.Host
	}
	return &TCGPlayerFetcher{
		searchURL: searchURL,
		baseURL:   base,
		fetcher:   fetcher,
		log:       logger.ForSource(tcgplayerKey),
	}
}

// FetchReferencePrice returns the raw market price text for the first
// product matching the term, or "" when no product or price is found.
func (f *TCGPlayerFetcher) FetchReferencePrice(ctx context.Context, term string) (string, error) {
	searchURL := fmt.Sprintf("%s?q=%s", f.searchURL, url.QueryEscape(term))

	body, err := f.fetcher.Fetch(ctx, searchURL, tcgplayerKey)
	if err != nil {
		return "", err
	}
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return "", errs.NewParsing(tcgplayerKey, "failed to parse search page", err)
	}

	productURL := f.firstProductURL(doc)
	if productURL == "" {
		f.log.Warn().Str("term", term).Msg("No product link found on search page")
		return "", nil
	}

	productBody, err := f.fetcher.Fetch(ctx, productURL, tcgplayerKey)
	if err != nil {
		return "", err
	}
	productDoc, err := goquery.NewDocumentFromReader(productBody)
	if err != nil {
		return "", errs.NewParsing(tcgplayerKey, "failed to parse product page", err)
	}

	return f.extractMarketPrice(productDoc), nil
}

// firstProductURL finds the first product link on the search page
func (f *TCGPlayerFetcher) firstProductURL(doc *goquery.Document) string {
	for _, sel := range productLinkSelectors {
		if href, ok := doc.Find(sel).First().Attr("href"); ok && href != "" {
			if strings.HasPrefix(href, "http") {
				return href
			}
			return f.baseURL + href
		}
	}
	return ""
}

// extractMarketPrice tries the price selectors in order, then the itemprop
// meta tag, then a JSON-LD script as a last resort.
func (f *TCGPlayerFetcher) extractMarketPrice(doc *goquery.Document) string {
	for _, sel := range marketPriceSelectors {
		if text := strings.TrimSpace(doc.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	if content, ok := doc.Find(`meta[itemprop="price"]`).Attr("content"); ok && content != "" {
		return content
	}
	if script := doc.Find(`script[type="application/ld+json"]`).Text(); script != "" {
		if m := jsonLDPriceRegex.FindStringSubmatch(script); m != nil {
			return m[1]
		}
	}
	return ""
}
