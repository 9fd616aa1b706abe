package helpers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	mathrand "math/rand"
	"net/http"
	"slices"
	"time"

	"golang.org/x/net/html/charset"

	errs "dealsniper/pkg/errors"
	"dealsniper/services/cache"
	"dealsniper/services/proxy"
)

// HTTP header configurations
var (
	userAgents = []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/112.0.0.0 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/14.0.3 Safari/605.1.15",
	}

	referers = []string{
		"https://www.google.com/",
		"https://www.bing.com/",
		"https://duckduckgo.com/",
	}
)

// DefaultBlockTime is how long a source stays blocked after rate limiting us
const DefaultBlockTime = 500 * time.Second

// Fetcher performs browser-like HTTP GETs with proxy rotation and a
// per-source rate-limit block cache.
type Fetcher struct {
	limiter *cache.RateLimiter
	rotator *proxy.Rotator
	timeout time.Duration
}

// NewFetcher creates a fetcher; limiter and rotator may be nil
func NewFetcher(limiter *cache.RateLimiter, rotator *proxy.Rotator, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{
		limiter: limiter,
		rotator: rotator,
		timeout: timeout,
	}
}

// Fetch sends an HTTP GET with randomized headers, converts the response
// body to UTF-8 if needed, and returns it as an io.Reader. sourceKey
// attributes rate-limit blocks to the owning source.
func (f *Fetcher) Fetch(ctx context.Context, url, sourceKey string) (io.Reader, error) {
	if f.limiter.Blocked(sourceKey) {
		return nil, errs.NewRateLimit(sourceKey, DefaultBlockTime)
	}

	rnd := mathrand.New(mathrand.NewSource(time.Now().UnixNano()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errs.NewNetwork(sourceKey, "failed to create request", err)
	}

	// Browser-like headers
	req.Header.Set("User-Agent", userAgents[rnd.Intn(len(userAgents))])
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Referer", referers[rnd.Intn(len(referers))])
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	req.Header.Set("Sec-Fetch-User", "?1")

	client := &http.Client{Timeout: f.timeout}
	if f.rotator != nil {
		client.Transport = f.rotator.Transport()
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, errs.NewNetwork(sourceKey, fmt.Sprintf("failed to fetch %s", url), err)
	}
	defer resp.Body.Close()

	// 430 is used by some marketplaces as an unofficial rate-limit status
	if slices.Contains([]int{http.StatusTooManyRequests, 430}, resp.StatusCode) {
		_ = f.limiter.Block(sourceKey, DefaultBlockTime)
		return nil, errs.NewRateLimit(sourceKey, DefaultBlockTime)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errs.NewNetwork(sourceKey, fmt.Sprintf("fetch %s unexpected status code: %d", url, resp.StatusCode), nil)
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errs.NewNetwork(sourceKey, "failed to read response body", err)
	}

	// Determine the encoding from Content-Type header and body content
	encoding, name, _ := charset.DetermineEncoding(bodyBytes, resp.Header.Get("Content-Type"))
	if name == "utf-8" || name == "UTF-8" {
		return bytes.NewReader(bodyBytes), nil
	}

	utf8Reader := encoding.NewDecoder().Reader(bytes.NewReader(bodyBytes))
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, utf8Reader); err != nil {
		return nil, errs.NewParsing(sourceKey, "failed to read converted UTF-8 body", err)
	}

	return &buf, nil
}
