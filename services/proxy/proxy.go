package proxy

import (
	"math/rand/v2"
	"net/http"
	"net/url"
	"sync"

	"dealsniper/logger"
)

// Rotator hands out a random egress proxy per request. With no configured
// proxies every pick reports direct connection.
type Rotator struct {
	mu      sync.RWMutex
	proxies []*url.URL
	log     *logger.Logger
}

// NewRotator creates a rotator from raw proxy URLs, skipping unparseable ones
func NewRotator(rawURLs []string) *Rotator {
	r := &Rotator{log: logger.ForComponent("proxy")}
	for _, raw := range rawURLs {
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			r.log.Warn().Str("proxy", raw).Msg("Skipping invalid proxy URL")
			continue
		}
		r.proxies = append(r.proxies, u)
	}
	if len(r.proxies) > 0 {
		r.log.Info().Int("count", len(r.proxies)).Msg("Proxy rotation enabled")
	}
	return r
}

// Pick returns a random proxy, or ok=false when running direct
func (r *Rotator) Pick() (*url.URL, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.proxies) == 0 {
		return nil, false
	}
	u := r.proxies[rand.IntN(len(r.proxies))]
	r.log.Debug().Str("proxy", u.String()).Msg("Using proxy")
	return u, true
}

// Transport returns an http.Transport routed through a randomly picked
// proxy, or a default transport when none are configured.
func (r *Rotator) Transport() *http.Transport {
	u, ok := r.Pick()
	if !ok {
		return &http.Transport{}
	}
	return &http.Transport{Proxy: http.ProxyURL(u)}
}

// Size returns the number of usable proxies
func (r *Rotator) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.proxies)
}
