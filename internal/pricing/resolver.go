package pricing

import (
	"context"
	"math"

	"dealsniper/helpers"
	"dealsniper/logger"
)

// ReferenceFetcher performs the single canonical lookup behind the resolver.
// It returns the raw market price text for the first matching product, or an
// empty string when the source has no result for the term.
type ReferenceFetcher interface {
	FetchReferencePrice(ctx context.Context, term string) (string, error)
}

// Resolver turns a search term into a single market price. Any failure in
// the lookup, including unparseable price text, resolves to "absent" rather
// than an error: a scan must survive losing its reference price.
type Resolver struct {
	fetcher ReferenceFetcher
	log     *logger.Logger
}

// NewResolver creates a resolver over the given fetcher
func NewResolver(fetcher ReferenceFetcher) *Resolver {
	return &Resolver{
		fetcher: fetcher,
		log:     logger.ForComponent("resolver"),
	}
}

// Resolve returns the market price for the term, or ok=false when it cannot
// be determined.
func (r *Resolver) Resolve(ctx context.Context, term string) (float64, bool) {
	raw, err := r.fetcher.FetchReferencePrice(ctx, term)
	if err != nil {
		r.log.Warn().Str("term", term).Err(err).Msg("Reference price lookup failed")
		return 0, false
	}
	if raw == "" {
		r.log.Warn().Str("term", term).Msg("No reference price found")
		return 0, false
	}

	price, err := helpers.ParsePrice(raw)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		r.log.Warn().Str("term", term).Str("raw", raw).Msg("Reference price text not parseable")
		return 0, false
	}

	r.log.Info().Str("term", term).Float64("market_price", price).Msg("Resolved market price")
	return price, true
}
