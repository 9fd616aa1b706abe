package scan

import (
	"strings"

	"dealsniper/internal/deal"
	"dealsniper/internal/source"
	errs "dealsniper/pkg/errors"
)

// Default request values applied by Normalize
const (
	DefaultThresholdPct = 40
)

// DefaultSources is the source set used when a request names none
var DefaultSources = []source.ID{source.TCGPlayer, source.EBay}

// Request describes one scan: what to search for, how steep a discount
// qualifies, and which sources to ask. ThresholdPct means the listing must
// cost less than this fraction of market price (40 => under 40% of market),
// not "at least 40% off".
type Request struct {
	Term         string
	ThresholdPct float64
	Sources      []source.ID
}

// Normalize fills defaults for unset fields
func (r *Request) Normalize() {
	r.Term = strings.TrimSpace(r.Term)
	if r.ThresholdPct == 0 {
		r.ThresholdPct = DefaultThresholdPct
	}
	if len(r.Sources) == 0 {
		r.Sources = append([]source.ID(nil), DefaultSources...)
	}
}

// Validate checks the request after normalization
func (r *Request) Validate() error {
	if r.Term == "" {
		return errs.NewValidation("search term must not be empty")
	}
	if r.ThresholdPct <= 0 || r.ThresholdPct > 100 {
		return errs.NewValidation("threshold percent must be in (0,100]")
	}
	return nil
}

// Stats accumulates per-source counts and failures across one scan
type Stats struct {
	Fetched int      `json:"fetched"`
	Errors  []string `json:"errors"`
}

// Result is the immutable outcome of one scan. MarketPrice is nil when the
// reference price could not be resolved.
type Result struct {
	Term        string       `json:"term"`
	MarketPrice *float64     `json:"marketPrice"`
	Scanned     int          `json:"scanned"`
	Deals       []deal.Deal  `json:"deals"`
	Stats       Stats        `json:"stats"`
}
