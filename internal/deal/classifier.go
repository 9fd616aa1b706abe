package deal

import (
	"math"

	"dealsniper/internal/source"
)

// Deal is a candidate confirmed to be priced below the configured fraction
// of market price, annotated with savings metrics. When no market price was
// available the annotation fields stay nil so callers can render a warning.
type Deal struct {
	source.Candidate
	MarketPrice    *float64 `json:"marketPrice,omitempty"`
	PctBelowMarket *int     `json:"pctBelowMarket,omitempty"`
}

// Classify filters candidates against the market price threshold. With no
// usable market price (marketPrice <= 0) every candidate passes through
// unannotated: classification degrades to "show everything found". Otherwise
// only candidates strictly below marketPrice * thresholdPct/100 survive.
// Input order is preserved either way.
func Classify(candidates []source.Candidate, marketPrice float64, thresholdPct float64) []Deal {
	deals := make([]Deal, 0, len(candidates))

	if marketPrice <= 0 {
		for _, c := range candidates {
			deals = append(deals, Deal{Candidate: c})
		}
		return deals
	}

	threshold := marketPrice * thresholdPct / 100
	for _, c := range candidates {
		if c.Price >= threshold {
			continue
		}
		m := marketPrice
		pct := int(math.Round(100 * (marketPrice - c.Price) / marketPrice))
		deals = append(deals, Deal{
			Candidate:      c,
			MarketPrice:    &m,
			PctBelowMarket: &pct,
		})
	}
	return deals
}
