package match

import (
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"dealsniper/internal/source"
	"dealsniper/logger"
)

// Scorer rates the textual similarity of a candidate title against the
// search term on a 0..1 scale. The concrete algorithm is swappable without
// touching the filter's fallback logic.
type Scorer interface {
	Score(title, term string) float64
}

// TokenScorer scores by the fraction of term tokens present in the title,
// matching tokens fuzzily so plural forms and small typos still count.
// Extra qualifiers in the title do not lower the score.
type TokenScorer struct {
	metric *metrics.JaroWinkler

	// TokenSimilarity is the per-token similarity needed for two tokens
	// to be considered the same word
	TokenSimilarity float64
}

// NewTokenScorer creates a scorer with the default per-token tolerance
func NewTokenScorer() *TokenScorer {
	m := metrics.NewJaroWinkler()
	m.CaseSensitive = false
	return &TokenScorer{
		metric:          m,
		TokenSimilarity: 0.85,
	}
}

// Score returns the matched fraction of term tokens
func (s *TokenScorer) Score(title, term string) float64 {
	termTokens := tokenize(term)
	if len(termTokens) == 0 {
		return 0
	}
	titleTokens := tokenize(title)

	matched := 0
	for _, tt := range termTokens {
		for _, ct := range titleTokens {
			if strutil.Similarity(tt, ct, s.metric) >= s.TokenSimilarity {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(termTokens))
}

func tokenize(text string) []string {
	return strings.Fields(strings.ToLower(strings.TrimSpace(text)))
}

// Filter is the relevance gate over the aggregate candidate pool
type Filter struct {
	scorer    Scorer
	threshold float64
	log       *logger.Logger
}

// NewFilter creates a filter; threshold is the minimum score to keep a
// candidate, tuned loose so minor variation survives.
func NewFilter(scorer Scorer, threshold float64) *Filter {
	return &Filter{
		scorer:    scorer,
		threshold: threshold,
		log:       logger.ForComponent("filter"),
	}
}

// Apply narrows candidates to those plausibly matching the term, preserving
// input order. An empty term or empty pool passes through unchanged, and a
// similarity pass that rejects everything falls back to the unfiltered pool:
// an overly strict match must never zero out a scan.
func (f *Filter) Apply(candidates []source.Candidate, term string) []source.Candidate {
	if strings.TrimSpace(term) == "" || len(candidates) == 0 {
		return candidates
	}

	kept := make([]source.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if f.scorer.Score(c.Title, term) >= f.threshold {
			kept = append(kept, c)
		}
	}

	if len(kept) == 0 {
		f.log.Warn().
			Str("term", term).
			Int("pool", len(candidates)).
			Msg("Similarity pass matched nothing, falling back to unfiltered pool")
		return candidates
	}

	f.log.Debug().
		Str("term", term).
		Int("pool", len(candidates)).
		Int("kept", len(kept)).
		Msg("Relevance filter applied")
	return kept
}
