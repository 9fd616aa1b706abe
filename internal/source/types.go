package source

import (
	"context"
	"strings"

	"dealsniper/helpers"
)

// ID identifies an external listing provider
type ID string

const (
	TCGPlayer ID = "tcgplayer"
	EBay      ID = "ebay"
	Amazon    ID = "amazon"
	Walmart   ID = "walmart"
	Target    ID = "target"
)

// Candidate represents a raw listing returned by a source before relevance
// and threshold filtering. Candidates live only for the duration of a scan.
type Candidate struct {
	Title  string  `json:"title"`
	Price  float64 `json:"price"`
	Link   string  `json:"link"`
	Source string  `json:"source"`
}

// Collector retrieves candidate listings for a search term from one source
type Collector interface {
	// Collect retrieves candidates matching the term. It must return an
	// empty slice, not an error, when the source simply has no results.
	Collect(ctx context.Context, term string) ([]Candidate, error)

	// Source returns the provider this collector serves
	Source() ID
}

// Outcome is the settled result of one source's collection
type Outcome struct {
	Source     ID
	Candidates []Candidate
	Err        error
}

// NewCandidate normalizes raw listing fields into a Candidate. The title is
// trimmed and the price text parsed after stripping non-numeric characters;
// ok=false means the listing should be dropped silently.
func NewCandidate(title, priceText, link string, source ID) (Candidate, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Candidate{}, false
	}
	price, err := helpers.ParsePrice(priceText)
	if err != nil {
		return Candidate{}, false
	}
	return Candidate{
		Title:  title,
		Price:  price,
		Link:   strings.TrimSpace(link),
		Source: string(source),
	}, true
}
