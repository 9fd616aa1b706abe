package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealsniper/internal/source"
)

func TestTokenScorer(t *testing.T) {
	scorer := NewTokenScorer()

	// Every term token present
	assert.Equal(t, 1.0, scorer.Score("Charizard Holo Rare PSA 9", "charizard"))

	// Plural form still counts as the same word
	assert.Equal(t, 1.0, scorer.Score("Pokemon Cards Bundle", "pokemon card"))

	// Unrelated title matches nothing
	assert.Equal(t, 0.0, scorer.Score("Garden Hose 50ft", "charizard"))

	// Half the term tokens found
	assert.Equal(t, 0.5, scorer.Score("Charizard Plush Toy", "charizard holo"))
}

func TestFilterKeepsRelevantCandidates(t *testing.T) {
	filter := NewFilter(NewTokenScorer(), 0.6)

	candidates := []source.Candidate{
		{Title: "Charizard Holo", Price: 40},
		{Title: "Unrelated Widget", Price: 5},
		{Title: "Charizard Tin 2024", Price: 25},
	}

	kept := filter.Apply(candidates, "charizard")
	require.Len(t, kept, 2)
	assert.Equal(t, "Charizard Holo", kept[0].Title)
	assert.Equal(t, "Charizard Tin 2024", kept[1].Title)
}

func TestFilterEmptyTermIsNoOp(t *testing.T) {
	filter := NewFilter(NewTokenScorer(), 0.6)
	candidates := []source.Candidate{{Title: "Anything", Price: 1}}

	assert.Equal(t, candidates, filter.Apply(candidates, ""))
	assert.Equal(t, candidates, filter.Apply(candidates, "   "))
}

func TestFilterEmptyPoolIsNoOp(t *testing.T) {
	filter := NewFilter(NewTokenScorer(), 0.6)
	assert.Empty(t, filter.Apply(nil, "charizard"))
	assert.Empty(t, filter.Apply([]source.Candidate{}, "charizard"))
}

func TestFilterFallsBackWhenNothingMatches(t *testing.T) {
	filter := NewFilter(NewTokenScorer(), 0.6)

	candidates := []source.Candidate{
		{Title: "Garden Hose", Price: 15},
		{Title: "Lawn Mower", Price: 200},
	}

	// An overly strict match must never zero out a scan
	kept := filter.Apply(candidates, "charizard")
	assert.Equal(t, candidates, kept)
}

func TestFilterPreservesInputOrder(t *testing.T) {
	filter := NewFilter(NewTokenScorer(), 0.6)

	candidates := []source.Candidate{
		{Title: "Charizard C", Price: 3},
		{Title: "Charizard A", Price: 1},
		{Title: "Charizard B", Price: 2},
	}

	kept := filter.Apply(candidates, "charizard")
	require.Len(t, kept, 3)
	assert.Equal(t, "Charizard C", kept[0].Title)
	assert.Equal(t, "Charizard A", kept[1].Title)
	assert.Equal(t, "Charizard B", kept[2].Title)
}
