package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockCollector implements Collector for testing
type mockCollector struct {
	id         ID
	candidates []Candidate
	err        error
	delay      time.Duration
}

var _ Collector = (*mockCollector)(nil)

func (m *mockCollector) Source() ID { return m.id }

func (m *mockCollector) Collect(ctx context.Context, _ string) ([]Candidate, error) {
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return m.candidates, m.err
}

func TestCollectAllFansOutAndJoins(t *testing.T) {
	registry := NewRegistry(WithTimeout(time.Second), WithStagger(0, 0))
	registry.Register(&mockCollector{id: EBay, candidates: []Candidate{
		{Title: "Charizard Holo", Price: 40, Source: "ebay"},
	}})
	registry.Register(&mockCollector{id: Walmart, candidates: []Candidate{
		{Title: "Charizard Tin", Price: 25, Source: "walmart"},
	}})

	outcomes := registry.CollectAll(context.Background(), "charizard", []ID{EBay, Walmart})
	require.Len(t, outcomes, 2)
	assert.NoError(t, outcomes[EBay].Err)
	assert.Len(t, outcomes[EBay].Candidates, 1)
	assert.NoError(t, outcomes[Walmart].Err)
	assert.Len(t, outcomes[Walmart].Candidates, 1)
}

func TestCollectAllIsolatesFailures(t *testing.T) {
	registry := NewRegistry(WithTimeout(time.Second), WithStagger(0, 0))
	registry.Register(&mockCollector{id: EBay, candidates: []Candidate{
		{Title: "Charizard Holo", Price: 40, Source: "ebay"},
		{Title: "Charizard Tin", Price: 25, Source: "ebay"},
	}})
	registry.Register(&mockCollector{id: Walmart, err: errors.New("blocked request")})

	outcomes := registry.CollectAll(context.Background(), "charizard", []ID{EBay, Walmart})

	// Walmart's failure does not remove or mutate eBay's candidates
	assert.NoError(t, outcomes[EBay].Err)
	assert.Len(t, outcomes[EBay].Candidates, 2)
	assert.Error(t, outcomes[Walmart].Err)
}

func TestCollectAllUnregisteredSourceIsEmptySuccess(t *testing.T) {
	registry := NewRegistry(WithTimeout(time.Second), WithStagger(0, 0))
	registry.Register(&mockCollector{id: EBay})

	outcomes := registry.CollectAll(context.Background(), "charizard", []ID{EBay, Amazon})

	amazon, ok := outcomes[Amazon]
	require.True(t, ok)
	assert.NoError(t, amazon.Err)
	assert.Empty(t, amazon.Candidates)
}

func TestCollectAllTimesOutSlowSource(t *testing.T) {
	registry := NewRegistry(WithTimeout(20*time.Millisecond), WithStagger(0, 0))
	registry.Register(&mockCollector{id: EBay, delay: 200 * time.Millisecond})
	registry.Register(&mockCollector{id: Walmart, candidates: []Candidate{
		{Title: "Charizard Tin", Price: 25, Source: "walmart"},
	}})

	start := time.Now()
	outcomes := registry.CollectAll(context.Background(), "charizard", []ID{EBay, Walmart})

	assert.ErrorIs(t, outcomes[EBay].Err, context.DeadlineExceeded)
	assert.NoError(t, outcomes[Walmart].Err)
	assert.Less(t, time.Since(start), 150*time.Millisecond, "timeout must not wait for the slow source")
}

func TestCollectAllDeduplicatesRequestedSources(t *testing.T) {
	calls := 0
	registry := NewRegistry(WithTimeout(time.Second), WithStagger(0, 0))
	registry.Register(collectorFunc{id: EBay, fn: func() ([]Candidate, error) {
		calls++
		return nil, nil
	}})

	outcomes := registry.CollectAll(context.Background(), "charizard", []ID{EBay, EBay})
	assert.Len(t, outcomes, 1)
	assert.Equal(t, 1, calls)
}

// collectorFunc adapts a closure to the Collector interface
type collectorFunc struct {
	id ID
	fn func() ([]Candidate, error)
}

func (c collectorFunc) Source() ID { return c.id }

func (c collectorFunc) Collect(_ context.Context, _ string) ([]Candidate, error) {
	return c.fn()
}

func TestNewCandidateNormalization(t *testing.T) {
	c, ok := NewCandidate("  Charizard Holo  ", "$40.00", "https://example.com/1", EBay)
	require.True(t, ok)
	assert.Equal(t, "Charizard Holo", c.Title)
	assert.Equal(t, 40.0, c.Price)
	assert.Equal(t, "ebay", c.Source)

	// Missing title is dropped silently
	_, ok = NewCandidate("   ", "$40.00", "", EBay)
	assert.False(t, ok)

	// Unparseable price is dropped silently
	_, ok = NewCandidate("Charizard Holo", "see description", "", EBay)
	assert.False(t, ok)

	// Non-positive price is dropped silently
	_, ok = NewCandidate("Charizard Holo", "$0.00", "", EBay)
	assert.False(t, ok)
}
