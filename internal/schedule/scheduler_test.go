package schedule

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dealsniper/internal/deal"
	"dealsniper/internal/scan"
	"dealsniper/internal/source"
	"dealsniper/services/notifier"
	"dealsniper/services/settings"
)

// mockScanner implements Scanner
type mockScanner struct {
	mu      sync.Mutex
	terms   []string
	results map[string]scan.Result
	err     error
}

var _ Scanner = (*mockScanner)(nil)

func (m *mockScanner) Scan(_ context.Context, req scan.Request) (scan.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.terms = append(m.terms, req.Term)
	if m.err != nil {
		return scan.Result{}, m.err
	}
	return m.results[req.Term], nil
}

// mockNotifier implements notifier.Notifier
type mockNotifier struct {
	mu       sync.Mutex
	subjects []string
	bodies   []string
}

var _ notifier.Notifier = (*mockNotifier)(nil)

func (m *mockNotifier) Notify(subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subjects = append(m.subjects, subject)
	m.bodies = append(m.bodies, body)
	return nil
}

func (m *mockNotifier) Close() error { return nil }

func annotated(title string, price, market float64, pct int) deal.Deal {
	return deal.Deal{
		Candidate:      source.Candidate{Title: title, Price: price, Source: "ebay", Link: "https://example.com/1"},
		MarketPrice:    &market,
		PctBelowMarket: &pct,
	}
}

func TestRunOnceScansEveryTrackedTerm(t *testing.T) {
	scanner := &mockScanner{results: map[string]scan.Result{}}
	store := settings.NewStore([]string{"charizard", "pikachu"})
	sched := NewScheduler(scanner, store, nil, 40)

	sched.RunOnce(context.Background())
	assert.Equal(t, []string{"charizard", "pikachu"}, scanner.terms)
}

func TestRunOnceForwardsDealsToNotifiers(t *testing.T) {
	scanner := &mockScanner{results: map[string]scan.Result{
		"charizard": {
			Term:  "charizard",
			Deals: []deal.Deal{annotated("Charizard Holo", 40, 100, 60)},
		},
	}}
	store := settings.NewStore([]string{"charizard"})
	first := &mockNotifier{}
	second := &mockNotifier{}
	sched := NewScheduler(scanner, store, []notifier.Notifier{first, second}, 40)

	sched.RunOnce(context.Background())

	require.Len(t, first.subjects, 1)
	assert.Contains(t, first.subjects[0], "charizard")
	assert.Contains(t, first.bodies[0], "Charizard Holo")
	assert.Contains(t, first.bodies[0], "60% below market")
	require.Len(t, second.subjects, 1)
}

func TestRunOnceSkipsTermsWithoutDeals(t *testing.T) {
	scanner := &mockScanner{results: map[string]scan.Result{
		"charizard": {Term: "charizard", Scanned: 7},
	}}
	store := settings.NewStore([]string{"charizard"})
	n := &mockNotifier{}
	sched := NewScheduler(scanner, store, []notifier.Notifier{n}, 40)

	sched.RunOnce(context.Background())
	assert.Empty(t, n.subjects)
}

func TestRunOnceIsolatesFailingTerms(t *testing.T) {
	scanner := &mockScanner{err: errors.New("scan failed")}
	store := settings.NewStore([]string{"charizard", "pikachu"})
	n := &mockNotifier{}
	sched := NewScheduler(scanner, store, []notifier.Notifier{n}, 40)

	sched.RunOnce(context.Background())

	// Every term is still attempted
	assert.Equal(t, []string{"charizard", "pikachu"}, scanner.terms)
	assert.Empty(t, n.subjects)
}

func TestRunOnceStopsOnCancelledContext(t *testing.T) {
	scanner := &mockScanner{results: map[string]scan.Result{}}
	store := settings.NewStore([]string{"charizard"})
	sched := NewScheduler(scanner, store, nil, 40)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sched.RunOnce(ctx)
	assert.Empty(t, scanner.terms)
}

func TestFormatDeals(t *testing.T) {
	body := FormatDeals([]deal.Deal{
		annotated("Charizard Holo", 40, 100, 60),
		{Candidate: source.Candidate{Title: "No market", Price: 5, Source: "walmart", Link: "https://example.com/2"}},
	})

	assert.Contains(t, body, "Charizard Holo - $40.00 (60% below market $100.00) [ebay]")
	assert.Contains(t, body, "No market - $5.00 [walmart]")
}
