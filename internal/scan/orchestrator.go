package scan

import (
	"context"
	"fmt"

	"dealsniper/internal/deal"
	"dealsniper/internal/match"
	"dealsniper/internal/pricing"
	"dealsniper/internal/source"
	"dealsniper/logger"
)

// Stage names a step of the scan pipeline
type Stage string

const (
	StageIdle           Stage = "idle"
	StageResolvingPrice Stage = "resolving_price"
	StageCollecting     Stage = "collecting"
	StageFiltering      Stage = "filtering"
	StageClassifying    Stage = "classifying"
	StageDone           Stage = "done"
)

// StageHook is notified at every stage transition, letting a surrounding
// system attach logging or metrics without altering scan logic
type StageHook func(Stage)

// Orchestrator sequences the scan pipeline: resolve the reference price,
// collect candidates concurrently, filter for relevance, classify deals.
type Orchestrator struct {
	resolver *pricing.Resolver
	registry *source.Registry
	filter   *match.Filter
	hook     StageHook
	log      *logger.Logger
}

// NewOrchestrator creates an orchestrator; hook may be nil
func NewOrchestrator(resolver *pricing.Resolver, registry *source.Registry, filter *match.Filter, hook StageHook) *Orchestrator {
	return &Orchestrator{
		resolver: resolver,
		registry: registry,
		filter:   filter,
		hook:     hook,
		log:      logger.ForComponent("orchestrator"),
	}
}

// Scan runs one full scan. Only request validation fails the scan; every
// per-source and per-stage failure degrades gracefully and lands in
// Result.Stats.Errors instead.
//
// The reference price is resolved unconditionally, whether or not the
// reference source appears in the request's source set.
func (o *Orchestrator) Scan(ctx context.Context, req Request) (Result, error) {
	o.transition(StageIdle)

	req.Normalize()
	if err := req.Validate(); err != nil {
		return Result{Term: req.Term, Stats: Stats{Errors: []string{}}}, err
	}

	o.log.Info().
		Str("term", req.Term).
		Float64("threshold_pct", req.ThresholdPct).
		Interface("sources", req.Sources).
		Msg("Starting scan")

	result := Result{
		Term:  req.Term,
		Stats: Stats{Errors: []string{}},
	}

	o.transition(StageResolvingPrice)
	marketPrice, havePrice := o.resolver.Resolve(ctx, req.Term)
	if havePrice {
		result.MarketPrice = &marketPrice
	}

	o.transition(StageCollecting)
	outcomes := o.registry.CollectAll(ctx, req.Term, req.Sources)

	// Merge in request order so stats and candidate order are deterministic
	// across runs with identical inputs
	pool := []source.Candidate{}
	seen := map[source.ID]bool{}
	for _, id := range req.Sources {
		if seen[id] {
			continue
		}
		seen[id] = true
		outcome, ok := outcomes[id]
		if !ok {
			continue
		}
		if outcome.Err != nil {
			result.Stats.Errors = append(result.Stats.Errors, fmt.Sprintf("%s: %v", id, outcome.Err))
			continue
		}
		result.Stats.Fetched += len(outcome.Candidates)
		pool = append(pool, outcome.Candidates...)
	}

	o.transition(StageFiltering)
	relevant := o.filter.Apply(pool, req.Term)
	result.Scanned = len(relevant)

	o.transition(StageClassifying)
	result.Deals = deal.Classify(relevant, marketPrice, req.ThresholdPct)

	o.transition(StageDone)
	o.log.Info().
		Str("term", req.Term).
		Int("fetched", result.Stats.Fetched).
		Int("scanned", result.Scanned).
		Int("deals", len(result.Deals)).
		Int("source_errors", len(result.Stats.Errors)).
		Msg("Scan completed")
	return result, nil
}

func (o *Orchestrator) transition(s Stage) {
	if o.hook != nil {
		o.hook(s)
	}
}
