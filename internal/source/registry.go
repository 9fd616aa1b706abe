package source

import (
	"context"
	"math/rand/v2"
	"time"

	"dealsniper/logger"
)

// Registry maps source IDs to their collectors and runs the concurrent
// fan-out. Sources without a registered collector are a configuration state,
// not a fault: they settle as empty successes.
type Registry struct {
	collectors map[ID]Collector
	timeout    time.Duration
	staggerMin time.Duration
	staggerMax time.Duration
	log        *logger.Logger
}

// Option configures a Registry
type Option func(*Registry)

// WithTimeout sets the per-source collection timeout
func WithTimeout(d time.Duration) Option {
	return func(r *Registry) { r.timeout = d }
}

// WithStagger sets the randomized delay window applied before each source's
// request, reducing simultaneous-load signatures. Zero max disables it.
func WithStagger(min, max time.Duration) Option {
	return func(r *Registry) {
		r.staggerMin = min
		r.staggerMax = max
	}
}

// NewRegistry creates an empty registry
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		collectors: make(map[ID]Collector),
		timeout:    20 * time.Second,
		log:        logger.ForComponent("registry"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a collector for its source, replacing any existing one
func (r *Registry) Register(c Collector) {
	r.collectors[c.Source()] = c
}

// Registered reports whether a collector exists for the source
func (r *Registry) Registered(id ID) bool {
	_, ok := r.collectors[id]
	return ok
}

// CollectAll fans out one collection per requested source and joins after
// every source has settled. One source's failure never cancels its siblings;
// each failure is carried in that source's Outcome.
func (r *Registry) CollectAll(ctx context.Context, term string, sources []ID) map[ID]Outcome {
	outcomes := make(map[ID]Outcome, len(sources))
	results := make(chan Outcome)

	inflight := 0
	for _, id := range sources {
		if _, dup := outcomes[id]; dup {
			continue
		}
		c, ok := r.collectors[id]
		if !ok {
			// Unimplemented source: empty success
			r.log.Debug().Str("source", string(id)).Msg("No collector registered, skipping")
			outcomes[id] = Outcome{Source: id, Candidates: []Candidate{}}
			continue
		}

		inflight++
		go func(id ID, c Collector) {
			results <- r.collect(ctx, c, term)
		}(id, c)
	}

	// Fan-in: the registry is the single writer of the outcome map
	for ; inflight > 0; inflight-- {
		o := <-results
		outcomes[o.Source] = o
	}
	return outcomes
}

// collect runs one source with its own timeout and stagger
func (r *Registry) collect(ctx context.Context, c Collector, term string) Outcome {
	id := c.Source()

	if r.staggerMax > 0 {
		delay := r.staggerMin
		if window := r.staggerMax - r.staggerMin; window > 0 {
			delay += rand.N(window)
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return Outcome{Source: id, Err: ctx.Err()}
		}
	}

	cctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	candidates, err := c.Collect(cctx, term)
	if err != nil {
		r.log.Warn().
			Str("source", string(id)).
			Err(err).
			Msg("Source collection failed")
		return Outcome{Source: id, Err: err}
	}
	if candidates == nil {
		candidates = []Candidate{}
	}

	r.log.Debug().
		Str("source", string(id)).
		Int("count", len(candidates)).
		Dur("elapsed", time.Since(start)).
		Msg("Source collection completed")
	return Outcome{Source: id, Candidates: candidates}
}
