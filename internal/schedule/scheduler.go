package schedule

import (
	"context"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"

	"dealsniper/internal/deal"
	"dealsniper/internal/scan"
	"dealsniper/logger"
	"dealsniper/services/notifier"
	"dealsniper/services/settings"
)

// Scanner is the scan entry point the scheduler drives
type Scanner interface {
	Scan(ctx context.Context, req scan.Request) (scan.Result, error)
}

// Scheduler re-scans every tracked search term on a cron schedule and
// forwards found deals to the configured notifiers. It reuses the same scan
// pipeline as manual scans; only the trigger differs.
type Scheduler struct {
	cron      *cron.Cron
	scanner   Scanner
	store     *settings.Store
	notifiers []notifier.Notifier
	threshold float64
	log       *logger.Logger
}

// NewScheduler creates a scheduler over the given scanner and term store
func NewScheduler(scanner Scanner, store *settings.Store, notifiers []notifier.Notifier, thresholdPct float64) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		scanner:   scanner,
		store:     store,
		notifiers: notifiers,
		threshold: thresholdPct,
		log:       logger.ForComponent("scheduler"),
	}
}

// Start registers the cron entry and starts the schedule
func (s *Scheduler) Start(ctx context.Context, spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	s.cron.Start()
	s.log.Info().Str("spec", spec).Int("terms", s.store.Len()).Msg("Scheduler started")
	return nil
}

// Stop stops the schedule, waiting for a running pass to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("Scheduler stopped")
}

// RunOnce scans every tracked term. A failing term never prevents the
// remaining terms from being scanned.
func (s *Scheduler) RunOnce(ctx context.Context) {
	for _, term := range s.store.List() {
		if ctx.Err() != nil {
			return
		}

		result, err := s.scanner.Scan(ctx, scan.Request{
			Term:         term,
			ThresholdPct: s.threshold,
		})
		if err != nil {
			s.log.Error().Str("term", term).Err(err).Msg("Scheduled scan failed")
			continue
		}
		if len(result.Deals) == 0 {
			s.log.Debug().Str("term", term).Int("scanned", result.Scanned).Msg("No deals found")
			continue
		}

		subject := fmt.Sprintf("dealsniper: %d deal(s) found for %q", len(result.Deals), term)
		body := FormatDeals(result.Deals)
		for _, n := range s.notifiers {
			if err := n.Notify(subject, body); err != nil {
				s.log.Error().Str("term", term).Err(err).Msg("Failed to deliver deal alert")
			}
		}
	}
}

// FormatDeals renders deals as a plain-text alert body, one line per deal
func FormatDeals(deals []deal.Deal) string {
	var b strings.Builder
	for _, d := range deals {
		fmt.Fprintf(&b, "%s - $%.2f", d.Title, d.Price)
		if d.PctBelowMarket != nil && d.MarketPrice != nil {
			fmt.Fprintf(&b, " (%d%% below market $%.2f)", *d.PctBelowMarket, *d.MarketPrice)
		}
		fmt.Fprintf(&b, " [%s] %s\n", d.Source, d.Link)
	}
	return b.String()
}
