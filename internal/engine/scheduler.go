package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/donaldgifford/gamepass-price-scanner/internal/metrics"
	domain "github.com/donaldgifford/gamepass-price-scanner/pkg/types"
)

// TriggerSchedule marks scan runs started by the scheduler.
const TriggerSchedule = "schedule"

// Scheduler periodically rescans a fixed watchlist.
type Scheduler struct {
	cron      *cron.Cron
	scanner   *Scanner
	watchlist []domain.ItemID
	force     bool
	timeout   time.Duration
	log       *slog.Logger

	entryID cron.EntryID
}

// NewScheduler creates a Scheduler that scans watchlist every interval.
// Overlapping runs are skipped. A zero timeout lets a run take as long as it
// needs.
func NewScheduler(
	sc *Scanner,
	watchlist []domain.ItemID,
	interval time.Duration,
	timeout time.Duration,
	force bool,
	log *slog.Logger,
) (*Scheduler, error) {
	if interval <= 0 {
		return nil, errors.New("schedule interval must be positive")
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	s := &Scheduler{
		cron:      c,
		scanner:   sc,
		watchlist: watchlist,
		force:     force,
		timeout:   timeout,
		log:       log,
	}

	id, err := c.AddFunc("@every "+interval.String(), s.runWatchlist)
	if err != nil {
		return nil, err
	}
	s.entryID = id

	return s, nil
}

// Start begins running scheduled scans.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started", "watchlist", len(s.watchlist))
	s.cron.Start()
}

// Stop gracefully stops the scheduler, waiting for a running scan to finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

// NextRun returns when the next watchlist scan is due. It is zero before
// Start.
func (s *Scheduler) NextRun() time.Time {
	return s.cron.Entry(s.entryID).Next
}

func (s *Scheduler) runWatchlist() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	s.RunOnce(ctx)
}

// RunOnce scans the watchlist immediately.
func (s *Scheduler) RunOnce(ctx context.Context) *domain.ScanRun {
	if len(s.watchlist) == 0 {
		s.log.Debug("watchlist empty, skipping scheduled scan")
		metrics.ScheduledScansTotal.WithLabelValues("skipped").Inc()
		return nil
	}

	s.log.Info("scheduled scan starting", "items", len(s.watchlist))
	run, _ := s.scanner.Run(ctx, s.watchlist, s.force, TriggerSchedule)

	if ctx.Err() != nil {
		s.log.Warn("scheduled scan interrupted", "error", ctx.Err())
		metrics.ScheduledScansTotal.WithLabelValues("interrupted").Inc()
		return run
	}

	metrics.ScheduledScansTotal.WithLabelValues("completed").Inc()
	s.log.Info("scheduled scan complete",
		"items_with_price", run.Summary.ItemsWithPrice,
		"total_price_sum", run.Summary.TotalPriceSum,
	)
	return run
}
