package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"runtime/debug"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"

	"github.com/donaldgifford/gamepass-price-scanner/internal/metrics"
	"github.com/donaldgifford/gamepass-price-scanner/internal/store"
	"github.com/donaldgifford/gamepass-price-scanner/pkg/pricing"
	domain "github.com/donaldgifford/gamepass-price-scanner/pkg/types"
)

var tracer = otel.Tracer("github.com/donaldgifford/gamepass-price-scanner/internal/engine")

// PriceSource resolves a single item.
type PriceSource interface {
	ResolveItem(ctx context.Context, id domain.ItemID, force bool) (*domain.ResolvedPrice, error)
}

// ScanConfig controls batch pacing.
type ScanConfig struct {
	// WaveSize is how many items are submitted together. It groups
	// submission only; the concurrency limit applies across the batch.
	WaveSize        int
	FastConcurrency int
	SlowConcurrency int
	// ThrottleThreshold switches a batch of at least this many items to
	// slow mode.
	ThrottleThreshold int
	// SlowWaveDelay is slept between waves in slow mode.
	SlowWaveDelay time.Duration
	// SlowJitterMax bounds the random delay before each slow-mode item.
	SlowJitterMax time.Duration
	FeeRate       float64
}

// DefaultScanConfig returns the production pacing defaults.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		WaveSize:          10,
		FastConcurrency:   6,
		SlowConcurrency:   3,
		ThrottleThreshold: 11,
		SlowWaveDelay:     800 * time.Millisecond,
		SlowJitterMax:     350 * time.Millisecond,
		FeeRate:           pricing.DefaultFeeRate,
	}
}

// Scanner resolves batches of items with bounded concurrency and folds the
// results into a summary.
type Scanner struct {
	source PriceSource
	store  store.Store
	cfg    ScanConfig
	log    *slog.Logger

	nowFunc   func() time.Time
	sleepFunc func(ctx context.Context, d time.Duration) error
	randFunc  func() float64
}

// ScannerOption configures the Scanner.
type ScannerOption func(*Scanner)

// WithScannerLogger sets the scanner logger.
func WithScannerLogger(l *slog.Logger) ScannerOption {
	return func(s *Scanner) {
		s.log = l
	}
}

// WithScanConfig overrides the pacing configuration. Zero sizes and rates keep
// their defaults; zero delays disable the delay.
func WithScanConfig(cfg ScanConfig) ScannerOption {
	return func(s *Scanner) {
		d := DefaultScanConfig()
		if cfg.WaveSize <= 0 {
			cfg.WaveSize = d.WaveSize
		}
		if cfg.FastConcurrency <= 0 {
			cfg.FastConcurrency = d.FastConcurrency
		}
		if cfg.SlowConcurrency <= 0 {
			cfg.SlowConcurrency = d.SlowConcurrency
		}
		if cfg.ThrottleThreshold <= 0 {
			cfg.ThrottleThreshold = d.ThrottleThreshold
		}
		if cfg.FeeRate <= 0 {
			cfg.FeeRate = d.FeeRate
		}
		s.cfg = cfg
	}
}

// WithStore records every scan run and its observations.
func WithStore(st store.Store) ScannerOption {
	return func(s *Scanner) {
		s.store = st
	}
}

// WithScannerSleepFunc overrides how the scanner waits, for testing.
func WithScannerSleepFunc(f func(ctx context.Context, d time.Duration) error) ScannerOption {
	return func(s *Scanner) {
		s.sleepFunc = f
	}
}

// WithScannerNowFunc overrides the time function for testing.
func WithScannerNowFunc(f func() time.Time) ScannerOption {
	return func(s *Scanner) {
		s.nowFunc = f
	}
}

// WithRandFunc overrides the jitter source; f returns values in [0, 1).
func WithRandFunc(f func() float64) ScannerOption {
	return func(s *Scanner) {
		s.randFunc = f
	}
}

// NewScanner creates a Scanner.
func NewScanner(src PriceSource, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		source:    src,
		cfg:       DefaultScanConfig(),
		log:       slog.Default(),
		nowFunc:   time.Now,
		sleepFunc: sleepContext,
		randFunc:  rand.Float64,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the active pacing configuration.
func (s *Scanner) Config() ScanConfig {
	return s.cfg
}

// ScanAll resolves every id and returns one result per input, in input order.
// A slot is nil when resolving that item failed; an item that resolved
// without a price has a result with a nil DisplayPrice.
func (s *Scanner) ScanAll(
	ctx context.Context,
	ids []domain.ItemID,
	force bool,
) ([]*domain.ScanResult, domain.BatchSummary) {
	start := s.nowFunc()
	slow := len(ids) >= s.cfg.ThrottleThreshold
	concurrency := s.cfg.FastConcurrency
	if slow {
		concurrency = s.cfg.SlowConcurrency
		metrics.ScanSlowMode.Inc()
		defer metrics.ScanSlowMode.Dec()
	}

	ctx, span := tracer.Start(ctx, "engine.ScanAll", trace.WithAttributes(
		attribute.Int("items", len(ids)),
		attribute.Bool("slow", slow),
		attribute.Bool("force", force),
	))
	defer span.End()

	s.log.Info("scan starting",
		"items", len(ids),
		"slow_mode", slow,
		"concurrency", concurrency,
		"force", force,
	)

	results := make([]*domain.ScanResult, len(ids))
	sem := semaphore.NewWeighted(int64(concurrency))

	for waveStart := 0; waveStart < len(ids); waveStart += s.cfg.WaveSize {
		waveEnd := min(waveStart+s.cfg.WaveSize, len(ids))

		var wg sync.WaitGroup
		for i := waveStart; i < waveEnd; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				if err := sem.Acquire(ctx, 1); err != nil {
					return
				}
				defer sem.Release(1)
				results[i] = s.scanOne(ctx, ids[i], force, slow)
			}(i)
		}
		wg.Wait()

		if slow && waveEnd < len(ids) && s.cfg.SlowWaveDelay > 0 {
			if err := s.sleepFunc(ctx, s.cfg.SlowWaveDelay); err != nil {
				break
			}
		}
	}

	summary := Summarize(len(ids), results)

	metrics.ScanDuration.Observe(s.nowFunc().Sub(start).Seconds())
	metrics.ScanItemsTotal.Add(float64(summary.ItemsScanned))
	metrics.ScanItemsPricedTotal.Add(float64(summary.ItemsWithPrice))

	s.log.Info("scan complete",
		"items_scanned", summary.ItemsScanned,
		"items_with_price", summary.ItemsWithPrice,
		"total_price_sum", summary.TotalPriceSum,
		"duration", s.nowFunc().Sub(start),
	)
	return results, summary
}

// Run scans ids and persists the run when a store is configured. Persistence
// failures are logged; the scan result is returned regardless.
func (s *Scanner) Run(
	ctx context.Context,
	ids []domain.ItemID,
	force bool,
	trigger string,
) (*domain.ScanRun, []*domain.ScanResult) {
	started := s.nowFunc()
	results, summary := s.ScanAll(ctx, ids, force)
	completed := s.nowFunc()

	run := &domain.ScanRun{
		Trigger:     trigger,
		Forced:      force,
		Summary:     summary,
		Duration:    completed.Sub(started),
		StartedAt:   started,
		CompletedAt: completed,
	}

	if s.store != nil {
		if err := s.record(ctx, run, results); err != nil {
			s.log.Error("recording scan run failed", "trigger", trigger, "error", err)
		}
	}
	return run, results
}

// Summarize folds per-item results. Absent slots count as scanned without a
// price.
func Summarize(scanned int, results []*domain.ScanResult) domain.BatchSummary {
	sum := domain.BatchSummary{ItemsScanned: scanned}
	for _, r := range results {
		if r == nil || r.DisplayPrice == nil {
			continue
		}
		sum.TotalPriceSum += *r.DisplayPrice
		sum.ItemsWithPrice++
	}
	return sum
}

func (s *Scanner) scanOne(
	ctx context.Context,
	id domain.ItemID,
	force bool,
	slow bool,
) (res *domain.ScanResult) {
	defer func() {
		if r := recover(); r != nil {
			metrics.ScanItemFailuresTotal.Inc()
			s.log.Error("item scan panicked",
				"item_id", id,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)
			res = nil
		}
	}()

	if slow && s.cfg.SlowJitterMax > 0 {
		jitter := time.Duration(s.randFunc() * float64(s.cfg.SlowJitterMax))
		if err := s.sleepFunc(ctx, jitter); err != nil {
			return nil
		}
	}

	resolved, err := s.source.ResolveItem(ctx, id, force)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			metrics.ScanItemFailuresTotal.Inc()
		}
		s.log.Error("item scan failed", "item_id", id, "error", err)
		return nil
	}
	if resolved == nil {
		return &domain.ScanResult{ItemID: id}
	}

	return &domain.ScanResult{
		ItemID:                 id,
		DisplayPrice:           resolved.DisplayPrice,
		AmountReceivedAfterFee: pricing.AmountAfterFee(resolved.DisplayPrice, s.cfg.FeeRate),
	}
}

func (s *Scanner) record(ctx context.Context, run *domain.ScanRun, results []*domain.ScanResult) error {
	if err := s.store.CreateScanRun(ctx, run); err != nil {
		return fmt.Errorf("creating scan run: %w", err)
	}

	obs := make([]domain.PriceObservation, 0, len(results))
	for _, r := range results {
		if r == nil || r.DisplayPrice == nil {
			continue
		}
		obs = append(obs, domain.PriceObservation{
			ScanRunID:              run.ID,
			ItemID:                 r.ItemID,
			DisplayPrice:           r.DisplayPrice,
			AmountReceivedAfterFee: r.AmountReceivedAfterFee,
			ObservedAt:             run.CompletedAt,
		})
	}
	if err := s.store.RecordObservations(ctx, obs); err != nil {
		return fmt.Errorf("recording observations: %w", err)
	}
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
