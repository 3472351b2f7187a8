package store

import (
	"context"
	"log/slog"

	domain "github.com/donaldgifford/gamepass-price-scanner/pkg/types"
)

// NoOpStore implements Store by logging and discarding writes. It is used
// when no database is configured; reads report nothing stored.
type NoOpStore struct {
	log *slog.Logger
}

// NewNoOpStore creates a store that discards scan history.
func NewNoOpStore(log *slog.Logger) *NoOpStore {
	return &NoOpStore{log: log}
}

// Ping always succeeds.
func (*NoOpStore) Ping(context.Context) error { return nil }

// CreateScanRun logs and discards a scan run.
func (n *NoOpStore) CreateScanRun(_ context.Context, run *domain.ScanRun) error {
	n.log.Debug("scan run discarded (no database configured)",
		"trigger", run.Trigger,
		"items_scanned", run.Summary.ItemsScanned,
		"items_with_price", run.Summary.ItemsWithPrice,
	)
	return nil
}

// GetScanRun always reports ErrNotFound.
func (*NoOpStore) GetScanRun(context.Context, string) (*domain.ScanRun, error) {
	return nil, ErrNotFound
}

// ListScanRuns returns nothing.
func (*NoOpStore) ListScanRuns(context.Context, int) ([]domain.ScanRun, error) {
	return nil, nil
}

// RecordObservations logs and discards observations.
func (n *NoOpStore) RecordObservations(_ context.Context, obs []domain.PriceObservation) error {
	n.log.Debug("observations discarded (no database configured)", "count", len(obs))
	return nil
}

// ListObservations returns nothing.
func (*NoOpStore) ListObservations(context.Context, *ObservationQuery) ([]domain.PriceObservation, int, error) {
	return nil, 0, nil
}

// LatestObservation always reports ErrNotFound.
func (*NoOpStore) LatestObservation(context.Context, domain.ItemID) (*domain.PriceObservation, error) {
	return nil, ErrNotFound
}
