// Package store defines the datastore abstraction for scan history.
// Business logic depends on the Store interface, never on concrete
// implementations, so it can be tested with mocks and run without a
// database.
package store

import (
	"context"
	"errors"
	"time"

	domain "github.com/donaldgifford/gamepass-price-scanner/pkg/types"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ObservationQuery defines optional filters for observation queries.
type ObservationQuery struct {
	ItemID     *string
	ScanRunID  *string
	Since      *time.Time
	PricedOnly bool
	Limit      int // default 50
	Offset     int
	OrderBy    string // "observed_at", "price"
}

// Store defines all data access operations for scan history.
type Store interface {
	Ping(ctx context.Context) error

	// Scan runs
	CreateScanRun(ctx context.Context, run *domain.ScanRun) error
	GetScanRun(ctx context.Context, id string) (*domain.ScanRun, error)
	ListScanRuns(ctx context.Context, limit int) ([]domain.ScanRun, error)

	// Observations
	RecordObservations(ctx context.Context, obs []domain.PriceObservation) error
	ListObservations(ctx context.Context, q *ObservationQuery) ([]domain.PriceObservation, int, error)
	LatestObservation(ctx context.Context, itemID domain.ItemID) (*domain.PriceObservation, error)
}
