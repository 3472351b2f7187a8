package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/donaldgifford/gamepass-price-scanner/pkg/types"
)

const defaultPoolSize = 10

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling. The
// pool holds defaultPoolSize connections unless connString sets
// pool_max_conns.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	if !strings.Contains(connString, "pool_max_conns") {
		cfg.MaxConns = defaultPoolSize
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// CreateScanRun inserts a completed scan run and sets its generated ID.
func (s *PostgresStore) CreateScanRun(ctx context.Context, run *domain.ScanRun) error {
	args := pgx.NamedArgs{
		"trigger":          run.Trigger,
		"forced":           run.Forced,
		"total_price_sum":  run.Summary.TotalPriceSum,
		"items_scanned":    run.Summary.ItemsScanned,
		"items_with_price": run.Summary.ItemsWithPrice,
		"duration_ms":      run.Duration.Milliseconds(),
		"started_at":       run.StartedAt,
		"completed_at":     run.CompletedAt,
	}
	if err := s.pool.QueryRow(ctx, queryCreateScanRun, args).Scan(&run.ID); err != nil {
		return fmt.Errorf("inserting scan run: %w", err)
	}
	return nil
}

// GetScanRun returns a scan run by ID.
func (s *PostgresStore) GetScanRun(ctx context.Context, id string) (*domain.ScanRun, error) {
	run, err := scanScanRun(s.pool.QueryRow(ctx, queryGetScanRun, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting scan run %s: %w", id, err)
	}
	return run, nil
}

// ListScanRuns returns the most recent scan runs.
func (s *PostgresStore) ListScanRuns(ctx context.Context, limit int) ([]domain.ScanRun, error) {
	if limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}
	rows, err := s.pool.Query(ctx, queryListScanRuns, limit)
	if err != nil {
		return nil, fmt.Errorf("listing scan runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.ScanRun
	for rows.Next() {
		run, err := scanScanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// RecordObservations inserts a batch of observations in one round trip.
func (s *PostgresStore) RecordObservations(ctx context.Context, obs []domain.PriceObservation) error {
	if len(obs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i := range obs {
		o := &obs[i]
		observedAt := o.ObservedAt
		if observedAt.IsZero() {
			observedAt = time.Now()
		}
		batch.Queue(queryInsertObservation,
			o.ScanRunID, string(o.ItemID), o.DisplayPrice, o.AmountReceivedAfterFee, observedAt,
		)
	}

	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("inserting observations: %w", err)
	}
	return nil
}

// ListObservations returns observations matching q and the total match count.
func (s *PostgresStore) ListObservations(
	ctx context.Context,
	q *ObservationQuery,
) ([]domain.PriceObservation, int, error) {
	if q == nil {
		q = &ObservationQuery{}
	}
	dataSQL, countSQL, args := q.ToSQL()

	var total int
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting observations: %w", err)
	}

	rows, err := s.pool.Query(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing observations: %w", err)
	}
	defer rows.Close()

	var out []domain.PriceObservation
	for rows.Next() {
		o, err := scanObservation(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning observation: %w", err)
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// LatestObservation returns the newest observation for an item.
func (s *PostgresStore) LatestObservation(
	ctx context.Context,
	itemID domain.ItemID,
) (*domain.PriceObservation, error) {
	o, err := scanObservation(s.pool.QueryRow(ctx, queryLatestObservation, string(itemID)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting latest observation for %s: %w", itemID, err)
	}
	return o, nil
}

func scanScanRun(row pgx.Row) (*domain.ScanRun, error) {
	var (
		run        domain.ScanRun
		durationMS int64
	)
	err := row.Scan(
		&run.ID, &run.Trigger, &run.Forced,
		&run.Summary.TotalPriceSum, &run.Summary.ItemsScanned, &run.Summary.ItemsWithPrice,
		&durationMS, &run.StartedAt, &run.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	run.Duration = time.Duration(durationMS) * time.Millisecond
	return &run, nil
}

func scanObservation(row pgx.Row) (*domain.PriceObservation, error) {
	var (
		o      domain.PriceObservation
		itemID string
	)
	err := row.Scan(
		&o.ID, &o.ScanRunID, &itemID, &o.DisplayPrice, &o.AmountReceivedAfterFee, &o.ObservedAt,
	)
	if err != nil {
		return nil, err
	}
	o.ItemID = domain.ItemID(itemID)
	return &o, nil
}
