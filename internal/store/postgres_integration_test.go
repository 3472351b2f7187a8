//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/donaldgifford/gamepass-price-scanner/internal/store"
	"github.com/donaldgifford/gamepass-price-scanner/pkg/pricing"
	domain "github.com/donaldgifford/gamepass-price-scanner/pkg/types"
)

func setupPostgres(t *testing.T) *store.PostgresStore {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("gps_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := store.NewPostgresStore(ctx, connStr)
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
	})

	require.NoError(t, s.Migrate(ctx))

	return s
}

func testScanRun() *domain.ScanRun {
	start := time.Now().Add(-2 * time.Second).Truncate(time.Microsecond)
	return &domain.ScanRun{
		Trigger: "api",
		Forced:  true,
		Summary: domain.BatchSummary{
			TotalPriceSum:  350,
			ItemsScanned:   3,
			ItemsWithPrice: 2,
		},
		Duration:    1500 * time.Millisecond,
		StartedAt:   start,
		CompletedAt: start.Add(1500 * time.Millisecond),
	}
}

func TestPostgresStore_Ping(t *testing.T) {
	s := setupPostgres(t)
	require.NoError(t, s.Ping(context.Background()))
}

func TestPostgresStore_MigrateIdempotent(t *testing.T) {
	s := setupPostgres(t)
	require.NoError(t, s.Migrate(context.Background()))
}

func TestPostgresStore_ScanRuns(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	run := testScanRun()
	require.NoError(t, s.CreateScanRun(ctx, run))
	require.NotEmpty(t, run.ID)

	got, err := s.GetScanRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.Trigger, got.Trigger)
	assert.True(t, got.Forced)
	assert.Equal(t, run.Summary, got.Summary)
	assert.Equal(t, run.Duration, got.Duration)
	assert.WithinDuration(t, run.StartedAt, got.StartedAt, time.Millisecond)

	_, err = s.GetScanRun(ctx, "00000000-0000-0000-0000-000000000000")
	require.ErrorIs(t, err, store.ErrNotFound)

	second := testScanRun()
	second.Trigger = "schedule"
	second.StartedAt = run.StartedAt.Add(time.Second)
	require.NoError(t, s.CreateScanRun(ctx, second))

	runs, err := s.ListScanRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "schedule", runs[0].Trigger)
}

func TestPostgresStore_Observations(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	run := testScanRun()
	require.NoError(t, s.CreateScanRun(ctx, run))

	base := time.Now().Truncate(time.Microsecond)
	obs := []domain.PriceObservation{
		{ScanRunID: run.ID, ItemID: "100", DisplayPrice: pricing.Int(200), AmountReceivedAfterFee: pricing.Int(140), ObservedAt: base},
		{ScanRunID: run.ID, ItemID: "100", DisplayPrice: pricing.Int(150), AmountReceivedAfterFee: pricing.Int(105), ObservedAt: base.Add(time.Minute)},
		{ScanRunID: run.ID, ItemID: "200", ObservedAt: base},
	}
	require.NoError(t, s.RecordObservations(ctx, obs))
	require.NoError(t, s.RecordObservations(ctx, nil))

	t.Run("filter by item", func(t *testing.T) {
		got, total, err := s.ListObservations(ctx, &store.ObservationQuery{ItemID: ptr("100")})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
		require.Len(t, got, 2)
		assert.Equal(t, 150, *got[0].DisplayPrice)
	})

	t.Run("priced only", func(t *testing.T) {
		_, total, err := s.ListObservations(ctx, &store.ObservationQuery{PricedOnly: true})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
	})

	t.Run("absent price stored as null", func(t *testing.T) {
		got, _, err := s.ListObservations(ctx, &store.ObservationQuery{ItemID: ptr("200")})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Nil(t, got[0].DisplayPrice)
		assert.Nil(t, got[0].AmountReceivedAfterFee)
	})

	t.Run("latest", func(t *testing.T) {
		got, err := s.LatestObservation(ctx, "100")
		require.NoError(t, err)
		assert.Equal(t, 105, *got.AmountReceivedAfterFee)

		_, err = s.LatestObservation(ctx, "999")
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func ptr[T any](v T) *T { return &v }
