package store_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/gamepass-price-scanner/internal/store"
	domain "github.com/donaldgifford/gamepass-price-scanner/pkg/types"
)

func TestNoOpStore(t *testing.T) {
	t.Parallel()

	var s store.Store = store.NewNoOpStore(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	require.NoError(t, s.Ping(ctx))
	require.NoError(t, s.CreateScanRun(ctx, &domain.ScanRun{Trigger: "api"}))
	require.NoError(t, s.RecordObservations(ctx, []domain.PriceObservation{{ItemID: "1"}}))

	_, err := s.GetScanRun(ctx, "x")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.LatestObservation(ctx, "1")
	require.ErrorIs(t, err, store.ErrNotFound)

	runs, err := s.ListScanRuns(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, runs)

	obs, total, err := s.ListObservations(ctx, &store.ObservationQuery{})
	require.NoError(t, err)
	assert.Empty(t, obs)
	assert.Zero(t, total)
}
