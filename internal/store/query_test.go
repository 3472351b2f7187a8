package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestObservationQuery_ToSQL(t *testing.T) {
	t.Parallel()

	since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		query         ObservationQuery
		wantCountSQL  string
		wantArgs      []any
		wantDataHas   []string
		wantDataNotIn []string
	}{
		{
			name:  "empty query uses defaults",
			query: ObservationQuery{},
			wantDataHas: []string{
				"FROM price_observations",
				"ORDER BY observed_at DESC",
				"LIMIT 50",
				"OFFSET 0",
			},
			wantDataNotIn: []string{"WHERE"},
			wantCountSQL:  "SELECT COUNT(*) FROM price_observations",
		},
		{
			name:         "item filter",
			query:        ObservationQuery{ItemID: ptr("12345")},
			wantDataHas:  []string{"WHERE item_id = $1"},
			wantCountSQL: "SELECT COUNT(*) FROM price_observations WHERE item_id = $1",
			wantArgs:     []any{"12345"},
		},
		{
			name: "all filters combined",
			query: ObservationQuery{
				ItemID:     ptr("1"),
				ScanRunID:  ptr("run"),
				Since:      &since,
				PricedOnly: true,
			},
			wantDataHas: []string{
				"WHERE item_id = $1 AND scan_run_id = $2 AND observed_at >= $3 AND display_price IS NOT NULL",
			},
			wantCountSQL: "SELECT COUNT(*) FROM price_observations " +
				"WHERE item_id = $1 AND scan_run_id = $2 AND observed_at >= $3 AND display_price IS NOT NULL",
			wantArgs: []any{"1", "run", since},
		},
		{
			name:         "priced only needs no args",
			query:        ObservationQuery{PricedOnly: true},
			wantDataHas:  []string{"WHERE display_price IS NOT NULL"},
			wantCountSQL: "SELECT COUNT(*) FROM price_observations WHERE display_price IS NOT NULL",
		},
		{
			name:         "order by price",
			query:        ObservationQuery{OrderBy: "price"},
			wantDataHas:  []string{"ORDER BY display_price DESC NULLS LAST"},
			wantCountSQL: "SELECT COUNT(*) FROM price_observations",
		},
		{
			name:          "unknown order falls back to default",
			query:         ObservationQuery{OrderBy: "id; DROP TABLE scan_runs"},
			wantDataHas:   []string{"ORDER BY observed_at DESC"},
			wantDataNotIn: []string{"DROP"},
			wantCountSQL:  "SELECT COUNT(*) FROM price_observations",
		},
		{
			name:         "limit capped and offset floored",
			query:        ObservationQuery{Limit: 10_000, Offset: -5},
			wantDataHas:  []string{"LIMIT 500", "OFFSET 0"},
			wantCountSQL: "SELECT COUNT(*) FROM price_observations",
		},
		{
			name:         "custom limit and offset",
			query:        ObservationQuery{Limit: 20, Offset: 40},
			wantDataHas:  []string{"LIMIT 20", "OFFSET 40"},
			wantCountSQL: "SELECT COUNT(*) FROM price_observations",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dataSQL, countSQL, args := tt.query.ToSQL()

			for _, s := range tt.wantDataHas {
				assert.Contains(t, dataSQL, s)
			}
			for _, s := range tt.wantDataNotIn {
				assert.NotContains(t, dataSQL, s)
			}
			assert.Equal(t, tt.wantCountSQL, countSQL)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}
