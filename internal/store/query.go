package store

import (
	"fmt"
	"strings"
)

const (
	defaultLimit = 50
	maxLimit     = 500

	orderByObservedAt = "observed_at"
	orderByPrice      = "price"
)

// validOrderBy maps allowed OrderBy values to their SQL column expressions.
var validOrderBy = map[string]string{
	orderByObservedAt: "observed_at DESC",
	orderByPrice:      "display_price DESC NULLS LAST",
}

const defaultOrderBy = "observed_at DESC"

const baseObservationsSelect = `SELECT id, scan_run_id, item_id, display_price,
	amount_after_fee, observed_at
FROM price_observations`

const countObservationsSelect = "SELECT COUNT(*) FROM price_observations"

// ToSQL builds the WHERE clause, ORDER BY, LIMIT, and OFFSET for an
// observation query. It returns the data query, the count query, and the
// positional parameters shared by both.
func (q *ObservationQuery) ToSQL() (dataSQL, countSQL string, args []any) {
	var conditions []string
	paramIdx := 1

	if q.ItemID != nil {
		conditions = append(conditions, fmt.Sprintf("item_id = $%d", paramIdx))
		args = append(args, *q.ItemID)
		paramIdx++
	}

	if q.ScanRunID != nil {
		conditions = append(conditions, fmt.Sprintf("scan_run_id = $%d", paramIdx))
		args = append(args, *q.ScanRunID)
		paramIdx++
	}

	if q.Since != nil {
		conditions = append(conditions, fmt.Sprintf("observed_at >= $%d", paramIdx))
		args = append(args, *q.Since)
	}

	if q.PricedOnly {
		conditions = append(conditions, "display_price IS NOT NULL")
	}

	var whereClause string
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	orderClause := defaultOrderBy
	if q.OrderBy != "" {
		if col, ok := validOrderBy[q.OrderBy]; ok {
			orderClause = col
		}
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	offset := max(q.Offset, 0)

	dataSQL = fmt.Sprintf(
		"%s%s ORDER BY %s LIMIT %d OFFSET %d",
		baseObservationsSelect, whereClause, orderClause, limit, offset,
	)

	countSQL = countObservationsSelect + whereClause

	return dataSQL, countSQL, args
}
