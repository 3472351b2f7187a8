package store

// SQL query constants organized by entity.

// Scan run queries.
const (
	queryCreateScanRun = `
		INSERT INTO scan_runs (
			trigger, forced, total_price_sum, items_scanned, items_with_price,
			duration_ms, started_at, completed_at
		) VALUES (
			@trigger, @forced, @total_price_sum, @items_scanned, @items_with_price,
			@duration_ms, @started_at, @completed_at
		)
		RETURNING id`

	scanRunColumns = `id, trigger, forced, total_price_sum, items_scanned,
		items_with_price, duration_ms, started_at, completed_at`

	queryGetScanRun = `SELECT ` + scanRunColumns + ` FROM scan_runs WHERE id = $1`

	queryListScanRuns = `SELECT ` + scanRunColumns + `
		FROM scan_runs
		ORDER BY started_at DESC
		LIMIT $1`
)

// Observation queries.
const (
	queryInsertObservation = `
		INSERT INTO price_observations (
			scan_run_id, item_id, display_price, amount_after_fee, observed_at
		) VALUES ($1, $2, $3, $4, $5)`

	queryLatestObservation = `
		SELECT id, scan_run_id, item_id, display_price, amount_after_fee, observed_at
		FROM price_observations
		WHERE item_id = $1
		ORDER BY observed_at DESC, id DESC
		LIMIT 1`
)
