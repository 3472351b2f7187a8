package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// ScanItemsRate returns a timeseries panel showing items scanned and priced
// per minute.
func ScanItemsRate() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Items / min").
		Description("Items scanned and items with a price, per minute").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`gps:scan_items:rate5m * 60`, "scanned", "A")).
		WithTarget(PromQuery(
			`sum(rate(gps_scan_items_priced_total{job="gamepass-scanner"}[5m])) * 60`,
			"priced", "B",
		)).
		FillOpacity(10).
		LineWidth(2).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// ScanFailures returns a timeseries panel showing per-item scan failures.
func ScanFailures() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Item Failures / min").
		Description("Items whose resolution errored or panicked, per minute").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(`gps:scan_item_failures:rate5m * 60`, "failures/min", "A")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(0.1, 1)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}

// ScanDuration returns a timeseries panel showing the p95 batch scan duration.
func ScanDuration() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Scan Duration (p95)").
		Description("95th percentile batch scan duration").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum(rate(gps_scan_duration_seconds_bucket{job="gamepass-scanner"}[5m])) by (le))`,
			"p95",
			"A",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// SlowModeScans returns a stat panel showing batches currently running in
// slow mode.
func SlowModeScans() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Slow-Mode Scans").
		Description("Large batches currently paced in slow mode").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(12).
		WithTarget(PromQuery(`sum(gps_scan_slow_mode{job="gamepass-scanner"})`, "", "A")).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeArea)
}

// ScheduledScans returns a stat panel showing scheduled watchlist scans by
// result over the last day.
func ScheduledScans() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Scheduled Scans (24h)").
		Description("Watchlist scans by result in the last 24 hours").
		Datasource(DSRef()).
		Height(StatHeight).
		Span(12).
		WithTarget(PromQuery(
			`sum(increase(gps_scheduled_scans_total{job="gamepass-scanner"}[24h])) by (result)`,
			"{{result}}", "A",
		)).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		GraphMode(common.BigValueGraphModeNone)
}
