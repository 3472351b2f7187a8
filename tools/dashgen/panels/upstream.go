package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// UpstreamRequests returns a timeseries panel showing upstream request rate
// split by response status.
func UpstreamRequests() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Upstream Requests").
		Description("Game-pass API requests per second by status").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`sum(rate(gps_upstream_requests_total{job="gamepass-scanner"}[5m])) by (status)`,
			"{{status}}", "A",
		)).
		Unit("reqps").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// UpstreamRetries returns a timeseries panel showing retries by reason.
func UpstreamRetries() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Retries").
		Description("Upstream retries per second by reason (throttled, server error, transport, forbidden)").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`sum(rate(gps_upstream_retries_total{job="gamepass-scanner"}[5m])) by (reason)`,
			"{{reason}}", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// RateGateWait returns a timeseries panel showing how long callers wait for
// a token.
func RateGateWait() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Rate Gate Wait (p95)").
		Description("95th percentile time spent waiting for an upstream token").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(4).
		WithTarget(PromQuery(
			`histogram_quantile(0.95, sum(rate(gps_rate_gate_wait_seconds_bucket{job="gamepass-scanner"}[5m])) by (le))`,
			"p95",
			"A",
		)).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(0.5, 2)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}

// ExhaustedFetches returns a stat panel counting fetches that gave up after
// the retry cap.
func ExhaustedFetches() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Exhausted (1h)").
		Description("Upstream fetches that ran out of attempts in the last hour").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(4).
		WithTarget(PromQuery(
			`sum(increase(gps_upstream_exhausted_total{job="gamepass-scanner"}[1h]))`,
			"", "A",
		)).
		Thresholds(ThresholdsGreenYellowRed(1, 10)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}
