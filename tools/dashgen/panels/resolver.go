package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/bargauge"
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// ResolutionsByStrategy returns a bar gauge panel showing which strategy
// produced prices over the last hour. Growth in backup, anonymous or render
// resolutions means the primary credential is failing.
func ResolutionsByStrategy() *bargauge.PanelBuilder {
	return bargauge.NewPanelBuilder().
		Title("Resolutions by Strategy (1h)").
		Description("Prices resolved per strategy in the last hour").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`sum(increase(gps_resolutions_total{job="gamepass-scanner"}[1h])) by (strategy)`,
			"{{strategy}}", "A",
		)).
		Orientation(common.VizOrientationHorizontal).
		Min(0).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic())
}

// RenderAttempts returns a timeseries panel showing headless render attempts
// by outcome.
func RenderAttempts() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Render Attempts").
		Description("Render fallback attempts per minute by outcome").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`sum(rate(gps_render_attempts_total{job="gamepass-scanner"}[5m])) by (outcome) * 60`,
			"{{outcome}}", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// RegionalPricing returns a timeseries panel showing how often regional
// pricing is detected.
func RegionalPricing() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Regional Pricing Detected").
		Description("Items resolved with regional pricing enabled, per minute").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(8).
		WithTarget(PromQuery(
			`sum(rate(gps_regional_pricing_detected_total{job="gamepass-scanner"}[5m])) * 60`,
			"items/min", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}
