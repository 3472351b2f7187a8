package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// CacheHitRatio returns a stat panel showing the share of cache lookups
// served from the cache.
func CacheHitRatio() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Cache Hit Ratio").
		Description("Share of cache lookups that hit, over 5 minutes").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(6).
		WithTarget(PromQuery(`gps:cache_hit_ratio:rate5m * 100`, "", "A")).
		Unit("percent").
		Min(0).
		Max(100).
		Thresholds(ThresholdsRedGreen(50)).
		ColorScheme(ColorSchemeThresholds()).
		ColorMode(common.BigValueColorModeBackground).
		GraphMode(common.BigValueGraphModeArea)
}

// CacheTraffic returns a timeseries panel showing hits, misses and evictions
// per backend.
func CacheTraffic() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Cache Traffic").
		Description("Cache hits, misses and evictions per second").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(18).
		WithTarget(PromQuery(
			`sum(rate(gps_cache_hits_total{job="gamepass-scanner"}[5m])) by (backend)`,
			"hits {{backend}}", "A",
		)).
		WithTarget(PromQuery(
			`sum(rate(gps_cache_misses_total{job="gamepass-scanner"}[5m])) by (backend)`,
			"misses {{backend}}", "B",
		)).
		WithTarget(PromQuery(
			`sum(rate(gps_cache_evictions_total{job="gamepass-scanner"}[5m])) by (backend)`,
			"evictions {{backend}}", "C",
		)).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}
