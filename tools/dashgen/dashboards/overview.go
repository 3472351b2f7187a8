// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/gamepass-price-scanner/tools/dashgen/panels"
)

// BuildOverview constructs the GPS Overview dashboard with all metric rows.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("GPS Overview").
		Uid("gps-overview").
		Tags([]string{"gps", "gamepass-scanner"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	// Row 1: Overview.
	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.RateGateTokens()).
		WithPanel(panels.UptimeStat()))

	// Row 2: HTTP.
	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()).
		WithPanel(panels.CooldownRejections()))

	// Row 3: Upstream.
	b.WithRow(dashboard.NewRowBuilder("Upstream").
		WithPanel(panels.UpstreamRequests()).
		WithPanel(panels.UpstreamRetries()).
		WithPanel(panels.RateGateWait()).
		WithPanel(panels.ExhaustedFetches()))

	// Row 4: Cache.
	b.WithRow(dashboard.NewRowBuilder("Cache").
		WithPanel(panels.CacheHitRatio()).
		WithPanel(panels.CacheTraffic()))

	// Row 5: Resolution.
	b.WithRow(dashboard.NewRowBuilder("Resolution").
		WithPanel(panels.ResolutionsByStrategy()).
		WithPanel(panels.RenderAttempts()).
		WithPanel(panels.RegionalPricing()))

	// Row 6: Scanning.
	b.WithRow(dashboard.NewRowBuilder("Scanning").
		WithPanel(panels.ScanItemsRate()).
		WithPanel(panels.ScanFailures()).
		WithPanel(panels.ScanDuration()).
		WithPanel(panels.SlowModeScans()).
		WithPanel(panels.ScheduledScans()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
