package rules

// RecordingRules returns the pre-computed rates shared by the dashboard and
// the alerts.
func RecordingRules() PrometheusRule {
	return newPrometheusRule("gps-recording-rules", RuleGroup{
		Name: "gps-recording",
		Rules: []Rule{
			record("gps:http_requests:rate5m", `sum(rate(gps_http_requests_total[5m]))`),
			record("gps:http_errors:rate5m", `sum(rate(gps_http_requests_total{status=~"5.."}[5m]))`),
			record("gps:upstream_requests:rate5m", `sum(rate(gps_upstream_requests_total[5m]))`),
			record("gps:upstream_throttled:rate5m", `sum(rate(gps_upstream_requests_total{status=~"429|503"}[5m]))`),
			record("gps:cache_hit_ratio:rate5m",
				`sum(rate(gps_cache_hits_total[5m])) / (sum(rate(gps_cache_hits_total[5m])) + sum(rate(gps_cache_misses_total[5m])))`),
			record("gps:scan_items:rate5m", `sum(rate(gps_scan_items_total[5m]))`),
			record("gps:scan_item_failures:rate5m", `sum(rate(gps_scan_item_failures_total[5m]))`),
		},
	})
}

func record(name, expr string) Rule {
	return Rule{Record: name, Expr: expr}
}
