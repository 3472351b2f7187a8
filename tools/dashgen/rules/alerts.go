package rules

// AlertRules returns the gamepass-scanner operational alerts.
func AlertRules() PrometheusRule {
	return newPrometheusRule("gps-alerts", RuleGroup{
		Name: "gps-alerts",
		Rules: []Rule{
			alert("GpsDown",
				`absent(up{job="gamepass-scanner"})`, "2m", "critical",
				"Game-pass scanner is down",
				"The gamepass-scanner job has been absent for more than 2 minutes."),
			alert("GpsReadinessDown",
				`gps_readyz_up == 0`, "2m", "critical",
				"Game-pass scanner readiness check is failing",
				"The readiness check has been reporting not-ready for more than 2 minutes."),
			alert("GpsHighErrorRate",
				`gps:http_errors:rate5m / gps:http_requests:rate5m > 0.05`, "5m", "warning",
				"High HTTP error rate on the game-pass scanner",
				"More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes."),
			alert("GpsUpstreamThrottled",
				`gps:upstream_throttled:rate5m / gps:upstream_requests:rate5m > 0.25`, "10m", "warning",
				"Upstream is throttling the scanner",
				"More than 25% of upstream requests got 429 or 503 for 10 minutes. Lower roblox.rate_limit.per_second."),
			alert("GpsUpstreamExhausted",
				`increase(gps_upstream_exhausted_total[15m]) > 10`, "5m", "warning",
				"Upstream fetches are running out of retries",
				"More than 10 upstream fetches exhausted their attempts in 15 minutes."),
			alert("GpsScanItemFailures",
				`gps:scan_item_failures:rate5m / gps:scan_items:rate5m > 0.1`, "10m", "warning",
				"Batch scans are losing items",
				"More than 10% of scanned items failed to resolve over the last 10 minutes."),
			alert("GpsPrimaryCredentialFailing",
				`sum(increase(gps_resolutions_total{strategy=~"backup|anonymous|render"}[30m])) > 3 * sum(increase(gps_resolutions_total{strategy="primary"}[30m]))`,
				"15m", "warning",
				"Prices are mostly coming from fallback strategies",
				"Backup, anonymous or render strategies resolve far more items than the primary credential. The primary session may have expired."),
		},
	})
}
