package main

import "errors"

// KnownMetrics is the set of metric names exported by gamepass-scanner plus
// recording rule names referenced in dashboards and alerts. Histogram series
// (_bucket, _sum, _count) are matched through their base name.
var KnownMetrics = map[string]bool{
	// HTTP metrics.
	"gps_http_request_duration_seconds":  true,
	"gps_http_requests_total":            true,
	"gps_http_cooldown_rejections_total": true,

	// Health metrics.
	"gps_healthz_up": true,
	"gps_readyz_up":  true,

	// Upstream metrics.
	"gps_upstream_requests_total":  true,
	"gps_upstream_retries_total":   true,
	"gps_upstream_exhausted_total": true,
	"gps_rate_gate_wait_seconds":   true,
	"gps_rate_gate_tokens":         true,

	// Cache metrics.
	"gps_cache_hits_total":      true,
	"gps_cache_misses_total":    true,
	"gps_cache_evictions_total": true,

	// Resolver metrics.
	"gps_resolutions_total":               true,
	"gps_render_attempts_total":           true,
	"gps_regional_pricing_detected_total": true,

	// Scanner metrics.
	"gps_scan_duration_seconds":    true,
	"gps_scan_items_total":         true,
	"gps_scan_items_priced_total":  true,
	"gps_scan_item_failures_total": true,
	"gps_scan_slow_mode":           true,
	"gps_scheduled_scans_total":    true,

	// Recording rules.
	"gps:http_requests:rate5m":      true,
	"gps:http_errors:rate5m":        true,
	"gps:upstream_requests:rate5m":  true,
	"gps:upstream_throttled:rate5m": true,
	"gps:cache_hit_ratio:rate5m":    true,
	"gps:scan_items:rate5m":         true,
	"gps:scan_item_failures:rate5m": true,

	// Standard Prometheus metrics referenced in dashboards.
	"up":                         true,
	"process_start_time_seconds": true,
}

// Config controls which artifacts the generator produces and where they go.
type Config struct {
	OutputDir        string
	DashboardEnabled bool
	RulesEnabled     bool
}

// DefaultConfig returns a Config that generates all artifacts into ../../deploy
// (relative to tools/dashgen/).
func DefaultConfig() Config {
	return Config{
		OutputDir:        "../../deploy",
		DashboardEnabled: true,
		RulesEnabled:     true,
	}
}

// Validate checks that the config is usable.
func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output directory must be set")
	}
	if !c.DashboardEnabled && !c.RulesEnabled {
		return errors.New("at least one of dashboard or rules must be enabled")
	}
	return nil
}
