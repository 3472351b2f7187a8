// Package metrics defines Prometheus metrics for gamepass-price-scanner.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gps"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	HTTPCooldownRejectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_cooldown_rejections_total",
		Help:      "Total number of API requests rejected by the per-caller cooldown.",
	})

	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "1 when the last /healthz check succeeded, 0 otherwise.",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "1 when the last /readyz check succeeded, 0 otherwise.",
	})
)

// Upstream API metrics.
var (
	UpstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total upstream API requests by response class.",
	}, []string{"status", "auth"})

	UpstreamRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_retries_total",
		Help:      "Total upstream retries by reason.",
	}, []string{"reason"})

	UpstreamExhaustedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_exhausted_total",
		Help:      "Total upstream fetches that gave up after the retry cap.",
	})

	RateGateWaitSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rate_gate_wait_seconds",
		Help:      "Time callers spent suspended in the global rate gate.",
		Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})

	RateGateTokens = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "rate_gate_tokens",
		Help:      "Tokens left in the global rate gate after the last debit.",
	})
)

// Cache metrics.
var (
	CacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_hits_total",
		Help:      "Total response cache hits.",
	}, []string{"backend"})

	CacheMissesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_misses_total",
		Help:      "Total response cache misses, including bypassed reads.",
	}, []string{"backend"})

	CacheEvictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_evictions_total",
		Help:      "Total entries removed by expiry or invalidation.",
	}, []string{"backend"})
)

// Resolution metrics.
var (
	ResolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resolutions_total",
		Help:      "Total price resolutions by the strategy that produced the price.",
	}, []string{"strategy"})

	RenderAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "render_attempts_total",
		Help:      "Total render-based extraction attempts by outcome.",
	}, []string{"outcome"})

	RegionalPricingDetectedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "regional_pricing_detected_total",
		Help:      "Total resolutions that flagged regional pricing.",
	})
)

// Scan metrics.
var (
	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "scan_duration_seconds",
		Help:      "Duration of batch scans in seconds.",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
	})

	ScanItemsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scan_items_total",
		Help:      "Total items submitted to batch scans.",
	})

	ScanItemsPricedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scan_items_priced_total",
		Help:      "Total scanned items that resolved to a price.",
	})

	ScanItemFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scan_item_failures_total",
		Help:      "Total per-item faults caught at the batch boundary.",
	})

	ScanSlowMode = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "scan_slow_mode",
		Help:      "Number of slow-mode batches currently running.",
	})

	ScheduledScansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scheduled_scans_total",
		Help:      "Total scheduled watchlist scans by result.",
	}, []string{"result"})
)
