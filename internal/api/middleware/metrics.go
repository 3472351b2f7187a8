// Package middleware provides Echo middleware for the gamepass-price-scanner
// API.
package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/donaldgifford/gamepass-price-scanner/internal/metrics"
)

// unmatchedPath labels requests that hit no registered route, so scanners
// probing random URLs cannot blow up label cardinality.
const unmatchedPath = "unmatched"

// healthGauges maps health check paths to their up/down gauge. These paths are
// excluded from request histograms.
var healthGauges = map[string]prometheus.Gauge{
	"/healthz": metrics.HealthzUp,
	"/readyz":  metrics.ReadyzUp,
}

// Metrics returns Echo middleware that records request duration and status
// by route template. Health check paths update up/down gauges instead, and /metrics
// scrapes are not recorded.
func Metrics() echo.MiddlewareFunc {
	var (
		once  sync.Once
		known = make(map[string]struct{})
	)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Routes are fixed once serving starts.
			once.Do(func() {
				for _, r := range c.Echo().Routes() {
					known[r.Path] = struct{}{}
				}
			})

			path := c.Request().URL.Path
			if path == "/metrics" {
				return next(c)
			}
			if gauge, ok := healthGauges[path]; ok {
				err := next(c)
				if s := c.Response().Status; s >= 200 && s < 300 && err == nil {
					gauge.Set(1)
				} else {
					gauge.Set(0)
				}
				return err
			}

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if _, ok := known[route]; !ok {
				route = unmatchedPath
			}
			status := strconv.Itoa(c.Response().Status)
			method := c.Request().Method

			metrics.HTTPRequestDuration.
				WithLabelValues(method, route, status).
				Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.
				WithLabelValues(method, route, status).
				Inc()

			return nil
		}
	}
}
