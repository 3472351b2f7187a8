package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/donaldgifford/gamepass-price-scanner/internal/metrics"
)

// CooldownConfig limits how often one caller may hit the guarded routes.
type CooldownConfig struct {
	// Interval is the minimum spacing between requests from one caller.
	Interval time.Duration
	// Paths lists the guarded route templates. Empty guards every route.
	Paths []string
	// IdleTTL drops a caller's limiter after this long without requests.
	IdleTTL time.Duration
	// KeyFunc identifies the caller. Defaults to the client IP.
	KeyFunc func(c echo.Context) string
	// NowFunc overrides the clock, for testing.
	NowFunc func() time.Time
}

type caller struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Cooldown returns Echo middleware that rejects a caller's request with 429
// when it arrives sooner than Interval after their previous accepted one.
func Cooldown(cfg CooldownConfig) echo.MiddlewareFunc {
	if cfg.Interval <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 10 * time.Minute
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(c echo.Context) string { return c.RealIP() }
	}
	if cfg.NowFunc == nil {
		cfg.NowFunc = time.Now
	}

	guarded := make(map[string]struct{}, len(cfg.Paths))
	for _, p := range cfg.Paths {
		guarded[p] = struct{}{}
	}

	var (
		mu        sync.Mutex
		callers   = make(map[string]*caller)
		lastSweep time.Time
	)

	allow := func(key string, now time.Time) (bool, time.Duration) {
		mu.Lock()
		defer mu.Unlock()

		if now.Sub(lastSweep) > cfg.IdleTTL {
			for k, cl := range callers {
				if now.Sub(cl.lastSeen) > cfg.IdleTTL {
					delete(callers, k)
				}
			}
			lastSweep = now
		}

		cl, ok := callers[key]
		if !ok {
			cl = &caller{limiter: rate.NewLimiter(rate.Every(cfg.Interval), 1)}
			callers[key] = cl
		}
		cl.lastSeen = now

		r := cl.limiter.ReserveN(now, 1)
		if d := r.DelayFrom(now); d > 0 {
			r.CancelAt(now)
			return false, d
		}
		return true, 0
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if len(guarded) > 0 {
				if _, ok := guarded[c.Path()]; !ok {
					return next(c)
				}
			}

			ok, wait := allow(cfg.KeyFunc(c), cfg.NowFunc())
			if !ok {
				metrics.HTTPCooldownRejectionsTotal.Inc()
				secs := int(math.Ceil(wait.Seconds()))
				c.Response().Header().Set("Retry-After", strconv.Itoa(max(secs, 1)))
				return c.JSON(http.StatusTooManyRequests, map[string]any{
					"title":  http.StatusText(http.StatusTooManyRequests),
					"status": http.StatusTooManyRequests,
					"detail": "slow down: wait " + wait.Round(time.Millisecond).String() + " between scans",
				})
			}
			return next(c)
		}
	}
}
