package roblox

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/donaldgifford/gamepass-price-scanner/internal/metrics"
)

// minRateWait keeps a caller that is a hair short of a token from spinning.
const minRateWait = 5 * time.Millisecond

// RateLimiter is the process-wide token bucket in front of every upstream
// call, backed by a rate.Limiter that holds up to burst tokens and refills
// at perSecond tokens per second.
//
// A caller short of a token sleeps for the deficit while holding mu, so later
// callers queue behind it and the balance is only debited once it covers the
// call. A nil *RateLimiter never blocks.
type RateLimiter struct {
	mu        sync.Mutex
	limiter   *rate.Limiter
	nowFunc   func() time.Time
	sleepFunc func(ctx context.Context, d time.Duration) error
}

// RateLimiterOption configures the RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithRateLimiterNowFunc overrides the time function for testing.
func WithRateLimiterNowFunc(f func() time.Time) RateLimiterOption {
	return func(r *RateLimiter) {
		r.nowFunc = f
	}
}

// WithRateLimiterSleepFunc overrides how the limiter waits for refill.
func WithRateLimiterSleepFunc(f func(ctx context.Context, d time.Duration) error) RateLimiterOption {
	return func(r *RateLimiter) {
		r.sleepFunc = f
	}
}

// NewRateLimiter creates a full bucket with the given refill rate and burst
// size. A non-positive perSecond returns nil, which disables limiting.
func NewRateLimiter(perSecond float64, burst int, opts ...RateLimiterOption) *RateLimiter {
	if perSecond <= 0 {
		return nil
	}
	r := &RateLimiter{
		nowFunc:   time.Now,
		sleepFunc: sleepContext,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.limiter = rate.NewLimiter(rate.Limit(perSecond), max(1, burst))
	// Anchor the bucket to the injected clock so it starts full.
	r.limiter.SetBurstAt(r.nowFunc(), r.limiter.Burst())
	return r
}

// Wait blocks until a token is available and debits it. If ctx ends while
// waiting, Wait returns the context error and nothing is debited.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if r == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.nowFunc()
	if tokens := r.limiter.TokensAt(now); tokens < 1 {
		deficit := (1 - tokens) / float64(r.limiter.Limit())
		wait := max(time.Duration(math.Ceil(deficit*float64(time.Second))), minRateWait)

		if err := r.sleepFunc(ctx, wait); err != nil {
			return err
		}
		metrics.RateGateWaitSeconds.Observe(r.nowFunc().Sub(now).Seconds())
		now = r.nowFunc()
	}

	if !r.limiter.AllowN(now, 1) {
		// The sleep covered the deficit up to float rounding; take the token
		// anyway rather than sleeping a second time.
		r.limiter.ReserveN(now, 1)
	}

	metrics.RateGateTokens.Set(max(0, r.limiter.TokensAt(now)))
	return nil
}

// Tokens returns the current balance, never below zero.
func (r *RateLimiter) Tokens() float64 {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return max(0, r.limiter.TokensAt(r.nowFunc()))
}

// Burst returns the bucket capacity.
func (r *RateLimiter) Burst() int {
	if r == nil {
		return 0
	}
	return r.limiter.Burst()
}

// Rate returns the refill rate in tokens per second.
func (r *RateLimiter) Rate() float64 {
	if r == nil {
		return 0
	}
	return float64(r.limiter.Limit())
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
