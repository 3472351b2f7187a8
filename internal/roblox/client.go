// Package roblox talks to the Roblox game-pass API: a process-wide rate
// limiter, a retrying JSON fetcher backed by the response cache, and the
// parsing of game-pass details.
package roblox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/donaldgifford/gamepass-price-scanner/internal/cache"
	"github.com/donaldgifford/gamepass-price-scanner/internal/metrics"
	domain "github.com/donaldgifford/gamepass-price-scanner/pkg/types"
)

const (
	DefaultDetailsURL = "https://apis.roblox.com/game-passes/v1/game-passes/{id}/details"
	DefaultPageURL    = "https://www.roblox.com/game-pass/{id}"
	DefaultUserAgent  = "gamepass-price-scanner/1.0"

	// CookieName carries the session credential on upstream requests.
	CookieName = ".ROBLOSECURITY"

	defaultMaxAttempts    = 5
	defaultBaseDelay      = 500 * time.Millisecond
	defaultForbiddenDelay = 300 * time.Millisecond

	minRetryAfter = 200 * time.Millisecond
	maxRetryAfter = 10 * time.Second
	maxBackoff    = 10 * time.Second

	maxBodyBytes = 4 << 20

	cacheOp = "http"
)

var (
	// ErrUnauthorized is reported when the upstream rejects a credential.
	ErrUnauthorized = errors.New("upstream rejected credential")
	// ErrExhausted is reported when every retry attempt failed.
	ErrExhausted = errors.New("upstream retries exhausted")
)

var tracer = otel.Tracer("github.com/donaldgifford/gamepass-price-scanner/internal/roblox")

// Client fetches JSON from the upstream API. Every request passes through the
// shared RateLimiter, and successful responses are cached per credential.
type Client struct {
	detailsURL     string
	pageURL        string
	userAgent      string
	client         *http.Client
	rateLimiter    *RateLimiter
	cache          cache.Cache
	maxAttempts    int
	baseDelay      time.Duration
	forbiddenDelay time.Duration
	log            *slog.Logger
	nowFunc        func() time.Time
	sleepFunc      func(ctx context.Context, d time.Duration) error
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithDetailsURL overrides the details endpoint. "{id}" is replaced with the
// item ID.
func WithDetailsURL(u string) ClientOption {
	return func(c *Client) {
		c.detailsURL = u
	}
}

// WithPageURL overrides the public item page URL template.
func WithPageURL(u string) ClientOption {
	return func(c *Client) {
		c.pageURL = u
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.client = hc
	}
}

// WithRateLimiter injects the shared rate limiter.
func WithRateLimiter(r *RateLimiter) ClientOption {
	return func(c *Client) {
		c.rateLimiter = r
	}
}

// WithCache injects the response cache.
func WithCache(rc cache.Cache) ClientOption {
	return func(c *Client) {
		c.cache = rc
	}
}

// WithRetry sets the attempt cap and the base exponential backoff delay.
func WithRetry(maxAttempts int, baseDelay time.Duration) ClientOption {
	return func(c *Client) {
		if maxAttempts > 0 {
			c.maxAttempts = maxAttempts
		}
		if baseDelay > 0 {
			c.baseDelay = baseDelay
		}
	}
}

// WithForbiddenDelay sets the pause before retrying a 403 anonymously.
func WithForbiddenDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.forbiddenDelay = d
	}
}

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		c.log = l
	}
}

// WithClientNowFunc overrides the time function used to read HTTP-date
// Retry-After values.
func WithClientNowFunc(f func() time.Time) ClientOption {
	return func(c *Client) {
		c.nowFunc = f
	}
}

// WithSleepFunc overrides how the client waits between retries.
func WithSleepFunc(f func(ctx context.Context, d time.Duration) error) ClientOption {
	return func(c *Client) {
		c.sleepFunc = f
	}
}

// NewClient creates an upstream client. Without WithCache every fetch goes
// to the network; without WithRateLimiter requests are not throttled.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		detailsURL:     DefaultDetailsURL,
		pageURL:        DefaultPageURL,
		userAgent:      DefaultUserAgent,
		client:         &http.Client{Timeout: 20 * time.Second},
		maxAttempts:    defaultMaxAttempts,
		baseDelay:      defaultBaseDelay,
		forbiddenDelay: defaultForbiddenDelay,
		log:            slog.Default(),
		nowFunc:        time.Now,
		sleepFunc:      sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DetailsURL returns the details endpoint for an item.
func (c *Client) DetailsURL(id domain.ItemID) string {
	return strings.ReplaceAll(c.detailsURL, "{id}", id.String())
}

// PageURL returns the public page for an item.
func (c *Client) PageURL(id domain.ItemID) string {
	return strings.ReplaceAll(c.pageURL, "{id}", id.String())
}

// RateLimiter returns the limiter shared by this client.
func (c *Client) RateLimiter() *RateLimiter {
	return c.rateLimiter
}

// FetchJSON performs a GET and returns the JSON body. It never fails: any
// upstream problem is logged and reported as ok == false so callers can move
// on to their next strategy.
func (c *Client) FetchJSON(
	ctx context.Context,
	url string,
	cred domain.Credential,
	force bool,
) (json.RawMessage, bool) {
	body, err := c.fetch(ctx, url, cred, force)
	if err != nil {
		c.log.Debug("upstream fetch yielded no result",
			"url", url, "auth", cache.AuthSegment(cred), "error", err)
		return nil, false
	}
	return body, true
}

// FetchDetails fetches and parses the details payload for an item.
func (c *Client) FetchDetails(
	ctx context.Context,
	id domain.ItemID,
	cred domain.Credential,
	force bool,
) (*domain.PriceDetails, bool) {
	raw, ok := c.FetchJSON(ctx, c.DetailsURL(id), cred, force)
	if !ok {
		return nil, false
	}
	d, err := ParseDetails(id, raw)
	if err != nil {
		c.log.Warn("unusable details payload", "item_id", id, "error", err)
		return nil, false
	}
	return d, true
}

func (c *Client) fetch(
	ctx context.Context,
	url string,
	cred domain.Credential,
	force bool,
) (json.RawMessage, error) {
	ctx, span := tracer.Start(ctx, "roblox.FetchJSON", trace.WithAttributes(
		attribute.String("http.url", url),
		attribute.String("auth", cache.AuthSegment(cred)),
		attribute.Bool("force", force),
	))
	defer span.End()

	key := cache.Key(cacheOp, cred, url)
	if c.cache != nil {
		if v, ok := c.cache.Get(ctx, key, force); ok {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			return v, nil
		}
	}

	body, servedAs, err := c.fetchWithRetry(ctx, url, cred)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if c.cache != nil {
		// A forbidden credential is answered anonymously, so that body belongs
		// in the anonymous slot.
		c.cache.Set(ctx, cache.Key(cacheOp, servedAs, url), body)
	}
	return body, nil
}

func (c *Client) fetchWithRetry(
	ctx context.Context,
	url string,
	cred domain.Credential,
) (json.RawMessage, domain.Credential, error) {
	current := cred
	downgraded := false

	for attempt := range c.maxAttempts {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, current, fmt.Errorf("rate limiter wait: %w", err)
		}

		status, header, body, err := c.do(ctx, url, current)
		auth := authLabel(current)

		var delay time.Duration
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, current, ctx.Err()
			}
			metrics.UpstreamRequestsTotal.WithLabelValues("error", auth).Inc()
			metrics.UpstreamRetriesTotal.WithLabelValues("transport").Inc()
			c.log.Warn("upstream request failed", "url", url, "attempt", attempt+1, "error", err)
			delay = c.backoff(attempt)

		case status == http.StatusOK:
			metrics.UpstreamRequestsTotal.WithLabelValues(strconv.Itoa(status), auth).Inc()
			if !json.Valid(body) {
				return nil, current, fmt.Errorf("malformed JSON from %s", url)
			}
			return body, current, nil

		case status == http.StatusUnauthorized:
			metrics.UpstreamRequestsTotal.WithLabelValues(strconv.Itoa(status), auth).Inc()
			return nil, current, ErrUnauthorized

		case status == http.StatusForbidden:
			metrics.UpstreamRequestsTotal.WithLabelValues(strconv.Itoa(status), auth).Inc()
			if current.IsAnonymous() || downgraded {
				return nil, current, fmt.Errorf("forbidden (status %d)", status)
			}
			c.log.Warn("credential forbidden, retrying anonymously", "url", url)
			metrics.UpstreamRetriesTotal.WithLabelValues("forbidden").Inc()
			current = domain.Anonymous
			downgraded = true
			delay = c.forbiddenDelay

		case status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable:
			metrics.UpstreamRequestsTotal.WithLabelValues(strconv.Itoa(status), auth).Inc()
			metrics.UpstreamRetriesTotal.WithLabelValues("throttled").Inc()
			if d, ok := parseRetryAfter(header, c.nowFunc()); ok {
				delay = min(max(d, minRetryAfter), maxRetryAfter)
			} else {
				delay = c.backoff(attempt)
			}
			c.log.Warn("upstream throttled", "url", url, "status", status,
				"attempt", attempt+1, "retry_in", delay)

		case status == http.StatusInternalServerError ||
			status == http.StatusBadGateway ||
			status == http.StatusGatewayTimeout:
			metrics.UpstreamRequestsTotal.WithLabelValues(strconv.Itoa(status), auth).Inc()
			metrics.UpstreamRetriesTotal.WithLabelValues("server_error").Inc()
			c.log.Warn("upstream server error", "url", url, "status", status, "attempt", attempt+1)
			delay = c.backoff(attempt)

		default:
			metrics.UpstreamRequestsTotal.WithLabelValues(strconv.Itoa(status), auth).Inc()
			return nil, current, fmt.Errorf("unexpected upstream status %d", status)
		}

		if attempt == c.maxAttempts-1 {
			break
		}
		if err := c.sleepFunc(ctx, delay); err != nil {
			return nil, current, err
		}
	}

	metrics.UpstreamExhaustedTotal.Inc()
	c.log.Warn("upstream retries exhausted", "url", url, "attempts", c.maxAttempts)
	return nil, current, ErrExhausted
}

func (c *Client) do(
	ctx context.Context,
	url string,
	cred domain.Credential,
) (int, http.Header, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if !cred.IsAnonymous() {
		req.AddCookie(&http.Cookie{Name: CookieName, Value: string(cred)})
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, nil, fmt.Errorf("reading response body: %w", err)
	}
	return resp.StatusCode, resp.Header, body, nil
}

// backoff returns baseDelay doubled per attempt, capped at maxBackoff.
func (c *Client) backoff(attempt int) time.Duration {
	d := c.baseDelay << min(attempt, 16)
	if d <= 0 || d > maxBackoff {
		return maxBackoff
	}
	return d
}

// parseRetryAfter reads a Retry-After header given either as seconds
// (fractions allowed) or as an HTTP date. A valid header that asks for no
// wait, such as "0" or a past date, reports a zero duration with ok set.
func parseRetryAfter(h http.Header, now time.Time) (time.Duration, bool) {
	v := strings.TrimSpace(h.Get("Retry-After"))
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		if math.IsNaN(secs) || math.IsInf(secs, 0) {
			return 0, false
		}
		secs = math.Max(0, math.Min(secs, maxRetryAfter.Seconds()))
		return time.Duration(secs * float64(time.Second)), true
	}
	if t, err := http.ParseTime(v); err == nil {
		return max(0, t.Sub(now)), true
	}
	return 0, false
}

func authLabel(cred domain.Credential) string {
	if cred.IsAnonymous() {
		return "anonymous"
	}
	return "credential"
}
