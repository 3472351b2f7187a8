package render

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/donaldgifford/gamepass-price-scanner/internal/metrics"
	domain "github.com/donaldgifford/gamepass-price-scanner/pkg/types"
)

const (
	defaultPageURL   = "https://www.roblox.com/game-pass/{id}"
	defaultTimeout   = 30 * time.Second
	defaultSettle    = time.Second
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
	cookieDomain     = ".roblox.com"
)

var browserNames = []string{
	"headless-shell",
	"chromium",
	"chromium-browser",
	"google-chrome",
	"google-chrome-stable",
}

// Chrome extracts prices with chromedp. One browser process is started
// lazily and shared; every extraction opens its own tab.
type Chrome struct {
	pageURL    string
	execPath   string
	headless   bool
	timeout    time.Duration
	settle     time.Duration
	userAgent  string
	credential domain.Credential
	strategies []Strategy
	log        *slog.Logger

	once        sync.Once
	available   bool
	mu          sync.Mutex
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// ChromeOption configures Chrome.
type ChromeOption func(*Chrome)

// WithPageURL sets the item page template; "{id}" is replaced by the item ID.
func WithPageURL(u string) ChromeOption {
	return func(c *Chrome) {
		c.pageURL = u
	}
}

// WithExecPath pins the browser binary instead of searching PATH.
func WithExecPath(p string) ChromeOption {
	return func(c *Chrome) {
		c.execPath = p
	}
}

// WithHeadless toggles headless mode.
func WithHeadless(h bool) ChromeOption {
	return func(c *Chrome) {
		c.headless = h
	}
}

// WithTimeout bounds a single extraction.
func WithTimeout(d time.Duration) ChromeOption {
	return func(c *Chrome) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithSettle sets how long to let client-side rendering finish after the body
// is ready.
func WithSettle(d time.Duration) ChromeOption {
	return func(c *Chrome) {
		c.settle = d
	}
}

// WithUserAgent sets the browser user agent.
func WithUserAgent(ua string) ChromeOption {
	return func(c *Chrome) {
		c.userAgent = ua
	}
}

// WithCredential injects a session cookie before loading the page.
func WithCredential(cred domain.Credential) ChromeOption {
	return func(c *Chrome) {
		c.credential = cred
	}
}

// WithStrategies replaces the selector strategies.
func WithStrategies(s []Strategy) ChromeOption {
	return func(c *Chrome) {
		c.strategies = s
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ChromeOption {
	return func(c *Chrome) {
		c.log = l
	}
}

// NewChrome creates a chromedp-backed Renderer. No browser is started until
// the first extraction.
func NewChrome(opts ...ChromeOption) *Chrome {
	c := &Chrome{
		pageURL:    defaultPageURL,
		headless:   true,
		timeout:    defaultTimeout,
		settle:     defaultSettle,
		userAgent:  defaultUserAgent,
		strategies: DefaultStrategies,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// New returns a Chrome renderer when enabled and a browser is installed,
// otherwise Unavailable.
func New(enabled bool, opts ...ChromeOption) Renderer {
	if !enabled {
		return Unavailable{}
	}
	c := NewChrome(opts...)
	if !c.Available() {
		c.log.Info("no headless browser found, render fallback disabled")
		return Unavailable{}
	}
	return c
}

// Available implements Renderer by looking for a browser binary.
func (c *Chrome) Available() bool {
	c.once.Do(func() {
		if c.execPath != "" {
			_, err := exec.LookPath(c.execPath)
			c.available = err == nil
			return
		}
		for _, name := range browserNames {
			if p, err := exec.LookPath(name); err == nil {
				c.execPath = p
				c.available = true
				return
			}
		}
	})
	return c.available
}

// ExtractPrice implements Renderer.
func (c *Chrome) ExtractPrice(ctx context.Context, id domain.ItemID) (*int, error) {
	if !c.Available() {
		metrics.RenderAttemptsTotal.WithLabelValues("unavailable").Inc()
		return nil, ErrUnavailable
	}

	tabCtx, cancel := chromedp.NewContext(c.allocator())
	defer cancel()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, c.timeout)
	defer cancelTimeout()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	url := strings.ReplaceAll(c.pageURL, "{id}", id.String())

	var (
		foundJSON string
		body      string
	)
	err := chromedp.Run(tabCtx,
		c.setCookie(),
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(c.settle),
		chromedp.Evaluate(collectScript(c.strategies), &foundJSON),
		chromedp.Text("body", &body, chromedp.ByQuery),
	)
	if err != nil {
		metrics.RenderAttemptsTotal.WithLabelValues("error").Inc()
		c.log.Warn("render extraction failed", "item_id", id, "error", err)
		return nil, fmt.Errorf("rendering %s: %w", url, err)
	}

	found := make(map[string][]string)
	if err := json.Unmarshal([]byte(foundJSON), &found); err != nil {
		c.log.Debug("selector results unreadable", "item_id", id, "error", err)
	}

	price, strategy := PickPrice(c.strategies, found, body)
	if price == nil {
		metrics.RenderAttemptsTotal.WithLabelValues("no_price").Inc()
		return nil, ErrNoPrice
	}

	metrics.RenderAttemptsTotal.WithLabelValues("price").Inc()
	c.log.Debug("rendered price", "item_id", id, "price", *price, "strategy", strategy)
	return price, nil
}

// Close shuts down the shared browser process.
func (c *Chrome) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.allocCancel != nil {
		c.allocCancel()
		c.allocCtx, c.allocCancel = nil, nil
	}
}

func (c *Chrome) allocator() context.Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.allocCtx == nil {
		c.allocCtx, c.allocCancel = chromedp.NewExecAllocator(context.Background(), c.allocatorOptions()...)
	}
	return c.allocCtx
}

func (c *Chrome) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", c.headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(c.userAgent),
	)
	if c.execPath != "" {
		opts = append(opts, chromedp.ExecPath(c.execPath))
	}
	return opts
}

func (c *Chrome) setCookie() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		if c.credential.IsAnonymous() {
			return nil
		}
		err := network.SetCookies([]*network.CookieParam{{
			Name:     ".ROBLOSECURITY",
			Value:    string(c.credential),
			Domain:   cookieDomain,
			Path:     "/",
			Secure:   true,
			HTTPOnly: true,
		}}).Do(ctx)
		if err != nil {
			return fmt.Errorf("setting session cookie: %w", err)
		}
		return nil
	})
}

// collectScript returns JS that maps every selector to the visible text of
// its matches, serialized as JSON.
func collectScript(strategies []Strategy) string {
	sels := make([]string, 0, len(strategies))
	for _, s := range strategies {
		sels = append(sels, s.Selector)
	}
	encoded, _ := json.Marshal(sels)
	return fmt.Sprintf(`(function() {
	const sels = %s;
	const out = {};
	for (const s of sels) {
		try {
			out[s] = Array.from(document.querySelectorAll(s))
				.map(e => (e.innerText || e.textContent || "").trim())
				.filter(Boolean);
		} catch (e) {
			out[s] = [];
		}
	}
	return JSON.stringify(out);
})()`, encoded)
}
