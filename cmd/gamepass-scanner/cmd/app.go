package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/donaldgifford/gamepass-price-scanner/internal/api/handlers"
	"github.com/donaldgifford/gamepass-price-scanner/internal/cache"
	"github.com/donaldgifford/gamepass-price-scanner/internal/config"
	"github.com/donaldgifford/gamepass-price-scanner/internal/engine"
	"github.com/donaldgifford/gamepass-price-scanner/internal/render"
	"github.com/donaldgifford/gamepass-price-scanner/internal/resolver"
	"github.com/donaldgifford/gamepass-price-scanner/internal/roblox"
	"github.com/donaldgifford/gamepass-price-scanner/internal/store"
	"github.com/donaldgifford/gamepass-price-scanner/pkg/pricing"
	domain "github.com/donaldgifford/gamepass-price-scanner/pkg/types"
)

// app holds the assembled engine shared by serve and the local commands.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	cache    cache.Cache
	client   *roblox.Client
	renderer render.Renderer
	resolver *resolver.Resolver
	store    store.Store
	scanner  *engine.Scanner
	checks   []handlers.Check

	closers []func()
}

// buildApp wires the engine from cfg. withStore connects the database when
// one is configured; local one-shot commands get a NoOpStore instead.
func buildApp(ctx context.Context, cfg *config.Config, log *slog.Logger, withStore bool) (*app, error) {
	a := &app{cfg: cfg, log: log}

	if err := a.buildCache(ctx); err != nil {
		a.Close()
		return nil, err
	}

	httpClient, err := roblox.NewHTTPClient(cfg.Roblox.Timeout, cfg.Roblox.ProxyURL)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("building upstream transport: %w", err)
	}

	a.client = roblox.NewClient(
		roblox.WithDetailsURL(cfg.Roblox.DetailsURL),
		roblox.WithPageURL(cfg.Roblox.PageURL),
		roblox.WithUserAgent(cfg.Roblox.UserAgent),
		roblox.WithHTTPClient(httpClient),
		roblox.WithRateLimiter(roblox.NewRateLimiter(cfg.Roblox.RateLimit.PerSecond, cfg.Roblox.RateLimit.Burst)),
		roblox.WithCache(a.cache),
		roblox.WithRetry(cfg.Roblox.Retry.MaxAttempts, cfg.Roblox.Retry.BaseDelay),
		roblox.WithForbiddenDelay(cfg.Roblox.Retry.ForbiddenDelay),
		roblox.WithLogger(log.With("component", "roblox")),
	)

	a.buildRenderer()

	policy, err := resolverPolicy(&cfg.Resolver)
	if err != nil {
		a.Close()
		return nil, err
	}

	creds := cfg.Roblox.Credentials.All()
	credentials := make([]domain.Credential, 0, len(creds))
	for _, c := range creds {
		credentials = append(credentials, domain.Credential(c))
	}

	a.resolver = resolver.New(a.client,
		resolver.WithRenderer(a.renderer),
		resolver.WithCache(a.cache),
		resolver.WithCredentials(credentials...),
		resolver.WithPolicy(policy),
		resolver.WithLogger(log.With("component", "resolver")),
	)

	if withStore {
		if err := a.buildStore(ctx); err != nil {
			a.Close()
			return nil, err
		}
	} else {
		a.store = store.NewNoOpStore(log.With("component", "store"))
	}

	a.scanner = engine.NewScanner(a.resolver,
		engine.WithScannerLogger(log.With("component", "scanner")),
		engine.WithScanConfig(scanConfig(&cfg.Scanner)),
		engine.WithStore(a.store),
	)

	return a, nil
}

func (a *app) buildCache(ctx context.Context) error {
	switch a.cfg.Cache.Backend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     a.cfg.Cache.Redis.Addr,
			Password: a.cfg.Cache.Redis.Password,
			DB:       a.cfg.Cache.Redis.DB,
		})
		a.closers = append(a.closers, func() { _ = rdb.Close() })

		rc := cache.NewRedis(rdb, a.cfg.Cache.TTL,
			cache.WithPrefix(a.cfg.Cache.Redis.Prefix),
			cache.WithLogger(a.log.With("component", "cache")),
		)
		if err := rc.Ping(ctx); err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		a.cache = rc
		a.checks = append(a.checks, handlers.Check{Name: "cache", Pinger: rc})
	default:
		a.cache = cache.NewMemory(a.cfg.Cache.TTL)
	}
	return nil
}

func (a *app) buildRenderer() {
	rc := &a.cfg.Render
	opts := []render.ChromeOption{
		render.WithPageURL(a.cfg.Roblox.PageURL),
		render.WithExecPath(rc.ChromePath),
		render.WithHeadless(rc.Headless == nil || *rc.Headless),
		render.WithTimeout(rc.Timeout),
		render.WithSettle(rc.Settle),
		render.WithUserAgent(a.cfg.Roblox.UserAgent),
		render.WithLogger(a.log.With("component", "render")),
	}
	if creds := a.cfg.Roblox.Credentials.All(); len(creds) > 0 {
		opts = append(opts, render.WithCredential(domain.Credential(creds[0])))
	}

	a.renderer = render.New(rc.Enabled, opts...)
	if c, ok := a.renderer.(*render.Chrome); ok {
		a.closers = append(a.closers, c.Close)
	}
}

func (a *app) buildStore(ctx context.Context) error {
	if !a.cfg.Database.Enabled() {
		a.store = store.NewNoOpStore(a.log.With("component", "store"))
		return nil
	}

	dsn := fmt.Sprintf("%s pool_max_conns=%d", a.cfg.Database.DSN(), a.cfg.Database.PoolSize)
	pg, err := store.NewPostgresStore(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	a.closers = append(a.closers, pg.Close)

	if err := pg.Migrate(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	a.store = pg
	a.checks = append([]handlers.Check{{Name: "database", Pinger: pg}}, a.checks...)
	return nil
}

// Close releases connections and browsers in reverse order of creation.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// diagnostics reports the engine's live configuration and state.
func (a *app) diagnostics(sched *engine.Scheduler) handlers.DiagnosticsFunc {
	return func(ctx context.Context) handlers.Diagnostics {
		p := a.resolver.Policy()
		sc := a.scanner.Config()
		rl := a.client.RateLimiter()

		d := handlers.Diagnostics{
			CacheEntries:      a.cache.Len(ctx),
			CacheBackend:      a.cfg.Cache.Backend,
			RatePerSecond:     rl.Rate(),
			RateBurst:         rl.Burst(),
			RateTokens:        rl.Tokens(),
			SpeedMode:         p.SpeedMode,
			FastMode:          p.FastMode,
			ForceRender:       p.ForceRender,
			AutoRenderOnFail:  p.AutoRenderOnFail,
			RendererAvailable: a.resolver.RendererAvailable(),
			Sampling:          string(p.Sampling),
			Credentials:       len(a.cfg.Roblox.Credentials.All()),
			FastConcurrency:   sc.FastConcurrency,
			SlowConcurrency:   sc.SlowConcurrency,
			ThrottleThreshold: sc.ThrottleThreshold,
			WatchlistSize:     len(a.cfg.Schedule.Watchlist),
		}
		if sched != nil {
			if next := sched.NextRun(); !next.IsZero() {
				d.NextScheduledScan = next.UTC().Format(time.RFC3339)
			}
		}
		return d
	}
}

func resolverPolicy(rc *config.ResolverConfig) (resolver.Policy, error) {
	sampling, err := resolver.ParseSampling(rc.Sampling, rc.SpeedMode)
	if err != nil {
		return resolver.Policy{}, err
	}
	return resolver.Policy{
		SpeedMode:        rc.SpeedMode,
		FastMode:         rc.FastMode == nil || *rc.FastMode,
		ForceRender:      rc.ForceRender,
		AutoRenderOnFail: rc.AutoRenderOnFail == nil || *rc.AutoRenderOnFail,
		Sampling:         sampling,
	}, nil
}

func scanConfig(sc *config.ScannerConfig) engine.ScanConfig {
	return engine.ScanConfig{
		WaveSize:          sc.WaveSize,
		FastConcurrency:   sc.FastConcurrency,
		SlowConcurrency:   sc.SlowConcurrency,
		ThrottleThreshold: sc.ThrottleThreshold,
		SlowWaveDelay:     sc.SlowWaveDelay,
		SlowJitterMax:     sc.SlowJitterMax,
		FeeRate:           sc.FeeRate,
	}
}

// watchlistIDs normalizes configured watchlist entries, which may be IDs or
// item URLs.
func watchlistIDs(entries []string) ([]domain.ItemID, error) {
	ids := make([]domain.ItemID, 0, len(entries))
	var errs []error
	for _, e := range entries {
		id, ok := pricing.ExtractItemID(e)
		if !ok {
			errs = append(errs, fmt.Errorf("watchlist entry %q is not an item id", e))
			continue
		}
		ids = append(ids, id)
	}
	return ids, errors.Join(errs...)
}
