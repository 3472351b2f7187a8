package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/donaldgifford/gamepass-price-scanner/internal/api/handlers"
	"github.com/donaldgifford/gamepass-price-scanner/internal/api/middleware"
	"github.com/donaldgifford/gamepass-price-scanner/internal/engine"
	"github.com/donaldgifford/gamepass-price-scanner/internal/telemetry"
	"github.com/donaldgifford/gamepass-price-scanner/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server and watchlist scheduler",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	tp, err := telemetry.Setup(ctx, telemetry.Config{
		Endpoint:       cfg.Telemetry.Endpoint,
		Insecure:       cfg.Telemetry.Insecure,
		ServiceName:    cfg.Telemetry.ServiceName,
		ServiceVersion: Version,
	}, log)
	if err != nil {
		return fmt.Errorf("setting up telemetry: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(sctx); err != nil {
			log.Warn("telemetry shutdown failed", "error", err)
		}
	}()

	a, err := buildApp(ctx, cfg, log, true)
	if err != nil {
		return err
	}
	defer a.Close()

	var sched *engine.Scheduler
	if len(cfg.Schedule.Watchlist) > 0 {
		ids, err := watchlistIDs(cfg.Schedule.Watchlist)
		if err != nil {
			return err
		}
		sched, err = engine.NewScheduler(
			a.scanner, ids, cfg.Schedule.Interval, cfg.Schedule.Timeout, cfg.Schedule.Force,
			log.With("component", "scheduler"),
		)
		if err != nil {
			return fmt.Errorf("creating scheduler: %w", err)
		}
		sched.Start()
		log.Info("watchlist scheduler started",
			"items", len(ids),
			"interval", cfg.Schedule.Interval,
			"next_run", sched.NextRun(),
		)
	}

	e := newServer(a, sched)
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info("starting server",
		"addr", addr,
		"version", Version,
		"cache", cfg.Cache.Backend,
		"history", cfg.Database.Enabled(),
		"renderer", a.resolver.RendererAvailable(),
		"telemetry", tp.Enabled(),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	log.Info("shutting down server")

	if sched != nil {
		<-sched.Stop().Done()
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// newServer builds the Echo instance with middleware and every route.
func newServer(a *app, sched *engine.Scheduler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(
		middleware.RequestLog(a.log),
		middleware.Recovery(a.log),
		middleware.Metrics(),
		middleware.Cooldown(middleware.CooldownConfig{
			Interval: a.cfg.Server.Cooldown,
			Paths:    []string{"/api/v1/scan"},
		}),
	)

	health := handlers.NewHealthHandler(a.checks...)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := humaecho.New(e, huma.DefaultConfig("gamepass-price-scanner API", Version))
	handlers.RegisterPriceRoutes(api, handlers.NewPricesHandler(a.resolver, a.cfg.Scanner.FeeRate))
	handlers.RegisterScanRoutes(api, handlers.NewScanHandler(a.scanner, a.cfg.Scanner.MaxIDs))
	handlers.RegisterCacheRoutes(api, handlers.NewCacheHandler(a.cache))
	handlers.RegisterHistoryRoutes(api, handlers.NewHistoryHandler(a.store))
	handlers.RegisterDiagRoutes(api, handlers.NewDiagHandler(a.diagnostics(sched)))

	return e
}
