package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		envVars   map[string]string
		wantErr   string
		checkFunc func(t *testing.T, cfg *Config)
	}{
		{
			name: "empty file uses defaults",
			yaml: ``,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "0.0.0.0", cfg.Server.Host)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 2*time.Minute, cfg.Server.WriteTimeout)
				assert.Equal(t, 1500*time.Millisecond, cfg.Server.Cooldown)
				assert.False(t, cfg.Database.Enabled())
				assert.Equal(t, 5432, cfg.Database.Port)
				assert.InDelta(t, 4.0, cfg.Roblox.RateLimit.PerSecond, 0)
				assert.Equal(t, 4, cfg.Roblox.RateLimit.Burst)
				assert.Equal(t, 5, cfg.Roblox.Retry.MaxAttempts)
				assert.Equal(t, 500*time.Millisecond, cfg.Roblox.Retry.BaseDelay)
				assert.Equal(t, 300*time.Millisecond, cfg.Roblox.Retry.ForbiddenDelay)
				assert.Equal(t, "memory", cfg.Cache.Backend)
				assert.Equal(t, 60*time.Second, cfg.Cache.TTL)
				assert.Equal(t, "fast", cfg.Resolver.SpeedMode)
				assert.True(t, *cfg.Resolver.FastMode)
				assert.True(t, *cfg.Resolver.AutoRenderOnFail)
				assert.Empty(t, cfg.Resolver.Sampling)
				assert.False(t, cfg.Render.Enabled)
				assert.True(t, *cfg.Render.Headless)
				assert.Equal(t, 10, cfg.Scanner.WaveSize)
				assert.Equal(t, 6, cfg.Scanner.FastConcurrency)
				assert.Equal(t, 3, cfg.Scanner.SlowConcurrency)
				assert.Equal(t, 11, cfg.Scanner.ThrottleThreshold)
				assert.Equal(t, 800*time.Millisecond, cfg.Scanner.SlowWaveDelay)
				assert.Equal(t, 350*time.Millisecond, cfg.Scanner.SlowJitterMax)
				assert.InDelta(t, 0.30, cfg.Scanner.FeeRate, 1e-9)
				assert.Equal(t, 25, cfg.Scanner.MaxIDs)
				assert.Equal(t, "gamepass-scanner", cfg.Telemetry.ServiceName)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "text", cfg.Logging.Format)
			},
		},
		{
			name: "explicit values kept",
			yaml: `
resolver:
  speed_mode: turbo
  fast_mode: false
  auto_render_on_fail: false
  sampling: anonymous
cache:
  backend: redis
  ttl: 5m
  redis:
    addr: localhost:6379
scanner:
  fast_concurrency: 12
schedule:
  watchlist: ["1", "2"]
  interval: 1h
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "turbo", cfg.Resolver.SpeedMode)
				assert.False(t, *cfg.Resolver.FastMode)
				assert.False(t, *cfg.Resolver.AutoRenderOnFail)
				assert.Equal(t, "anonymous", cfg.Resolver.Sampling)
				assert.Equal(t, "redis", cfg.Cache.Backend)
				assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
				assert.Equal(t, "gps:cache", cfg.Cache.Redis.Prefix)
				assert.Equal(t, 12, cfg.Scanner.FastConcurrency)
				assert.Equal(t, []string{"1", "2"}, cfg.Schedule.Watchlist)
				assert.Equal(t, time.Hour, cfg.Schedule.Interval)
			},
		},
		{
			name: "env var substitution",
			yaml: `
roblox:
  credentials:
    primary: ${TEST_GPS_PRIMARY}
    backups:
      - ${TEST_GPS_BACKUP}
      - ""
`,
			envVars: map[string]string{
				"TEST_GPS_PRIMARY": "cookie-a",
				"TEST_GPS_BACKUP":  "cookie-b",
			},
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "cookie-a", cfg.Roblox.Credentials.Primary)
				assert.Equal(t, []string{"cookie-a", "cookie-b"}, cfg.Roblox.Credentials.All())
			},
		},
		{
			name: "database requires name and user",
			yaml: `
database:
  host: localhost
`,
			wantErr: "database.name is required",
		},
		{
			name: "redis backend requires addr",
			yaml: `
cache:
  backend: redis
`,
			wantErr: "cache.redis.addr is required",
		},
		{
			name: "unknown cache backend",
			yaml: `
cache:
  backend: memcached
`,
			wantErr: "cache.backend must be one of",
		},
		{
			name: "unknown speed mode",
			yaml: `
resolver:
  speed_mode: ludicrous
`,
			wantErr: "resolver.speed_mode must be one of",
		},
		{
			name: "unknown sampling",
			yaml: `
resolver:
  sampling: some
`,
			wantErr: "resolver.sampling must be one of",
		},
		{
			name: "bad proxy scheme",
			yaml: `
roblox:
  proxy_url: ftp://proxy:21
`,
			wantErr: "roblox.proxy_url scheme",
		},
		{
			name: "fee rate out of range",
			yaml: `
scanner:
  fee_rate: 1.5
`,
			wantErr: "scanner.fee_rate must be in",
		},
		{
			name: "schedule interval too short",
			yaml: `
schedule:
  watchlist: ["1"]
  interval: 10s
`,
			wantErr: "schedule.interval must be at least 1m",
		},
		{
			name: "bad logging format",
			yaml: `
logging:
  format: xml
`,
			wantErr: "logging.format must be one of",
		},
		{
			name: "multiple errors joined",
			yaml: `
server:
  port: 70000
cache:
  backend: nope
`,
			wantErr: "server.port must be between",
		},
		{
			name:    "invalid yaml",
			yaml:    "server: [",
			wantErr: "parsing config YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Only parallelize tests that don't modify env vars.
			if len(tt.envVars) == 0 {
				t.Parallel()
			}

			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))

			cfg, err := Load(path)

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, cfg)

			if tt.checkFunc != nil {
				tt.checkFunc(t, cfg)
			}
		})
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()

	_, err := Load("/nonexistent/path/config.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestDefault_Valid(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, validate(cfg))
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Parallel()

	d := DatabaseConfig{
		Host:     "db.local",
		Port:     5433,
		Name:     "prices",
		User:     "scanner",
		Password: "secret",
		SSLMode:  "require",
	}
	assert.Equal(t,
		"host=db.local port=5433 dbname=prices user=scanner password=secret sslmode=require",
		d.DSN(),
	)
	assert.True(t, d.Enabled())
}
