// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Roblox    RobloxConfig    `yaml:"roblox"`
	Cache     CacheConfig     `yaml:"cache"`
	Resolver  ResolverConfig  `yaml:"resolver"`
	Render    RenderConfig    `yaml:"render"`
	Scanner   ScannerConfig   `yaml:"scanner"`
	Schedule  ScheduleConfig  `yaml:"schedule"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	// Cooldown is the minimum spacing between scan requests from one caller.
	Cooldown time.Duration `yaml:"cooldown"`
}

// DatabaseConfig defines PostgreSQL connection settings. Scan history is
// disabled when Host is empty.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// Enabled reports whether a database is configured.
func (d *DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode,
	)
}

// RobloxConfig defines upstream API settings.
type RobloxConfig struct {
	DetailsURL  string            `yaml:"details_url"`
	PageURL     string            `yaml:"page_url"`
	UserAgent   string            `yaml:"user_agent"`
	Timeout     time.Duration     `yaml:"timeout"`
	ProxyURL    string            `yaml:"proxy_url"`
	Credentials CredentialsConfig `yaml:"credentials"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	Retry       RetryConfig       `yaml:"retry"`
}

// CredentialsConfig lists the session tokens tried before anonymous access.
type CredentialsConfig struct {
	Primary string   `yaml:"primary"`
	Backups []string `yaml:"backups"`
}

// All returns the non-empty credentials, primary first.
func (c *CredentialsConfig) All() []string {
	out := make([]string, 0, 1+len(c.Backups))
	if c.Primary != "" {
		out = append(out, c.Primary)
	}
	for _, b := range c.Backups {
		if b != "" {
			out = append(out, b)
		}
	}
	return out
}

// RateLimitConfig defines the shared upstream token bucket.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// RetryConfig defines upstream retry behavior.
type RetryConfig struct {
	MaxAttempts    int           `yaml:"max_attempts"`
	BaseDelay      time.Duration `yaml:"base_delay"`
	ForbiddenDelay time.Duration `yaml:"forbidden_delay"`
}

// CacheConfig selects and tunes the response cache.
type CacheConfig struct {
	Backend string        `yaml:"backend"` // memory, redis
	TTL     time.Duration `yaml:"ttl"`
	Redis   RedisConfig   `yaml:"redis"`
}

// RedisConfig defines the shared cache server.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// ResolverConfig defines the price resolution policy.
type ResolverConfig struct {
	SpeedMode        string `yaml:"speed_mode"` // fast, turbo
	FastMode         *bool  `yaml:"fast_mode"`
	ForceRender      bool   `yaml:"force_render"`
	AutoRenderOnFail *bool  `yaml:"auto_render_on_fail"`
	// Sampling is none, anonymous or all. Empty picks a default for the
	// speed mode.
	Sampling string `yaml:"sampling"`
}

// RenderConfig defines the headless browser fallback.
type RenderConfig struct {
	Enabled    bool          `yaml:"enabled"`
	Headless   *bool         `yaml:"headless"`
	ChromePath string        `yaml:"chrome_path"`
	Timeout    time.Duration `yaml:"timeout"`
	Settle     time.Duration `yaml:"settle"`
}

// ScannerConfig defines batch pacing.
type ScannerConfig struct {
	WaveSize          int           `yaml:"wave_size"`
	FastConcurrency   int           `yaml:"fast_concurrency"`
	SlowConcurrency   int           `yaml:"slow_concurrency"`
	ThrottleThreshold int           `yaml:"throttle_threshold"`
	SlowWaveDelay     time.Duration `yaml:"slow_wave_delay"`
	SlowJitterMax     time.Duration `yaml:"slow_jitter_max"`
	FeeRate           float64       `yaml:"fee_rate"`
	MaxIDs            int           `yaml:"max_ids"`
}

// ScheduleConfig defines periodic watchlist rescans. Nothing is scheduled
// when the watchlist is empty.
type ScheduleConfig struct {
	Watchlist []string      `yaml:"watchlist"`
	Interval  time.Duration `yaml:"interval"`
	Timeout   time.Duration `yaml:"timeout"`
	Force     bool          `yaml:"force"`
}

// TelemetryConfig defines OpenTelemetry export. Export is disabled when
// Endpoint is empty.
type TelemetryConfig struct {
	Endpoint    string `yaml:"endpoint"`
	Insecure    bool   `yaml:"insecure"`
	ServiceName string `yaml:"service_name"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config data, applying defaults and validation.
func Parse(data []byte) (*Config, error) {
	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns a configuration with every default applied, for running
// without a config file.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyDatabaseDefaults(&cfg.Database)
	applyRobloxDefaults(&cfg.Roblox)
	applyCacheDefaults(&cfg.Cache)
	applyResolverDefaults(&cfg.Resolver)
	applyRenderDefaults(&cfg.Render)
	applyScannerDefaults(&cfg.Scanner)
	applyScheduleDefaults(&cfg.Schedule)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 2 * time.Minute
	}
	if s.Cooldown == 0 {
		s.Cooldown = 1500 * time.Millisecond
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}
}

func applyRobloxDefaults(r *RobloxConfig) {
	if r.DetailsURL == "" {
		r.DetailsURL = "https://apis.roblox.com/game-passes/v1/game-passes/{id}/details"
	}
	if r.PageURL == "" {
		r.PageURL = "https://www.roblox.com/game-pass/{id}"
	}
	if r.UserAgent == "" {
		r.UserAgent = "gamepass-price-scanner/1.0"
	}
	if r.Timeout == 0 {
		r.Timeout = 10 * time.Second
	}
	if r.RateLimit.PerSecond == 0 {
		r.RateLimit.PerSecond = 4.0
	}
	if r.RateLimit.Burst == 0 {
		r.RateLimit.Burst = 4
	}
	if r.Retry.MaxAttempts == 0 {
		r.Retry.MaxAttempts = 5
	}
	if r.Retry.BaseDelay == 0 {
		r.Retry.BaseDelay = 500 * time.Millisecond
	}
	if r.Retry.ForbiddenDelay == 0 {
		r.Retry.ForbiddenDelay = 300 * time.Millisecond
	}
}

func applyCacheDefaults(c *CacheConfig) {
	if c.Backend == "" {
		c.Backend = "memory"
	}
	if c.TTL == 0 {
		c.TTL = 60 * time.Second
	}
	if c.Redis.Prefix == "" {
		c.Redis.Prefix = "gps:cache"
	}
}

func applyResolverDefaults(r *ResolverConfig) {
	if r.SpeedMode == "" {
		r.SpeedMode = "fast"
	}
	if r.FastMode == nil {
		r.FastMode = boolPtr(true)
	}
	if r.AutoRenderOnFail == nil {
		r.AutoRenderOnFail = boolPtr(true)
	}
}

func applyRenderDefaults(r *RenderConfig) {
	if r.Headless == nil {
		r.Headless = boolPtr(true)
	}
	if r.Timeout == 0 {
		r.Timeout = 25 * time.Second
	}
	if r.Settle == 0 {
		r.Settle = 1500 * time.Millisecond
	}
}

func applyScannerDefaults(s *ScannerConfig) {
	if s.WaveSize == 0 {
		s.WaveSize = 10
	}
	if s.FastConcurrency == 0 {
		s.FastConcurrency = 6
	}
	if s.SlowConcurrency == 0 {
		s.SlowConcurrency = 3
	}
	if s.ThrottleThreshold == 0 {
		s.ThrottleThreshold = 11
	}
	if s.SlowWaveDelay == 0 {
		s.SlowWaveDelay = 800 * time.Millisecond
	}
	if s.SlowJitterMax == 0 {
		s.SlowJitterMax = 350 * time.Millisecond
	}
	if s.FeeRate == 0 {
		s.FeeRate = 0.30
	}
	if s.MaxIDs == 0 {
		s.MaxIDs = 25
	}
}

func applyScheduleDefaults(s *ScheduleConfig) {
	if s.Interval == 0 {
		s.Interval = 30 * time.Minute
	}
	if s.Timeout == 0 {
		s.Timeout = 10 * time.Minute
	}
}

func applyTelemetryDefaults(t *TelemetryConfig) {
	if t.ServiceName == "" {
		t.ServiceName = "gamepass-scanner"
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535 (got %d)", cfg.Server.Port))
	}

	if cfg.Database.Enabled() {
		if cfg.Database.Name == "" {
			errs = append(errs, errors.New("database.name is required when database.host is set"))
		}
		if cfg.Database.User == "" {
			errs = append(errs, errors.New("database.user is required when database.host is set"))
		}
	}

	if cfg.Roblox.RateLimit.PerSecond < 0 {
		errs = append(errs, errors.New("roblox.rate_limit.per_second must not be negative"))
	}
	if cfg.Roblox.RateLimit.Burst < 1 {
		errs = append(errs, errors.New("roblox.rate_limit.burst must be at least 1"))
	}
	if cfg.Roblox.Retry.MaxAttempts < 1 {
		errs = append(errs, errors.New("roblox.retry.max_attempts must be at least 1"))
	}
	if cfg.Roblox.ProxyURL != "" {
		if err := validateProxy(cfg.Roblox.ProxyURL); err != nil {
			errs = append(errs, err)
		}
	}

	switch cfg.Cache.Backend {
	case "memory":
	case "redis":
		if cfg.Cache.Redis.Addr == "" {
			errs = append(errs, errors.New("cache.redis.addr is required when backend is redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("cache.backend must be one of: memory, redis (got %q)", cfg.Cache.Backend))
	}

	switch cfg.Resolver.SpeedMode {
	case "fast", "turbo":
	default:
		errs = append(errs, fmt.Errorf("resolver.speed_mode must be one of: fast, turbo (got %q)", cfg.Resolver.SpeedMode))
	}
	switch cfg.Resolver.Sampling {
	case "", "none", "anonymous", "all":
	default:
		errs = append(errs, fmt.Errorf(
			"resolver.sampling must be one of: none, anonymous, all (got %q)",
			cfg.Resolver.Sampling,
		))
	}

	if cfg.Scanner.WaveSize < 1 || cfg.Scanner.FastConcurrency < 1 || cfg.Scanner.SlowConcurrency < 1 {
		errs = append(errs, errors.New("scanner wave_size and concurrency limits must be at least 1"))
	}
	if cfg.Scanner.FeeRate < 0 || cfg.Scanner.FeeRate >= 1 {
		errs = append(errs, fmt.Errorf("scanner.fee_rate must be in [0, 1) (got %g)", cfg.Scanner.FeeRate))
	}

	if len(cfg.Schedule.Watchlist) > 0 && cfg.Schedule.Interval < time.Minute {
		errs = append(errs, fmt.Errorf("schedule.interval must be at least 1m (got %s)", cfg.Schedule.Interval))
	}

	switch cfg.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be one of: text, json (got %q)", cfg.Logging.Format))
	}

	return errors.Join(errs...)
}

func validateProxy(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("roblox.proxy_url: %w", err)
	}
	switch u.Scheme {
	case "http", "https", "socks5", "socks5h":
		return nil
	default:
		return fmt.Errorf("roblox.proxy_url scheme must be http, https, socks5 or socks5h (got %q)", u.Scheme)
	}
}

func boolPtr(b bool) *bool {
	return &b
}
