package cache

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/donaldgifford/gamepass-price-scanner/internal/metrics"
)

const (
	redisBackend  = "redis"
	scanBatchSize = 500
)

// Redis is a Cache backed by a Redis server, letting several scanner
// processes share one cache. Expiry is delegated to Redis key TTLs. Redis
// errors are logged and reported as misses; the cache never fails a caller.
type Redis struct {
	rdb    redis.UniversalClient
	prefix string
	ttl    time.Duration
	log    *slog.Logger
}

// RedisOption configures a Redis cache.
type RedisOption func(*Redis)

// WithPrefix sets the namespace prepended to every key.
func WithPrefix(prefix string) RedisOption {
	return func(r *Redis) {
		r.prefix = strings.Trim(prefix, ":")
	}
}

// WithLogger sets the logger used for Redis errors.
func WithLogger(l *slog.Logger) RedisOption {
	return func(r *Redis) {
		r.log = l
	}
}

// NewRedis creates a Redis-backed cache.
func NewRedis(rdb redis.UniversalClient, ttl time.Duration, opts ...RedisOption) *Redis {
	r := &Redis{
		rdb:    rdb,
		prefix: "gps:cache",
		ttl:    ttl,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Redis) key(k string) string {
	return r.prefix + ":" + k
}

// Get implements Cache.
func (r *Redis) Get(ctx context.Context, key string, bypass bool) ([]byte, bool) {
	if bypass || r.ttl <= 0 {
		metrics.CacheMissesTotal.WithLabelValues(redisBackend).Inc()
		return nil, false
	}

	val, err := r.rdb.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn("redis cache get failed", "key", key, "error", err)
		}
		metrics.CacheMissesTotal.WithLabelValues(redisBackend).Inc()
		return nil, false
	}

	metrics.CacheHitsTotal.WithLabelValues(redisBackend).Inc()
	return val, true
}

// Set implements Cache.
func (r *Redis) Set(ctx context.Context, key string, value []byte) {
	if r.ttl <= 0 {
		return
	}
	if err := r.rdb.Set(ctx, r.key(key), value, r.ttl).Err(); err != nil {
		r.log.Warn("redis cache set failed", "key", key, "error", err)
	}
}

// Invalidate implements Cache using SCAN so large keyspaces are not blocked.
func (r *Redis) Invalidate(ctx context.Context, substr string) int {
	pattern := r.prefix + ":*"
	if substr != "" {
		pattern = r.prefix + ":*" + escapeGlob(substr) + "*"
	}

	removed := 0
	iter := r.rdb.Scan(ctx, 0, pattern, scanBatchSize).Iterator()
	batch := make([]string, 0, scanBatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		n, err := r.rdb.Del(ctx, batch...).Result()
		if err != nil {
			r.log.Warn("redis cache invalidate failed", "pattern", pattern, "error", err)
		}
		removed += int(n)
		batch = batch[:0]
	}

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) >= scanBatchSize {
			flush()
		}
	}
	flush()

	if err := iter.Err(); err != nil {
		r.log.Warn("redis cache scan failed", "pattern", pattern, "error", err)
	}

	metrics.CacheEvictionsTotal.WithLabelValues(redisBackend).Add(float64(removed))
	return removed
}

// Len implements Cache.
func (r *Redis) Len(ctx context.Context) int {
	count := 0
	iter := r.rdb.Scan(ctx, 0, r.prefix+":*", scanBatchSize).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		r.log.Warn("redis cache scan failed", "error", err)
	}
	return count
}

// Ping verifies the Redis connection.
func (r *Redis) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

var globReplacer = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapeGlob(s string) string {
	return globReplacer.Replace(s)
}
