package cache

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/donaldgifford/gamepass-price-scanner/internal/metrics"
)

const memoryBackend = "memory"

type entry struct {
	value    []byte
	storedAt time.Time
}

// Memory is an in-process Cache guarded by a single mutex. Expiry is lazy:
// stale entries are dropped when read, never by a background sweep.
type Memory struct {
	ttl     time.Duration
	nowFunc func() time.Time

	mu      sync.Mutex
	entries map[string]entry
}

// MemoryOption configures a Memory cache.
type MemoryOption func(*Memory)

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) MemoryOption {
	return func(m *Memory) {
		m.nowFunc = f
	}
}

// NewMemory creates an in-memory cache with the given TTL.
func NewMemory(ttl time.Duration, opts ...MemoryOption) *Memory {
	m := &Memory{
		ttl:     ttl,
		nowFunc: time.Now,
		entries: make(map[string]entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get implements Cache. The returned slice is a copy owned by the caller.
func (m *Memory) Get(_ context.Context, key string, bypass bool) ([]byte, bool) {
	if bypass || m.ttl <= 0 {
		metrics.CacheMissesTotal.WithLabelValues(memoryBackend).Inc()
		return nil, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ent, ok := m.entries[key]
	if !ok {
		metrics.CacheMissesTotal.WithLabelValues(memoryBackend).Inc()
		return nil, false
	}
	if m.nowFunc().Sub(ent.storedAt) >= m.ttl {
		delete(m.entries, key)
		metrics.CacheEvictionsTotal.WithLabelValues(memoryBackend).Inc()
		metrics.CacheMissesTotal.WithLabelValues(memoryBackend).Inc()
		return nil, false
	}

	metrics.CacheHitsTotal.WithLabelValues(memoryBackend).Inc()
	return bytes.Clone(ent.value), true
}

// Set implements Cache. The value is copied so callers may reuse their buffer.
func (m *Memory) Set(_ context.Context, key string, value []byte) {
	if m.ttl <= 0 {
		return
	}
	cp := make([]byte, len(value))
	copy(cp, value)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry{value: cp, storedAt: m.nowFunc()}
}

// Invalidate implements Cache.
func (m *Memory) Invalidate(_ context.Context, substr string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for k := range m.entries {
		if matches(k, substr) {
			delete(m.entries, k)
			removed++
		}
	}
	metrics.CacheEvictionsTotal.WithLabelValues(memoryBackend).Add(float64(removed))
	return removed
}

// Len implements Cache. It counts stored entries, including ones that have
// expired but not yet been read.
func (m *Memory) Len(_ context.Context) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
