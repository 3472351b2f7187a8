// Package cache provides the time-boxed response cache shared by every
// upstream call. Values are opaque byte slices (usually JSON) so the same
// contract can be served from process memory or from Redis.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	domain "github.com/donaldgifford/gamepass-price-scanner/pkg/types"
)

// Cache is a key/value store whose entries expire after a fixed TTL.
//
// Get with bypass set always misses but leaves any stored entry in place, so
// a forced refresh never reads stale data yet may still write a fresh value.
// A non-positive TTL disables caching entirely.
type Cache interface {
	Get(ctx context.Context, key string, bypass bool) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
	// Invalidate removes every entry whose key contains substr and returns the
	// number removed. An empty substr clears the cache.
	Invalidate(ctx context.Context, substr string) int
	Len(ctx context.Context) int
}

// Key builds a cache key from an operation name, the credential used, and an
// identifier. Anonymous requests share the "anon" segment; keyed requests get
// a short fingerprint of the credential so results fetched under different
// credentials never collide and tokens never appear in keys.
func Key(op string, cred domain.Credential, id string) string {
	return op + ":" + AuthSegment(cred) + ":" + id
}

// AuthSegment returns the authentication portion of a cache key.
func AuthSegment(cred domain.Credential) string {
	if cred.IsAnonymous() {
		return "anon"
	}
	sum := sha256.Sum256([]byte(cred))
	return "auth-" + hex.EncodeToString(sum[:4])
}

func matches(key, substr string) bool {
	return substr == "" || strings.Contains(key, substr)
}
