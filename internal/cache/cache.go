// Package cache provides the TTL caches used for catalog lookups.
//
// Memory keeps values in process. Codec stores JSON-encoded values in any
// byte Backend, such as Redis (RedisBackend) or Badger (store.Store).
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long lookup results stay cached.
const DefaultTTL = 15 * time.Minute

// Cache is a keyed TTL cache. A miss is (zero, false, nil).
type Cache[V any] interface {
	Get(ctx context.Context, key string) (V, bool, error)
	Set(ctx context.Context, key string, value V) error
	Delete(ctx context.Context, key string) error
}

// Backend stores raw bytes with a per-entry TTL.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Pinger is implemented by backends that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}
