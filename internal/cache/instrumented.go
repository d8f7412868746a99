package cache

import (
	"context"

	"github.com/vibereader/vibereader-server/internal/metrics"
)

// Instrumented records hit, miss and error counts for a cache.
type Instrumented[V any] struct {
	Cache[V]
	name string
}

// WithMetrics wraps c so lookups are counted under name.
func WithMetrics[V any](name string, c Cache[V]) *Instrumented[V] {
	return &Instrumented[V]{Cache: c, name: name}
}

// Get delegates to the wrapped cache and records the result.
func (i *Instrumented[V]) Get(ctx context.Context, key string) (V, bool, error) {
	v, ok, err := i.Cache.Get(ctx, key)
	metrics.RecordCacheLookup(i.name, ok, err)
	return v, ok, err
}

// Ping checks the wrapped cache when it supports health checks.
func (i *Instrumented[V]) Ping(ctx context.Context) error {
	if p, ok := i.Cache.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
