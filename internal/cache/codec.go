package cache

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"time"
)

// Codec adapts a byte Backend to a typed Cache using JSON.
type Codec[V any] struct {
	backend Backend
	prefix  string
	ttl     time.Duration
}

// NewCodec creates a typed cache over backend. Keys are stored as prefix+key.
func NewCodec[V any](backend Backend, prefix string, ttl time.Duration) *Codec[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Codec[V]{backend: backend, prefix: prefix, ttl: ttl}
}

// Get decodes the stored value. Undecodable entries are reported as errors.
func (c *Codec[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V

	data, ok, err := c.backend.Get(ctx, c.prefix+key)
	if err != nil || !ok {
		return zero, false, err
	}

	var value V
	if err := json.Unmarshal(data, &value); err != nil {
		return zero, false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return value, true, nil
}

// Set encodes and stores value.
func (c *Codec[V]) Set(ctx context.Context, key string, value V) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cached %s: %w", key, err)
	}
	return c.backend.Set(ctx, c.prefix+key, data, c.ttl)
}

// Delete removes key from the backend.
func (c *Codec[V]) Delete(ctx context.Context, key string) error {
	return c.backend.Delete(ctx, c.prefix+key)
}

// Ping checks the backend when it supports health checks.
func (c *Codec[V]) Ping(ctx context.Context) error {
	if p, ok := c.backend.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
