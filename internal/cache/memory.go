package cache

import (
	"context"
	"sync"
	"time"
)

type memoryItem[V any] struct {
	value    V
	storedAt time.Time
}

// Memory is an in-process cache with a fixed TTL.
// Expired entries are dropped on read and by Sweep.
type Memory[V any] struct {
	mu    sync.Mutex
	items map[string]memoryItem[V]
	ttl   time.Duration
	now   func() time.Time
}

// NewMemory creates a memory cache. A non-positive ttl uses DefaultTTL.
func NewMemory[V any](ttl time.Duration) *Memory[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memory[V]{
		items: make(map[string]memoryItem[V]),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get returns the cached value if present and younger than the TTL.
func (m *Memory[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[key]
	if !ok {
		return zero, false, nil
	}
	if m.now().Sub(item.storedAt) >= m.ttl {
		delete(m.items, key)
		return zero, false, nil
	}
	return item.value, true, nil
}

// Set stores value under key, replacing any previous entry.
func (m *Memory[V]) Set(ctx context.Context, key string, value V) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = memoryItem[V]{value: value, storedAt: m.now()}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (m *Memory[V]) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// Len returns the number of stored entries, including expired ones not yet swept.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Sweep removes expired entries and returns how many were removed.
func (m *Memory[V]) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for key, item := range m.items {
		if now.Sub(item.storedAt) >= m.ttl {
			delete(m.items, key)
			removed++
		}
	}
	return removed
}

// StartJanitor sweeps every interval until ctx is cancelled.
func (m *Memory[V]) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = m.ttl
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Sweep()
			}
		}
	}()
}
