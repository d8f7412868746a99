package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibereader/vibereader-server/internal/cache"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := New(filepath.Join(t.TempDir(), "cache.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestCache_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	_, ok, err := s.Get(ctx, "isbn:9780441172719")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "isbn:9780441172719", []byte(`{"title":"Dune"}`), time.Minute))

	data, ok, err := s.Get(ctx, "isbn:9780441172719")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"title":"Dune"}`, string(data))

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, s.Delete(ctx, "isbn:9780441172719"))
	require.NoError(t, s.Delete(ctx, "isbn:9780441172719"), "delete is idempotent")

	_, ok, err = s.Get(ctx, "isbn:9780441172719")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_ExpiredEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "search:dune", []byte(`[]`), 15*time.Minute))

	now = now.Add(14 * time.Minute)
	_, ok, err := s.Get(ctx, "search:dune")
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok, err = s.Get(ctx, "search:dune")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCache_CancelledContext(t *testing.T) {
	s := setupTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.Set(ctx, "k", nil, time.Minute), context.Canceled)
	assert.ErrorIs(t, s.Delete(ctx, "k"), context.Canceled)
}

func TestStore_Ping(t *testing.T) {
	s := setupTestStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestStore_AsTypedCache(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	type details struct {
		Title     string `json:"title"`
		PageCount int    `json:"pageCount"`
	}

	var c cache.Cache[details] = cache.NewCodec[details](s, "lookup:", time.Minute)
	require.NoError(t, c.Set(ctx, "isbn:1", details{Title: "Dune", PageCount: 412}))

	got, ok, err := c.Get(ctx, "isbn:1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, details{Title: "Dune", PageCount: 412}, got)
}
