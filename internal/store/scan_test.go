package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan_PrefixAndOrder(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "book:isbn:2", []byte(`{"title":"B"}`), time.Hour))
	require.NoError(t, s.Set(ctx, "book:isbn:1", []byte(`{"title":"A"}`), time.Hour))
	require.NoError(t, s.Set(ctx, "catalog:dune", []byte(`[]`), time.Hour))

	var got []Entry
	require.NoError(t, s.Scan(ctx, "book:", func(e Entry) error {
		got = append(got, e)
		return nil
	}))

	require.Len(t, got, 2)
	assert.Equal(t, "book:isbn:1", got[0].Key)
	assert.Equal(t, "book:isbn:2", got[1].Key)
	assert.Equal(t, len(`{"title":"A"}`), got[0].Size)
	assert.True(t, got[0].FetchedAt.Equal(now))
	assert.False(t, got[0].Expired(now))
	assert.True(t, got[0].Expired(now.Add(time.Hour)))
}

func TestScan_StopsOnCallbackError(t *testing.T) {
	ctx := context.Background()
	s := setupTestStore(t)

	require.NoError(t, s.Set(ctx, "book:a", []byte(`1`), time.Hour))
	require.NoError(t, s.Set(ctx, "book:b", []byte(`2`), time.Hour))

	stop := errors.New("stop")
	calls := 0
	err := s.Scan(ctx, "", func(Entry) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestOpenReadOnly(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	s, err := New(path, nil)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "book:isbn:1", []byte(`{}`), time.Hour))
	require.NoError(t, s.Close())

	ro, err := OpenReadOnly(path, nil)
	require.NoError(t, err)
	defer ro.Close()

	n, err := ro.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
