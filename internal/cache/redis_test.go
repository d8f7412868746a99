package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type book struct {
	Title     string   `json:"title"`
	Authors   []string `json:"authors"`
	PageCount int      `json:"pageCount"`
}

func setupRedis(t *testing.T) (*miniredis.Miniredis, *RedisBackend) {
	t.Helper()
	mr := miniredis.RunT(t)

	backend, err := NewRedisBackend(context.Background(), RedisConfig{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	return mr, backend
}

func TestRedisBackend_RoundTrip(t *testing.T) {
	ctx := context.Background()
	_, backend := setupRedis(t)

	_, ok, err := backend.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, backend.Set(ctx, "k", []byte("v"), time.Minute))
	data, ok, err := backend.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), data)

	require.NoError(t, backend.Delete(ctx, "k"))
	_, ok, err = backend.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisBackend_Expiry(t *testing.T) {
	ctx := context.Background()
	mr, backend := setupRedis(t)

	require.NoError(t, backend.Set(ctx, "k", []byte("v"), 15*time.Minute))
	assert.Equal(t, 15*time.Minute, mr.TTL("k"))

	mr.FastForward(16 * time.Minute)

	_, ok, err := backend.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisBackend_ConnectFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisBackend(context.Background(), RedisConfig{Addr: addr})
	assert.Error(t, err)
}

func TestCodec_OverRedis(t *testing.T) {
	ctx := context.Background()
	mr, backend := setupRedis(t)
	c := NewCodec[book](backend, "lookup:", time.Minute)

	want := book{Title: "Dune", Authors: []string{"Frank Herbert"}, PageCount: 412}
	require.NoError(t, c.Set(ctx, "isbn:9780441172719", want))
	assert.True(t, mr.Exists("lookup:isbn:9780441172719"))

	got, ok, err := c.Get(ctx, "isbn:9780441172719")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)

	require.NoError(t, c.Ping(ctx))
}

func TestCodec_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	mr, backend := setupRedis(t)
	require.NoError(t, mr.Set("lookup:bad", "{not json"))

	c := NewCodec[book](backend, "lookup:", time.Minute)
	_, ok, err := c.Get(ctx, "bad")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRedisBackend_FromClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	backend := NewRedisBackendFromClient(client)
	defer backend.Close()

	assert.NoError(t, backend.Ping(context.Background()))
}
