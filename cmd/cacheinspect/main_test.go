package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibereader/vibereader-server/internal/store"
)

func TestInspect(t *testing.T) {
	ctx := context.Background()
	s, err := store.New(filepath.Join(t.TempDir(), "cache.db"), nil)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set(ctx, "book:isbn:9780441172719", []byte(`{"title":"Dune"}`), time.Hour))
	require.NoError(t, s.Set(ctx, "catalog:dune", []byte(`[]`), time.Hour))
	require.NoError(t, s.Set(ctx, "catalog:old", []byte(`[]`), time.Minute))

	var buf bytes.Buffer
	require.NoError(t, inspect(ctx, &buf, s, time.Now().Add(30*time.Minute)))

	out := buf.String()
	assert.Contains(t, out, "book:isbn:9780441172719")
	assert.Contains(t, out, "book: 1 live, 0 expired")
	assert.Contains(t, out, "catalog: 1 live, 1 expired")
	assert.Contains(t, out, "Live entries: 2")
	assert.Contains(t, out, "Expired entries awaiting GC: 1")
	// Len uses badger's own clock, so the short-lived key still counts.
	assert.Contains(t, out, "Stored keys (all namespaces): 3")
}
