package store

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// Entry describes a stored cache entry without its payload.
type Entry struct {
	Key       string
	Size      int
	FetchedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the entry is past its expiry at now.
func (e Entry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// OpenReadOnly opens an existing database without taking the write lock,
// so it can be inspected while the server is running.
func OpenReadOnly(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db read-only: %w", err)
	}
	return &Store{db: db, logger: logger, now: time.Now}, nil
}

// Scan calls fn for every cache entry whose key starts with prefix, in key order.
// Keys passed to fn have the internal storage prefix removed.
func (s *Store) Scan(ctx context.Context, prefix string, fn func(Entry) error) error {
	full := []byte(cachePrefix + prefix)

	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = full
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(full); it.ValidForPrefix(full); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			item := it.Item()
			key := strings.TrimPrefix(string(item.Key()), cachePrefix)

			var entry cachedEntry
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			}); err != nil {
				return fmt.Errorf("decode entry %s: %w", key, err)
			}

			if err := fn(Entry{
				Key:       key,
				Size:      len(entry.Data),
				FetchedAt: entry.FetchedAt,
				ExpiresAt: entry.ExpiresAt,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}
