package catalog

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/vibereader/vibereader-server/internal/cache"
	"github.com/vibereader/vibereader-server/internal/domain"
)

// Cached puts a cache in front of a Searcher.
// Cache failures are logged and treated as misses.
type Cached struct {
	next   Searcher
	cache  cache.Cache[[]domain.CatalogRecord]
	logger *slog.Logger
}

// NewCached wraps next with c.
func NewCached(next Searcher, c cache.Cache[[]domain.CatalogRecord], logger *slog.Logger) *Cached {
	return &Cached{next: next, cache: c, logger: logger}
}

// Source reports the wrapped searcher's source.
func (c *Cached) Source() domain.SourceSystem {
	return c.next.Source()
}

// completeSearcher reports whether a merged search heard from every backend.
type completeSearcher interface {
	SearchComplete(ctx context.Context, query string, limit int) ([]domain.CatalogRecord, bool, error)
}

// Search returns cached results when present, otherwise queries and caches.
// Empty results are not cached, nor are merges missing a failed backend.
func (c *Cached) Search(ctx context.Context, query string, limit int) ([]domain.CatalogRecord, error) {
	key := "search:" + strconv.Itoa(limit) + ":" + query

	if records, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("catalog cache read failed", "key", key, "error", err)
	} else if ok {
		return records, nil
	}

	records, complete, err := c.search(ctx, query, limit)
	if err != nil {
		return nil, err
	}

	if len(records) > 0 && complete {
		if err := c.cache.Set(ctx, key, records); err != nil {
			c.logger.Warn("catalog cache write failed", "key", key, "error", err)
		}
	}
	return records, nil
}

func (c *Cached) search(ctx context.Context, query string, limit int) ([]domain.CatalogRecord, bool, error) {
	if cs, ok := c.next.(completeSearcher); ok {
		return cs.SearchComplete(ctx, query, limit)
	}
	records, err := c.next.Search(ctx, query, limit)
	return records, true, err
}

// FetchByID returns a cached record when present, otherwise fetches and caches.
func (c *Cached) FetchByID(ctx context.Context, id string) (*domain.CatalogRecord, error) {
	key := "id:" + id

	if records, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn("catalog cache read failed", "key", key, "error", err)
	} else if ok && len(records) == 1 {
		return &records[0], nil
	}

	rec, err := c.next.FetchByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, []domain.CatalogRecord{*rec}); err != nil {
		c.logger.Warn("catalog cache write failed", "key", key, "error", err)
	}
	return rec, nil
}
