package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/vibereader/vibereader-server/internal/domain"
	"github.com/vibereader/vibereader-server/internal/metrics"
)

// Multi searches several backends as one.
// Backend order is rank order: records from the first backend come first.
type Multi struct {
	backends []Searcher
	logger   *slog.Logger
}

// NewMulti creates a searcher over backends, in priority order.
func NewMulti(logger *slog.Logger, backends ...Searcher) *Multi {
	return &Multi{backends: backends, logger: logger}
}

// Source reports the first backend's source.
func (m *Multi) Source() domain.SourceSystem {
	if len(m.backends) == 0 {
		return ""
	}
	return m.backends[0].Source()
}

// Backends returns the configured backends.
func (m *Multi) Backends() []Searcher {
	return m.backends
}

// Search queries every backend concurrently and merges the results.
// With more than one backend each is asked for limit/2 records (at least 1).
// A failing backend contributes nothing; its error is logged, not returned.
func (m *Multi) Search(ctx context.Context, query string, limit int) ([]domain.CatalogRecord, error) {
	records, _, err := m.SearchComplete(ctx, query, limit)
	return records, err
}

// SearchComplete is Search that also reports whether every backend answered.
// A false complete means the merge is missing at least one backend.
func (m *Multi) SearchComplete(ctx context.Context, query string, limit int) (records []domain.CatalogRecord, complete bool, err error) {
	if strings.TrimSpace(query) == "" || limit <= 0 || len(m.backends) == 0 {
		return []domain.CatalogRecord{}, true, nil
	}

	perBackend := limit
	if len(m.backends) > 1 {
		perBackend = max(1, limit/2)
	}

	results := make([][]domain.CatalogRecord, len(m.backends))
	var failed atomic.Int32
	var wg sync.WaitGroup
	for i, b := range m.backends {
		wg.Go(func() {
			records, err := b.Search(ctx, query, perBackend)
			metrics.RecordCatalogCall(string(b.Source()), err, len(records))
			if err != nil {
				m.logger.Warn("catalog search failed",
					"source", b.Source(),
					"query", query,
					"error", err,
				)
				failed.Add(1)
				return
			}
			results[i] = records
		})
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	return Merge(limit, results...), failed.Load() == 0, nil
}

// Merge concatenates record lists in order, keeping the first record per
// dedup key, and truncates to limit.
func Merge(limit int, lists ...[]domain.CatalogRecord) []domain.CatalogRecord {
	if limit <= 0 {
		return []domain.CatalogRecord{}
	}
	seen := make(map[string]bool)
	merged := make([]domain.CatalogRecord, 0, limit)
	for _, list := range lists {
		for _, r := range list {
			if len(merged) == limit {
				return merged
			}
			key := r.Key()
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, r)
		}
	}
	return merged
}

// FetchByID routes Open Library work IDs ("/works/...") to Open Library and
// everything else to Google Books.
func (m *Multi) FetchByID(ctx context.Context, id string) (*domain.CatalogRecord, error) {
	want := domain.SourceGoogleBooks
	if strings.HasPrefix(id, "/works/") {
		want = domain.SourceOpenLibrary
	}

	for _, b := range m.backends {
		if b.Source() == want {
			rec, err := b.FetchByID(ctx, id)
			metrics.RecordCatalogCall(string(want), err, 1)
			return rec, err
		}
	}
	return nil, WrapError("fetch", want, id, fmt.Errorf("%w: backend not configured", ErrNotFound))
}
