// Package catalog searches public book catalogs and normalizes their records.
//
// Each backend (googlebooks, openlibrary) implements Searcher. Multi fans a
// query out to several backends and merges the results, and Cached puts a
// cache.Cache in front of any Searcher.
package catalog

import (
	"context"

	"github.com/vibereader/vibereader-server/internal/domain"
)

// Searcher is a book catalog backend.
type Searcher interface {
	// Source identifies the backend.
	Source() domain.SourceSystem

	// Search returns up to limit records for a free-text query.
	// No matches is an empty slice, not an error.
	Search(ctx context.Context, query string, limit int) ([]domain.CatalogRecord, error)

	// FetchByID returns a single record by its catalog ID.
	// Returns ErrNotFound (wrapped) when the ID is unknown.
	FetchByID(ctx context.Context, id string) (*domain.CatalogRecord, error)
}
