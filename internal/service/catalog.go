package service

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"github.com/vibereader/vibereader-server/internal/catalog"
	"github.com/vibereader/vibereader-server/internal/domain"
	domainerrors "github.com/vibereader/vibereader-server/internal/errors"
)

// openLibraryWork matches a bare Open Library work key such as "OL45804W".
var openLibraryWork = regexp.MustCompile(`^OL\d+W$`)

// CatalogService serves single-record lookups across the catalog backends.
type CatalogService struct {
	searcher catalog.Searcher
	logger   *slog.Logger
}

// NewCatalogService creates a catalog detail service over searcher.
func NewCatalogService(searcher catalog.Searcher, logger *slog.Logger) *CatalogService {
	return &CatalogService{searcher: searcher, logger: logger}
}

// Book returns the record for id. Bare Open Library work keys are routed
// to Open Library; any other ID is treated as a Google Books volume ID.
func (s *CatalogService) Book(ctx context.Context, id string) (*domain.CatalogRecord, error) {
	id = catalogID(id)
	if id == "" {
		return nil, domainerrors.Validation("book id is required")
	}

	rec, err := s.searcher.FetchByID(ctx, id)
	switch {
	case err == nil:
		return rec, nil
	case errors.Is(err, catalog.ErrNotFound):
		return nil, domainerrors.NotFound("Book not found")
	case errors.Is(err, catalog.ErrBadRequest):
		return nil, domainerrors.Validation("invalid book id")
	case errors.Is(err, catalog.ErrRateLimited):
		return nil, domainerrors.RateLimited("Catalog rate limit reached. Please try again later.").WithCause(err)
	case ctx.Err() != nil:
		return nil, ctx.Err()
	}

	s.logger.Warn("catalog detail lookup failed", "id", id, "error", err)
	return nil, domainerrors.Upstream(err, "Failed to fetch book details")
}

func catalogID(raw string) string {
	id := strings.TrimSpace(raw)
	if openLibraryWork.MatchString(id) {
		return "/works/" + id
	}
	return id
}
