package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/vibereader/vibereader-server/internal/cache"
	"github.com/vibereader/vibereader-server/internal/catalog"
	"github.com/vibereader/vibereader-server/internal/catalog/googlebooks"
	"github.com/vibereader/vibereader-server/internal/domain"
	domainerrors "github.com/vibereader/vibereader-server/internal/errors"
)

// BookLookup is the catalog surface the edge lookups need.
// Implemented by *googlebooks.Client.
type BookLookup interface {
	HasKey() bool
	SearchISBN(ctx context.Context, isbn string) (*domain.CatalogRecord, error)
	SearchTitleAuthor(ctx context.Context, title, author string) (*domain.CatalogRecord, error)
}

// LookupResult is a single book plus whether it came from cache.
type LookupResult struct {
	Book   domain.BookDetails
	Cached bool
}

// BookService serves the ISBN and title/author lookups with caching.
type BookService struct {
	client BookLookup
	cache  cache.Cache[domain.BookDetails]
	logger *slog.Logger
}

// NewBookService creates a new book lookup service.
func NewBookService(client BookLookup, c cache.Cache[domain.BookDetails], logger *slog.Logger) *BookService {
	return &BookService{
		client: client,
		cache:  c,
		logger: logger,
	}
}

// LookupISBN returns the first Google Books match for an ISBN.
func (s *BookService) LookupISBN(ctx context.Context, isbn string) (*LookupResult, error) {
	isbn = strings.TrimSpace(isbn)
	if isbn == "" {
		return nil, domainerrors.Validation("isbn is required")
	}

	return s.lookup(ctx, "isbn:"+isbn, func() (*domain.CatalogRecord, error) {
		return s.client.SearchISBN(ctx, isbn)
	})
}

// LookupTitleAuthor returns the first Google Books match for a title and/or author.
func (s *BookService) LookupTitleAuthor(ctx context.Context, title, author string) (*LookupResult, error) {
	title, author = strings.TrimSpace(title), strings.TrimSpace(author)
	if title == "" && author == "" {
		return nil, domainerrors.Validation("Either title or author parameter is required")
	}

	return s.lookup(ctx, "search:"+googlebooks.TitleAuthorQuery(title, author), func() (*domain.CatalogRecord, error) {
		return s.client.SearchTitleAuthor(ctx, title, author)
	})
}

func (s *BookService) lookup(ctx context.Context, key string, fetch func() (*domain.CatalogRecord, error)) (*LookupResult, error) {
	if !s.client.HasKey() {
		return nil, domainerrors.ConfigurationAbsent("Google Books API key not configured")
	}

	// Check cache first
	book, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("cache lookup failed",
			"error", err,
			"key", key,
		)
	}
	if ok {
		s.logger.Debug("cache hit for book", "key", key)
		return &LookupResult{Book: book, Cached: true}, nil
	}

	rec, err := fetch()
	if err != nil {
		if domainerrors.Is(err, catalog.ErrNotFound) {
			return nil, domainerrors.NotFound("No books found")
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		s.logger.Warn("google books lookup failed",
			"error", err,
			"key", key,
		)
		return nil, domainerrors.Upstream(err, "Failed to fetch from Google Books API")
	}

	book = rec.Details()
	if err := s.cache.Set(ctx, key, book); err != nil {
		s.logger.Warn("failed to cache book",
			"error", err,
			"key", key,
		)
	}

	return &LookupResult{Book: book, Cached: false}, nil
}
