package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/vibereader/vibereader-server/internal/domain"
	"github.com/vibereader/vibereader-server/internal/service"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "lookupByISBN",
		Method:      http.MethodGet,
		Path:        "/isbn/{isbn}",
		Summary:     "Look up a book by ISBN",
		Description: "Returns the first Google Books match for an ISBN. Descriptions are Markdown and covers are https. Results are cached for 15 minutes.",
		Tags:        []string{"Books"},
	}, s.handleLookupISBN)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchBook",
		Method:      http.MethodGet,
		Path:        "/search",
		Summary:     "Look up a book by title and author",
		Description: "Returns the first Google Books match for a title and/or author. At least one is required. Descriptions are Markdown and covers are https.",
		Tags:        []string{"Books"},
	}, s.handleSearchBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCatalogBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get catalog book",
		Description: "Returns one catalog record. Open Library work keys (OL…W) go to Open Library, other IDs to Google Books.",
		Tags:        []string{"Books"},
	}, s.handleGetCatalogBook)
}

// === DTOs ===

// LookupISBNInput contains parameters for an ISBN lookup.
type LookupISBNInput struct {
	ISBN string `path:"isbn" doc:"ISBN-10 or ISBN-13"`
}

// SearchBookInput contains parameters for a title/author lookup.
type SearchBookInput struct {
	Title  string `query:"title" doc:"Book title"`
	Author string `query:"author" doc:"Author name"`
}

// BookEnvelope is the lookup response body.
type BookEnvelope struct {
	OK     bool               `json:"ok" doc:"True on success"`
	Book   domain.BookDetails `json:"book" doc:"The matched book"`
	Cached bool               `json:"cached" doc:"Whether the result was served from cache"`
}

// BookOutput wraps the lookup response for Huma.
type BookOutput struct {
	Body BookEnvelope
}

// GetCatalogBookInput contains parameters for a catalog detail lookup.
type GetCatalogBookInput struct {
	ID string `path:"id" doc:"Google Books volume ID or Open Library work key"`
}

// CatalogBookResponse is the catalog detail response body.
type CatalogBookResponse struct {
	OK   bool                 `json:"ok"`
	Book domain.CatalogRecord `json:"book"`
}

// CatalogBookOutput wraps the catalog detail response for Huma.
type CatalogBookOutput struct {
	Body CatalogBookResponse
}

// === Handlers ===

func (s *Server) handleLookupISBN(ctx context.Context, input *LookupISBNInput) (*BookOutput, error) {
	res, err := s.services.Books.LookupISBN(ctx, input.ISBN)
	if err != nil {
		return nil, err
	}
	return bookOutput(res), nil
}

func (s *Server) handleSearchBook(ctx context.Context, input *SearchBookInput) (*BookOutput, error) {
	res, err := s.services.Books.LookupTitleAuthor(ctx, input.Title, input.Author)
	if err != nil {
		return nil, err
	}
	return bookOutput(res), nil
}

func (s *Server) handleGetCatalogBook(ctx context.Context, input *GetCatalogBookInput) (*CatalogBookOutput, error) {
	rec, err := s.services.Catalog.Book(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &CatalogBookOutput{Body: CatalogBookResponse{OK: true, Book: *rec}}, nil
}

func bookOutput(res *service.LookupResult) *BookOutput {
	return &BookOutput{
		Body: BookEnvelope{
			OK:     true,
			Book:   res.Book,
			Cached: res.Cached,
		},
	}
}
