package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibereader/vibereader-server/internal/catalog"
	"github.com/vibereader/vibereader-server/internal/config"
)

func TestLookupISBN_ServesThenCaches(t *testing.T) {
	ts := setupTestServer(t, config.Credentials{})

	resp := ts.api.Get("/isbn/9780441013593")
	assert.Equal(t, http.StatusOK, resp.Code)
	first := decodeBody[BookEnvelope](t, resp)
	assert.True(t, first.OK)
	assert.False(t, first.Cached)
	assert.Equal(t, "Dune", first.Book.Title)
	assert.Equal(t, []string{"Frank Herbert"}, first.Book.Authors)
	assert.Equal(t, "https://books.example/dune.jpg", first.Book.Cover)
	assert.Equal(t, "9780441013593", first.Book.ISBN)

	second := decodeBody[BookEnvelope](t, ts.api.Get("/isbn/9780441013593"))
	assert.True(t, second.Cached)
	assert.Equal(t, first.Book, second.Book)
}

func TestSearchBook_TitleOnly(t *testing.T) {
	ts := setupTestServer(t, config.Credentials{})

	resp := ts.api.Get("/search?title=Dune")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Dune", decodeBody[BookEnvelope](t, resp).Book.Title)
}

func TestSearchBook_RequiresTitleOrAuthor(t *testing.T) {
	ts := setupTestServer(t, config.Credentials{})

	resp := ts.api.Get("/search")

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	body := decodeBody[APIError](t, resp)
	assert.False(t, body.OK)
	assert.False(t, body.Cached)
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Equal(t, "Either title or author parameter is required", body.Message)
}

func TestBookLookup_MissingKey(t *testing.T) {
	ts := setupTestServer(t, config.Credentials{})
	ts.lookup.hasKey = false

	resp := ts.api.Get("/search?author=Herbert")

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	body := decodeBody[APIError](t, resp)
	assert.Equal(t, "CONFIGURATION_ABSENT", body.Code)
	assert.Equal(t, "Google Books API key not configured", body.Message)
}

func TestBookLookup_NoMatch(t *testing.T) {
	ts := setupTestServer(t, config.Credentials{})
	ts.lookup.rec, ts.lookup.err = nil, catalog.ErrNotFound

	resp := ts.api.Get("/isbn/0000000000")

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "No books found", decodeBody[APIError](t, resp).Message)
}

func TestBookLookup_UpstreamFailure(t *testing.T) {
	ts := setupTestServer(t, config.Credentials{})
	ts.lookup.rec, ts.lookup.err = nil, catalog.ErrServer

	resp := ts.api.Get("/isbn/1")

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	body := decodeBody[APIError](t, resp)
	assert.Equal(t, "UPSTREAM", body.Code)
	assert.Equal(t, "Failed to fetch from Google Books API", body.Message)
}

func TestCatalogBook_Found(t *testing.T) {
	ts := setupTestServer(t, config.Credentials{})

	resp := ts.api.Get("/api/v1/books/v2")

	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	body := decodeBody[CatalogBookResponse](t, resp)
	assert.True(t, body.OK)
	assert.Equal(t, "Circe", body.Book.Title)
	assert.Equal(t, []string{"Madeline Miller"}, body.Book.Authors)
}

func TestCatalogBook_Unknown(t *testing.T) {
	ts := setupTestServer(t, config.Credentials{})

	resp := ts.api.Get("/api/v1/books/OL1W")

	assert.Equal(t, http.StatusNotFound, resp.Code)
	body := decodeBody[APIError](t, resp)
	assert.Equal(t, "NOT_FOUND", body.Code)
	assert.Equal(t, "Book not found", body.Message)
}
