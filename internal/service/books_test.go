package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibereader/vibereader-server/internal/cache"
	"github.com/vibereader/vibereader-server/internal/catalog"
	"github.com/vibereader/vibereader-server/internal/domain"
	domainerrors "github.com/vibereader/vibereader-server/internal/errors"
)

type fakeLookup struct {
	hasKey bool
	rec    *domain.CatalogRecord
	err    error
	calls  atomic.Int32

	lastISBN   string
	lastTitle  string
	lastAuthor string
}

func (f *fakeLookup) HasKey() bool { return f.hasKey }

func (f *fakeLookup) SearchISBN(_ context.Context, isbn string) (*domain.CatalogRecord, error) {
	f.calls.Add(1)
	f.lastISBN = isbn
	return f.rec, f.err
}

func (f *fakeLookup) SearchTitleAuthor(_ context.Context, title, author string) (*domain.CatalogRecord, error) {
	f.calls.Add(1)
	f.lastTitle, f.lastAuthor = title, author
	return f.rec, f.err
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) (domain.BookDetails, bool, error) {
	return domain.BookDetails{}, false, errors.New("cache down")
}

func (brokenCache) Set(context.Context, string, domain.BookDetails) error {
	return errors.New("cache down")
}

func (brokenCache) Delete(context.Context, string) error { return nil }

func newBookService(lookup BookLookup) (*BookService, *cache.Memory[domain.BookDetails]) {
	mem := cache.NewMemory[domain.BookDetails](time.Minute)
	return NewBookService(lookup, mem, slog.New(slog.NewTextHandler(io.Discard, nil))), mem
}

func duneRecord() *domain.CatalogRecord {
	return &domain.CatalogRecord{
		ExternalID: "vol-1",
		Title:      "Dune",
		Authors:    []string{"Frank Herbert"},
		PageCount:  412,
		CoverURL:   "https://books.example/dune.jpg",
		ISBN:       "9780441013593",
		Source:     domain.SourceGoogleBooks,
	}
}

func TestLookupISBN_CachesResult(t *testing.T) {
	lookup := &fakeLookup{hasKey: true, rec: duneRecord()}
	svc, mem := newBookService(lookup)
	ctx := context.Background()

	first, err := svc.LookupISBN(ctx, " 9780441013593 ")
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, "Dune", first.Book.Title)
	assert.Equal(t, "https://books.example/dune.jpg", first.Book.Cover)
	assert.Equal(t, "9780441013593", lookup.lastISBN)

	second, err := svc.LookupISBN(ctx, "9780441013593")
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Book, second.Book)
	assert.Equal(t, int32(1), lookup.calls.Load())

	_, ok, err := mem.Get(ctx, "isbn:9780441013593")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLookupTitleAuthor_CacheKey(t *testing.T) {
	lookup := &fakeLookup{hasKey: true, rec: duneRecord()}
	svc, mem := newBookService(lookup)
	ctx := context.Background()

	res, err := svc.LookupTitleAuthor(ctx, "Dune", "Frank Herbert")
	require.NoError(t, err)
	assert.False(t, res.Cached)
	assert.Equal(t, "Dune", lookup.lastTitle)
	assert.Equal(t, "Frank Herbert", lookup.lastAuthor)

	_, ok, err := mem.Get(ctx, "search:intitle:Dune+inauthor:Frank Herbert")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLookupTitleAuthor_TitleOnly(t *testing.T) {
	lookup := &fakeLookup{hasKey: true, rec: duneRecord()}
	svc, _ := newBookService(lookup)

	_, err := svc.LookupTitleAuthor(context.Background(), "Dune", "")
	require.NoError(t, err)
	assert.Equal(t, "Dune", lookup.lastTitle)
	assert.Empty(t, lookup.lastAuthor)
}

func TestLookup_KeyCheckedFirst(t *testing.T) {
	lookup := &fakeLookup{hasKey: false}
	svc, _ := newBookService(lookup)

	// Missing key wins over missing parameters.
	_, err := svc.LookupTitleAuthor(context.Background(), "", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrConfigurationAbsent))
	assert.Equal(t, "Google Books API key not configured", err.Error())
	assert.Zero(t, lookup.calls.Load())
}

func TestLookupTitleAuthor_RequiresParameter(t *testing.T) {
	svc, _ := newBookService(&fakeLookup{hasKey: true})

	_, err := svc.LookupTitleAuthor(context.Background(), "  ", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidation))
	assert.Equal(t, "Either title or author parameter is required", err.Error())
}

func TestLookupISBN_RequiresISBN(t *testing.T) {
	svc, _ := newBookService(&fakeLookup{hasKey: true})

	_, err := svc.LookupISBN(context.Background(), "")
	assert.True(t, errors.Is(err, domainerrors.ErrValidation))
}

func TestLookup_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    error
		message string
	}{
		{"not found", catalog.WrapError("search", domain.SourceGoogleBooks, "isbn:1", catalog.ErrNotFound), domainerrors.ErrNotFound, "No books found"},
		{"server error", catalog.ErrServer, domainerrors.ErrUpstream, "Failed to fetch from Google Books API"},
		{"rate limited", catalog.ErrRateLimited, domainerrors.ErrUpstream, "Failed to fetch from Google Books API"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mem := newBookService(&fakeLookup{hasKey: true, err: tt.err})

			_, err := svc.LookupISBN(context.Background(), "1")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want))

			var de *domainerrors.Error
			require.True(t, errors.As(err, &de))
			assert.Equal(t, tt.message, de.Message)
			assert.Zero(t, mem.Len())
		})
	}
}

func TestLookup_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc, _ := newBookService(&fakeLookup{hasKey: true, err: context.Canceled})
	_, err := svc.LookupISBN(ctx, "1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLookup_CacheFailuresAreNonFatal(t *testing.T) {
	lookup := &fakeLookup{hasKey: true, rec: duneRecord()}
	svc := NewBookService(lookup, brokenCache{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	res, err := svc.LookupISBN(context.Background(), "9780441013593")
	require.NoError(t, err)
	assert.False(t, res.Cached)
	assert.Equal(t, "Dune", res.Book.Title)
}
