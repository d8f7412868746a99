package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibereader/vibereader-server/internal/cache"
	"github.com/vibereader/vibereader-server/internal/domain"
)

// fakeSearcher returns canned records and remembers what it was asked.
type fakeSearcher struct {
	source  domain.SourceSystem
	records []domain.CatalogRecord
	err     error

	mu      sync.Mutex
	limits  []int
	fetched []string
}

func (f *fakeSearcher) Source() domain.SourceSystem { return f.source }

func (f *fakeSearcher) Search(_ context.Context, _ string, limit int) ([]domain.CatalogRecord, error) {
	f.mu.Lock()
	f.limits = append(f.limits, limit)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.records[:min(limit, len(f.records))], nil
}

func (f *fakeSearcher) FetchByID(_ context.Context, id string) (*domain.CatalogRecord, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, id)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	rec := domain.CatalogRecord{ExternalID: id, Title: "Fetched", Source: f.source}
	return &rec, nil
}

func (f *fakeSearcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.limits)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func record(title, author string, source domain.SourceSystem) domain.CatalogRecord {
	return domain.CatalogRecord{Title: title, Authors: []string{author}, Source: source}
}

func TestMulti_MergesInBackendOrder(t *testing.T) {
	gb := &fakeSearcher{source: domain.SourceGoogleBooks, records: []domain.CatalogRecord{
		record("Dune", "Frank Herbert", domain.SourceGoogleBooks),
		record("Hyperion", "Dan Simmons", domain.SourceGoogleBooks),
	}}
	ol := &fakeSearcher{source: domain.SourceOpenLibrary, records: []domain.CatalogRecord{
		record("dune", "frank herbert", domain.SourceOpenLibrary),
		record("Foundation", "Isaac Asimov", domain.SourceOpenLibrary),
	}}

	m := NewMulti(testLogger(), gb, ol)
	records, err := m.Search(context.Background(), "science fiction", 4)
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, "Dune", records[0].Title)
	assert.Equal(t, domain.SourceGoogleBooks, records[0].Source)
	assert.Equal(t, "Hyperion", records[1].Title)
	assert.Equal(t, "Foundation", records[2].Title)

	assert.Equal(t, []int{2}, gb.limits)
	assert.Equal(t, []int{2}, ol.limits)
}

func TestMulti_SingleBackendGetsFullLimit(t *testing.T) {
	gb := &fakeSearcher{source: domain.SourceGoogleBooks}
	m := NewMulti(testLogger(), gb)

	_, err := m.Search(context.Background(), "poetry", 5)
	require.NoError(t, err)
	assert.Equal(t, []int{5}, gb.limits)
}

func TestMulti_LimitOneAsksEachBackendForOne(t *testing.T) {
	gb := &fakeSearcher{source: domain.SourceGoogleBooks, records: []domain.CatalogRecord{record("A", "X", domain.SourceGoogleBooks)}}
	ol := &fakeSearcher{source: domain.SourceOpenLibrary, records: []domain.CatalogRecord{record("B", "Y", domain.SourceOpenLibrary)}}
	m := NewMulti(testLogger(), gb, ol)

	records, err := m.Search(context.Background(), "q", 1)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, []int{1}, gb.limits)
	assert.Equal(t, []int{1}, ol.limits)
}

func TestMulti_FailingBackendContributesNothing(t *testing.T) {
	gb := &fakeSearcher{source: domain.SourceGoogleBooks, err: ErrServer}
	ol := &fakeSearcher{source: domain.SourceOpenLibrary, records: []domain.CatalogRecord{
		record("Walden", "Henry David Thoreau", domain.SourceOpenLibrary),
	}}
	m := NewMulti(testLogger(), gb, ol)

	records, err := m.Search(context.Background(), "subject:nature", 6)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Walden", records[0].Title)
}

func TestMulti_AllBackendsFailingYieldsEmpty(t *testing.T) {
	m := NewMulti(testLogger(),
		&fakeSearcher{source: domain.SourceGoogleBooks, err: ErrServer},
		&fakeSearcher{source: domain.SourceOpenLibrary, err: ErrRateLimited},
	)

	records, err := m.Search(context.Background(), "q", 6)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestMulti_EmptyQueryOrLimit(t *testing.T) {
	gb := &fakeSearcher{source: domain.SourceGoogleBooks}
	m := NewMulti(testLogger(), gb)

	records, err := m.Search(context.Background(), "  ", 5)
	require.NoError(t, err)
	assert.Empty(t, records)

	records, err = m.Search(context.Background(), "q", 0)
	require.NoError(t, err)
	assert.Empty(t, records)

	assert.Zero(t, gb.calls())
}

func TestMulti_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewMulti(testLogger(), &fakeSearcher{source: domain.SourceGoogleBooks, err: context.Canceled})
	_, err := m.Search(ctx, "q", 5)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMulti_FetchByIDRouting(t *testing.T) {
	gb := &fakeSearcher{source: domain.SourceGoogleBooks}
	ol := &fakeSearcher{source: domain.SourceOpenLibrary}
	m := NewMulti(testLogger(), gb, ol)

	rec, err := m.FetchByID(context.Background(), "/works/OL45804W")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceOpenLibrary, rec.Source)

	rec, err = m.FetchByID(context.Background(), "zyTCAlFPjgYC")
	require.NoError(t, err)
	assert.Equal(t, domain.SourceGoogleBooks, rec.Source)

	assert.Equal(t, []string{"zyTCAlFPjgYC"}, gb.fetched)
	assert.Equal(t, []string{"/works/OL45804W"}, ol.fetched)
}

func TestMulti_FetchByIDMissingBackend(t *testing.T) {
	m := NewMulti(testLogger(), &fakeSearcher{source: domain.SourceGoogleBooks})

	_, err := m.FetchByID(context.Background(), "/works/OL1W")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	var catErr *Error
	require.True(t, errors.As(err, &catErr))
	assert.Equal(t, domain.SourceOpenLibrary, catErr.Source)
}

func TestMerge(t *testing.T) {
	a := []domain.CatalogRecord{record("One", "A", domain.SourceGoogleBooks), record("Two", "B", domain.SourceGoogleBooks)}
	b := []domain.CatalogRecord{record("ONE", "a", domain.SourceOpenLibrary), record("Three", "C", domain.SourceOpenLibrary)}

	merged := Merge(10, a, b)
	require.Len(t, merged, 3)
	assert.Equal(t, []string{"One", "Two", "Three"}, []string{merged[0].Title, merged[1].Title, merged[2].Title})

	assert.Len(t, Merge(2, a, b), 2)
	assert.Empty(t, Merge(0, a, b))
	assert.NotNil(t, Merge(-1, a))
}

func TestCached_SearchHitsCacheOnSecondCall(t *testing.T) {
	backend := &fakeSearcher{source: domain.SourceGoogleBooks, records: []domain.CatalogRecord{
		record("Dune", "Frank Herbert", domain.SourceGoogleBooks),
	}}
	c := NewCached(backend, cache.NewMemory[[]domain.CatalogRecord](time.Minute), testLogger())

	for range 3 {
		records, err := c.Search(context.Background(), "dune", 5)
		require.NoError(t, err)
		require.Len(t, records, 1)
	}
	assert.Equal(t, 1, backend.calls())
	assert.Equal(t, domain.SourceGoogleBooks, c.Source())
}

func TestCached_KeyIncludesLimit(t *testing.T) {
	backend := &fakeSearcher{source: domain.SourceGoogleBooks, records: []domain.CatalogRecord{
		record("Dune", "Frank Herbert", domain.SourceGoogleBooks),
	}}
	c := NewCached(backend, cache.NewMemory[[]domain.CatalogRecord](time.Minute), testLogger())

	_, err := c.Search(context.Background(), "dune", 5)
	require.NoError(t, err)
	_, err = c.Search(context.Background(), "dune", 3)
	require.NoError(t, err)
	assert.Equal(t, 2, backend.calls())
}

func TestCached_DoesNotCacheEmptyOrErrors(t *testing.T) {
	backend := &fakeSearcher{source: domain.SourceGoogleBooks}
	c := NewCached(backend, cache.NewMemory[[]domain.CatalogRecord](time.Minute), testLogger())

	_, err := c.Search(context.Background(), "nothing", 5)
	require.NoError(t, err)
	_, err = c.Search(context.Background(), "nothing", 5)
	require.NoError(t, err)
	assert.Equal(t, 2, backend.calls())

	backend.err = ErrServer
	_, err = c.Search(context.Background(), "broken", 5)
	assert.ErrorIs(t, err, ErrServer)
}

func TestCached_SkipsPartialMerge(t *testing.T) {
	gb := &fakeSearcher{source: domain.SourceGoogleBooks, records: []domain.CatalogRecord{
		record("Dune", "Frank Herbert", domain.SourceGoogleBooks),
	}}
	ol := &fakeSearcher{source: domain.SourceOpenLibrary, err: ErrRateLimited}
	c := NewCached(NewMulti(testLogger(), gb, ol), cache.NewMemory[[]domain.CatalogRecord](time.Minute), testLogger())

	for range 2 {
		records, err := c.Search(context.Background(), "dune", 4)
		require.NoError(t, err)
		assert.Len(t, records, 1)
	}
	assert.Equal(t, 2, gb.calls(), "a merge missing a backend must not be cached")

	ol.err = nil
	ol.records = []domain.CatalogRecord{record("Dune Messiah", "Frank Herbert", domain.SourceOpenLibrary)}
	for range 2 {
		records, err := c.Search(context.Background(), "dune", 4)
		require.NoError(t, err)
		assert.Len(t, records, 2)
	}
	assert.Equal(t, 3, gb.calls())
	assert.Equal(t, 3, ol.calls())
}

func TestMulti_SearchCompleteReportsFailures(t *testing.T) {
	gb := &fakeSearcher{source: domain.SourceGoogleBooks, records: []domain.CatalogRecord{
		record("Dune", "Frank Herbert", domain.SourceGoogleBooks),
	}}
	ok := NewMulti(testLogger(), gb)
	_, complete, err := ok.SearchComplete(context.Background(), "dune", 2)
	require.NoError(t, err)
	assert.True(t, complete)

	partial := NewMulti(testLogger(), gb, &fakeSearcher{source: domain.SourceOpenLibrary, err: ErrServer})
	records, complete, err := partial.SearchComplete(context.Background(), "dune", 2)
	require.NoError(t, err)
	assert.False(t, complete)
	assert.Len(t, records, 1)
}

// failingCache always errors; lookups must fall through to the backend.
type failingCache struct{}

func (failingCache) Get(context.Context, string) ([]domain.CatalogRecord, bool, error) {
	return nil, false, errors.New("cache down")
}

func (failingCache) Set(context.Context, string, []domain.CatalogRecord) error {
	return errors.New("cache down")
}

func (failingCache) Delete(context.Context, string) error { return nil }

func TestCached_CacheFailureFallsThrough(t *testing.T) {
	backend := &fakeSearcher{source: domain.SourceGoogleBooks, records: []domain.CatalogRecord{
		record("Dune", "Frank Herbert", domain.SourceGoogleBooks),
	}}
	c := NewCached(backend, failingCache{}, testLogger())

	records, err := c.Search(context.Background(), "dune", 5)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	rec, err := c.FetchByID(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", rec.ExternalID)
}

func TestCached_FetchByID(t *testing.T) {
	backend := &fakeSearcher{source: domain.SourceOpenLibrary}
	c := NewCached(backend, cache.NewMemory[[]domain.CatalogRecord](time.Minute), testLogger())

	for range 2 {
		rec, err := c.FetchByID(context.Background(), "/works/OL1W")
		require.NoError(t, err)
		assert.Equal(t, "/works/OL1W", rec.ExternalID)
	}
	assert.Equal(t, []string{"/works/OL1W"}, backend.fetched)
}
