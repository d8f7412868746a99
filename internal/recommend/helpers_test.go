package recommend

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/vibereader/vibereader-server/internal/config"
	"github.com/vibereader/vibereader-server/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeCatalog answers searches from a query table and records every query.
type fakeCatalog struct {
	mu      sync.Mutex
	results map[string][]domain.CatalogRecord
	errs    map[string]error
	queries []string
	limits  []int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		results: make(map[string][]domain.CatalogRecord),
		errs:    make(map[string]error),
	}
}

func (f *fakeCatalog) Source() domain.SourceSystem { return domain.SourceGoogleBooks }

func (f *fakeCatalog) Search(_ context.Context, query string, limit int) ([]domain.CatalogRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	f.limits = append(f.limits, limit)
	if err := f.errs[query]; err != nil {
		return nil, err
	}
	records := f.results[query]
	return records[:min(limit, len(records))], nil
}

func (f *fakeCatalog) FetchByID(context.Context, string) (*domain.CatalogRecord, error) {
	return nil, nil
}

func (f *fakeCatalog) seenQueries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.queries...)
}

// fakeProvider returns a fixed response.
type fakeProvider struct {
	name  string
	text  string
	err   error
	mu    sync.Mutex
	calls int
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Generate(context.Context, string) (string, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	return p.text, p.err
}

type staticCreds config.Credentials

func (c staticCreds) Load() config.Credentials { return config.Credentials(c) }

func book(title, author string, pages int, categories ...string) domain.CatalogRecord {
	return domain.CatalogRecord{
		ExternalID: "id-" + title,
		Title:      title,
		Authors:    []string{author},
		Categories: categories,
		PageCount:  pages,
		Source:     domain.SourceGoogleBooks,
	}
}

func zeroJitter() int { return 0 }

func mysteryPrefs() domain.QuizPreferences {
	return domain.QuizPreferences{
		Genres:           []string{"Mystery"},
		MoodHappySad:     30,
		MoodHopefulBleak: 70,
		Pacing:           domain.PacingFast,
		Length:           domain.LengthShort,
		Focus:            80,
	}
}

type mutableCreds struct {
	c config.Credentials
}

func (m *mutableCreds) Load() config.Credentials { return m.c }
