package recommend

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/vibereader/vibereader-server/internal/catalog"
	"github.com/vibereader/vibereader-server/internal/domain"
)

const defaultEnrichConcurrency = 3

// Enricher merges provider suggestions with catalog facts.
type Enricher struct {
	catalog     catalog.Searcher
	logger      *slog.Logger
	concurrency int
}

// NewEnricher creates an Enricher backed by searcher.
func NewEnricher(searcher catalog.Searcher, logger *slog.Logger) *Enricher {
	return &Enricher{
		catalog:     searcher,
		logger:      logger,
		concurrency: defaultEnrichConcurrency,
	}
}

// Enrich normalizes, dedups and caps the suggestions, then looks each one up
// in the catalog. A hit supplies page count, cover, description and catalog
// ID; subjective fields stay with the provider. Misses and lookup failures
// keep the normalized suggestion. Order follows the suggestions.
func (e *Enricher) Enrich(ctx context.Context, suggestions []RawSuggestion, d Defaults) []domain.Recommendation {
	recs := Dedup(suggestions, d)

	var wg sync.WaitGroup
	sem := make(chan struct{}, max(e.concurrency, 1))
	for i := range recs {
		wg.Go(func() {
			sem <- struct{}{}
			defer func() { <-sem }()

			if hit := e.lookup(ctx, &recs[i]); hit != nil {
				mergeCatalog(&recs[i], hit)
			}
		})
	}
	wg.Wait()

	return recs
}

// Dedup normalizes suggestions, drops untitled ones and repeats of an earlier
// dedup key, and truncates to the flow cap.
func Dedup(suggestions []RawSuggestion, d Defaults) []domain.Recommendation {
	limit := d.Flow.Cap()
	seen := make(map[string]bool, len(suggestions))
	recs := make([]domain.Recommendation, 0, min(len(suggestions), limit))

	for _, s := range suggestions {
		if len(recs) == limit {
			break
		}
		rec := Normalize(s, d)
		if rec.Title == "" {
			continue
		}
		key := rec.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		recs = append(recs, rec)
	}
	return recs
}

func (e *Enricher) lookup(ctx context.Context, rec *domain.Recommendation) *domain.CatalogRecord {
	query := rec.Title
	if rec.Author != domain.UnknownAuthor {
		query += " " + rec.Author
	}
	records, err := e.catalog.Search(ctx, query, 1)
	if err != nil {
		e.logger.Debug("enrichment lookup failed", "query", query, "error", err)
		return nil
	}
	if len(records) == 0 {
		return nil
	}
	return &records[0]
}

func mergeCatalog(rec *domain.Recommendation, hit *domain.CatalogRecord) {
	if hit.PageCount > 0 {
		rec.Analytics.PageCount = hit.PageCount
	}
	if hit.CoverURL != "" {
		rec.CoverURL = hit.CoverURL
	}
	if d := strings.TrimSpace(hit.Description); d != "" {
		rec.Description = d
	}
	rec.CatalogID = hit.ExternalID
	rec.CatalogSource = hit.Source
}
