package recommend

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/vibereader/vibereader-server/internal/catalog"
	"github.com/vibereader/vibereader-server/internal/domain"
	"github.com/vibereader/vibereader-server/internal/genre"
)

// Fallback scoring.
const (
	baseScore        = 70
	genreBonus       = 15
	lengthBonus      = 10
	maxJitter        = 10 // jitter is drawn from [0, maxJitter)
	maxQuizQueries   = 3
	fallbackPageSize = 10
)

// Ranker builds recommendations straight from catalog search results.
type Ranker struct {
	catalog catalog.Searcher
	logger  *slog.Logger
	jitter  func() int
}

// RankerOption configures a Ranker.
type RankerOption func(*Ranker)

// WithJitter replaces the random tie-break source.
func WithJitter(j func() int) RankerOption {
	return func(r *Ranker) { r.jitter = j }
}

// NewRanker creates a Ranker backed by searcher.
func NewRanker(searcher catalog.Searcher, logger *slog.Logger, opts ...RankerOption) *Ranker {
	r := &Ranker{
		catalog: searcher,
		logger:  logger,
		jitter:  func() int { return rand.IntN(maxJitter) },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// QuizQueries returns the catalog queries for prefs: one per genre, at most
// three, each qualified by the mood description.
func QuizQueries(prefs domain.QuizPreferences) []string {
	mood := MoodDescription(prefs.MoodHappySad, prefs.MoodHopefulBleak)
	var queries []string
	for _, g := range prefs.Genres {
		if len(queries) == maxQuizQueries {
			break
		}
		if g = strings.TrimSpace(g); g != "" {
			queries = append(queries, "subject:"+g+" "+mood)
		}
	}
	return queries
}

// VibeQueries returns the fixed catalog queries for v.
func VibeQueries(v domain.Vibe) []string {
	return slices.Clone(profileFor(v).queries)
}

// RankQuiz ranks catalog results for quiz preferences. Records outside the
// preferred length are dropped.
func (r *Ranker) RankQuiz(ctx context.Context, prefs domain.QuizPreferences) []domain.Recommendation {
	mood := MoodDescription(prefs.MoodHappySad, prefs.MoodHopefulBleak)
	pacing := prefs.Pacing
	if !pacing.Valid() {
		pacing = domain.PacingMedium
	}
	explanation := fmt.Sprintf("Matches your interest in %s with a %s mood.", strings.Join(prefs.Genres, ", "), mood)

	return r.rank(ctx, QuizQueries(prefs), QuizCap, func(rec domain.CatalogRecord) (domain.Recommendation, bool) {
		if !prefs.Length.Matches(rec.PageCount) {
			return domain.Recommendation{}, false
		}
		score := baseScore + lengthBonus
		if genre.Overlaps(prefs.Genres, rec.Categories) {
			score += genreBonus
		}
		return fromCatalog(rec, score, explanation, pacing, []string{mood}), true
	})
}

// RankVibe ranks catalog results for a vibe. No length filter applies.
func (r *Ranker) RankVibe(ctx context.Context, v domain.Vibe) []domain.Recommendation {
	p := profileFor(v)
	subjects := p.subjects()
	explanation := fmt.Sprintf("A catalog pick for the %s vibe.", v)

	return r.rank(ctx, p.queries, VibeCap, func(rec domain.CatalogRecord) (domain.Recommendation, bool) {
		score := baseScore
		if genre.Overlaps(subjects, rec.Categories) {
			score += genreBonus
		}
		return fromCatalog(rec, score, explanation, p.pacing, p.moods), true
	})
}

// rank runs queries in order, keeping the first record per dedup key that
// accept admits, until limit candidates are collected. Failed queries are
// skipped. The result is stably sorted by score, highest first.
func (r *Ranker) rank(ctx context.Context, queries []string, limit int, accept func(domain.CatalogRecord) (domain.Recommendation, bool)) []domain.Recommendation {
	seen := make(map[string]bool)
	recs := make([]domain.Recommendation, 0, limit)

queries:
	for _, q := range queries {
		if ctx.Err() != nil {
			break
		}

		records, err := r.catalog.Search(ctx, q, fallbackPageSize)
		if err != nil {
			r.logger.Warn("fallback query failed", "query", q, "error", err)
			continue
		}

		for _, record := range records {
			key := record.Key()
			if seen[key] {
				continue
			}
			seen[key] = true

			rec, ok := accept(record)
			if !ok {
				continue
			}
			rec.MatchScore = domain.ClampScore(rec.MatchScore + r.jitter())
			recs = append(recs, rec)
			if len(recs) == limit {
				break queries
			}
		}
	}

	slices.SortStableFunc(recs, func(a, b domain.Recommendation) int {
		return cmp.Compare(b.MatchScore, a.MatchScore)
	})
	return recs
}

func fromCatalog(rec domain.CatalogRecord, score int, explanation string, pacing domain.Pacing, moods []string) domain.Recommendation {
	themes := slices.Clone(rec.Categories)
	if len(themes) == 0 {
		themes = []string{DefaultTheme}
	}
	return domain.Recommendation{
		Title:            rec.Title,
		Author:           rec.Author(),
		Description:      rec.Description,
		MatchScore:       score,
		MatchExplanation: explanation,
		Analytics: domain.Analytics{
			PageCount: rec.PageCount,
			Pacing:    pacing,
			Moods:     slices.Clone(moods),
			Themes:    themes,
		},
		CoverURL:      rec.CoverURL,
		CatalogID:     rec.ExternalID,
		CatalogSource: rec.Source,
	}
}
