package recommend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vibereader/vibereader-server/internal/domain"
	domainerrors "github.com/vibereader/vibereader-server/internal/errors"
	"github.com/vibereader/vibereader-server/internal/llm"
)

type serviceFixture struct {
	catalog    *fakeCatalog
	gemini     *fakeProvider
	openrouter *fakeProvider
}

func newServiceFixture() *serviceFixture {
	return &serviceFixture{
		catalog:    newFakeCatalog(),
		gemini:     &fakeProvider{name: llm.NameGemini},
		openrouter: &fakeProvider{name: llm.NameOpenRouter},
	}
}

func (f *serviceFixture) service(creds staticCreds, opts ...ServiceOption) *Service {
	providers := map[ProviderID]llm.Provider{
		ProviderGemini:     f.gemini,
		ProviderOpenRouter: f.openrouter,
	}
	s := NewService(creds, providers,
		NewEnricher(f.catalog, testLogger()),
		NewRanker(f.catalog, testLogger(), WithJitter(zeroJitter)),
		testLogger(), opts...)
	s.newID = func() (string, error) { return "rec-test", nil }
	return s
}

func TestService_NoProviderUsesCatalog(t *testing.T) {
	f := newServiceFixture()
	f.catalog.results["subject:Mystery melancholic and hopeful"] = []domain.CatalogRecord{
		book("Gone Girl", "Gillian Flynn", 240, "Mystery"),
		book("The Long Goodbye", "Raymond Chandler", 400, "Mystery"),
	}

	res, err := f.service(staticCreds{}).RecommendForQuiz(context.Background(), mysteryPrefs())
	require.NoError(t, err)

	assert.Equal(t, "rec-test", res.BatchID)
	assert.Equal(t, SourceCatalog, res.Source)
	require.Len(t, res.Recommendations, 1)
	assert.Equal(t, "Gone Girl", res.Recommendations[0].Title)
	assert.Empty(t, res.Degraded)
	assert.Zero(t, f.gemini.calls)
	assert.Zero(t, f.openrouter.calls)
}

func TestService_UnparseableGeminiFallsBackToCalmQueries(t *testing.T) {
	f := newServiceFixture()
	f.gemini.text = "I'm sorry, I can only recommend books on Tuesdays."
	for i, q := range VibeQueries(domain.VibeCalm) {
		f.catalog.results[q] = []domain.CatalogRecord{
			book(q+" one", "Author", 100+i),
			book(q+" two", "Author", 500+i),
			book(q+" three", "Author", 300+i),
		}
	}

	res, err := f.service(staticCreds{GeminiKey: "g"}).RecommendForVibe(context.Background(), domain.VibeCalm)
	require.NoError(t, err)

	assert.Equal(t, SourceCatalog, res.Source)
	assert.Equal(t, []string{"gemini: unparseable response"}, res.Degraded)
	assert.Equal(t, 1, f.gemini.calls)
	assert.Equal(t, VibeQueries(domain.VibeCalm)[:2], f.catalog.seenQueries())

	require.Len(t, res.Recommendations, VibeCap)
	for _, rec := range res.Recommendations {
		assert.Equal(t, domain.PacingSlow, rec.Analytics.Pacing)
	}
}

func TestService_GeminiSuccessIsEnriched(t *testing.T) {
	f := newServiceFixture()
	f.gemini.text = "```json\n[{\"title\":\"Dune\",\"author\":\"Frank Herbert\"},{\"title\":\"dune\",\"author\":\"frank herbert\"}]\n```"
	f.catalog.results["Dune Frank Herbert"] = []domain.CatalogRecord{book("Dune", "Frank Herbert", 412, "Science Fiction")}

	res, err := f.service(staticCreds{GeminiKey: "g", OpenRouterKey: "o"}).RecommendForQuiz(context.Background(), mysteryPrefs())
	require.NoError(t, err)

	assert.Equal(t, SourceGemini, res.Source)
	require.Len(t, res.Recommendations, 1)
	rec := res.Recommendations[0]
	assert.Equal(t, 412, rec.Analytics.PageCount)
	assert.Equal(t, domain.PacingMedium, rec.Analytics.Pacing)
	assert.Equal(t, 85, rec.MatchScore)
	assert.Zero(t, f.openrouter.calls)
}

func TestService_GeminiFailureDegradesToOpenRouter(t *testing.T) {
	f := newServiceFixture()
	f.gemini.err = &llm.StatusError{Provider: llm.NameGemini, StatusCode: 429}
	f.openrouter.text = `[{"title":"Circe","author":"Madeline Miller","matchScore":150}]`

	res, err := f.service(staticCreds{GeminiKey: "g", OpenRouterKey: "o"}).RecommendForVibe(context.Background(), domain.VibeReflective)
	require.NoError(t, err)

	assert.Equal(t, SourceOpenRouter, res.Source)
	assert.Equal(t, []string{"gemini: provider returned status 429"}, res.Degraded)
	require.Len(t, res.Recommendations, 1)
	assert.Equal(t, 100, res.Recommendations[0].MatchScore)
	assert.Equal(t, 1, f.gemini.calls)
	assert.Equal(t, 1, f.openrouter.calls)
}

func TestService_EmptyProviderArrayFallsThrough(t *testing.T) {
	f := newServiceFixture()
	f.openrouter.text = "[]"

	res, err := f.service(staticCreds{OpenRouterKey: "o"}).RecommendForVibe(context.Background(), domain.VibeEnergetic)
	require.NoError(t, err)

	assert.Equal(t, SourceNone, res.Source)
	assert.Equal(t, []string{"openrouter: no suggestions", "catalog: no results"}, res.Degraded)
	assert.NotNil(t, res.Recommendations)
	assert.Empty(t, res.Recommendations)
}

func TestService_CuratedShelf(t *testing.T) {
	f := newServiceFixture()
	f.gemini.err = llm.ErrProviderCall

	s := f.service(staticCreds{GeminiKey: "g"}, WithCuratedFallback(true), WithCuratedJitter(zeroJitter))
	res, err := s.RecommendForQuiz(context.Background(), mysteryPrefs())
	require.NoError(t, err)

	assert.Equal(t, SourceCurated, res.Source)
	assert.Equal(t, []string{"gemini: provider call failed", "catalog: no results"}, res.Degraded)
	require.Len(t, res.Recommendations, 5)
	assert.Equal(t, 95, res.Recommendations[0].MatchScore)
	assert.Contains(t, res.Recommendations[0].MatchExplanation, "Mystery preferences")
}

func TestService_ReadsCredentialsPerRequest(t *testing.T) {
	f := newServiceFixture()
	f.gemini.text = `[{"title":"Dune","author":"Frank Herbert"}]`

	creds := &mutableCreds{}
	s := f.service(staticCreds{})
	s.creds = creds

	res, err := s.RecommendForVibe(context.Background(), domain.VibeMotivated)
	require.NoError(t, err)
	assert.Equal(t, SourceNone, res.Source)
	assert.Equal(t, ProviderFallback, s.Selected())

	creds.c.GeminiKey = "now-set"
	res, err = s.RecommendForVibe(context.Background(), domain.VibeMotivated)
	require.NoError(t, err)
	assert.Equal(t, SourceGemini, res.Source)
	assert.Equal(t, ProviderGemini, s.Selected())
}

func TestService_CancelledContext(t *testing.T) {
	f := newServiceFixture()
	f.gemini.err = context.Canceled

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.service(staticCreds{GeminiKey: "g"}).RecommendForQuiz(ctx, mysteryPrefs())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestService_UnknownVibe(t *testing.T) {
	f := newServiceFixture()
	_, err := f.service(staticCreds{}).RecommendForVibe(context.Background(), domain.Vibe("Sleepy"))
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}
