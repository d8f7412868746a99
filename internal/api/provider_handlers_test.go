package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vibereader/vibereader-server/internal/config"
	"github.com/vibereader/vibereader-server/internal/genre"
	"github.com/vibereader/vibereader-server/internal/recommend"
)

func TestGetProviders_ReflectsCredentials(t *testing.T) {
	ts := setupTestServer(t, config.Credentials{
		GeminiKey:      config.PlaceholderGeminiKey,
		OpenRouterKey:  "or-key",
		GoogleBooksKey: "gb-key",
	})

	resp := ts.api.Get("/api/v1/providers")
	assert.Equal(t, http.StatusOK, resp.Code)

	body := decodeBody[ProvidersResponse](t, resp)
	assert.Equal(t, recommend.ProviderOpenRouter, body.Selected)
	assert.Equal(t, []recommend.ProviderID{recommend.ProviderOpenRouter, recommend.ProviderFallback}, body.Chain)
	assert.Equal(t, ConfiguredCredentials{OpenRouter: true, GoogleBooks: true}, body.Configured)
	assert.Equal(t, map[string]string{"gemini": "closed"}, body.Breakers)
	assert.NotContains(t, resp.Body.String(), "or-key")
}

func TestGetProviders_FollowsReload(t *testing.T) {
	ts := setupTestServer(t, config.Credentials{})

	body := decodeBody[ProvidersResponse](t, ts.api.Get("/api/v1/providers"))
	assert.Equal(t, recommend.ProviderFallback, body.Selected)
	assert.Equal(t, []recommend.ProviderID{recommend.ProviderFallback}, body.Chain)

	ts.creds.Store(config.Credentials{GeminiKey: "new"})

	body = decodeBody[ProvidersResponse](t, ts.api.Get("/api/v1/providers"))
	assert.Equal(t, recommend.ProviderGemini, body.Selected)
}

func TestListQuizOptions(t *testing.T) {
	ts := setupTestServer(t, config.Credentials{})

	resp := ts.api.Get("/api/v1/genres")
	assert.Equal(t, http.StatusOK, resp.Code)

	body := decodeBody[QuizOptionsResponse](t, resp)
	assert.Equal(t, genre.QuizGenres, body.Genres)
	assert.Len(t, body.Vibes, 4)
}
