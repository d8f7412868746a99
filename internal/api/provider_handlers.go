package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/vibereader/vibereader-server/internal/recommend"
)

func (s *Server) registerProviderRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getProviders",
		Method:      http.MethodGet,
		Path:        "/api/v1/providers",
		Summary:     "Provider selection",
		Description: "Reports which provider the next recommendation will try first and which credentials are configured. Credential values are never returned.",
		Tags:        []string{"Providers"},
	}, s.handleGetProviders)
}

// ProvidersResponse describes the current provider selection.
type ProvidersResponse struct {
	Selected   recommend.ProviderID   `json:"selected" enum:"gemini,openrouter,fallback" doc:"Provider tried first"`
	Chain      []recommend.ProviderID `json:"chain" doc:"Providers in the order they are tried, ending with the catalog fallback"`
	Configured ConfiguredCredentials  `json:"configured" doc:"Which credentials are set"`
	Breakers   map[string]string      `json:"breakers" doc:"Circuit state per provider adapter"`
}

// ConfiguredCredentials flags which credentials are usable.
type ConfiguredCredentials struct {
	Gemini      bool `json:"gemini"`
	OpenRouter  bool `json:"openrouter"`
	GoogleBooks bool `json:"googleBooks"`
}

// ProvidersOutput wraps the providers response for Huma.
type ProvidersOutput struct {
	Body ProvidersResponse
}

func (s *Server) handleGetProviders(_ context.Context, _ *struct{}) (*ProvidersOutput, error) {
	creds := s.services.Credentials.Load()

	chain := recommend.ProviderChain(creds)
	breakers := make(map[string]string, len(s.services.Providers))
	for _, p := range s.services.Providers {
		breakers[p.Name()] = p.State()
	}

	return &ProvidersOutput{
		Body: ProvidersResponse{
			Selected: recommend.SelectProvider(creds),
			Chain:    append(chain, recommend.ProviderFallback),
			Configured: ConfiguredCredentials{
				Gemini:      creds.GeminiConfigured(),
				OpenRouter:  creds.OpenRouterConfigured(),
				GoogleBooks: creds.GoogleBooksConfigured(),
			},
			Breakers: breakers,
		},
	}, nil
}

