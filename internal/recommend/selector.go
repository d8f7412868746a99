// Package recommend turns quiz preferences or a vibe into a ranked list of
// book recommendations.
//
// A request walks a fixed chain, one attempt per stage:
//
//	Gemini -> OpenRouter -> catalog fallback -> curated shelf (optional) -> empty
//
// Provider stages run prompt synthesis, the provider call, JSON extraction
// and catalog enrichment. Any failure moves on to the next stage, so callers
// only ever see an error for context cancellation.
package recommend

import "github.com/vibereader/vibereader-server/internal/config"

// ProviderID names a recommendation strategy.
type ProviderID string

// Provider IDs in priority order.
const (
	ProviderGemini     ProviderID = "gemini"
	ProviderOpenRouter ProviderID = "openrouter"
	ProviderFallback   ProviderID = "fallback"
)

// CredentialSource supplies the current credentials.
// It is read on every request so reloaded keys apply at once.
type CredentialSource interface {
	Load() config.Credentials
}

// SelectProvider picks the highest-priority configured provider.
func SelectProvider(creds config.Credentials) ProviderID {
	if chain := ProviderChain(creds); len(chain) > 0 {
		return chain[0]
	}
	return ProviderFallback
}

// ProviderChain lists the configured providers in priority order.
// It is empty when only the fallback is available.
func ProviderChain(creds config.Credentials) []ProviderID {
	var chain []ProviderID
	if creds.GeminiConfigured() {
		chain = append(chain, ProviderGemini)
	}
	if creds.OpenRouterConfigured() {
		chain = append(chain, ProviderOpenRouter)
	}
	return chain
}
