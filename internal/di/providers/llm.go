package providers

import (
	"github.com/samber/do/v2"

	"github.com/vibereader/vibereader-server/internal/api"
	"github.com/vibereader/vibereader-server/internal/config"
	"github.com/vibereader/vibereader-server/internal/llm"
	"github.com/vibereader/vibereader-server/internal/logger"
	"github.com/vibereader/vibereader-server/internal/recommend"
)

// LLMProviders holds the breaker-wrapped language model adapters.
type LLMProviders struct {
	Gemini     *llm.Breaker
	OpenRouter *llm.Breaker
}

// ByID maps each adapter to its provider ID for the recommendation chain.
func (p *LLMProviders) ByID() map[recommend.ProviderID]llm.Provider {
	return map[recommend.ProviderID]llm.Provider{
		recommend.ProviderGemini:     p.Gemini,
		recommend.ProviderOpenRouter: p.OpenRouter,
	}
}

// States lists the adapters for health and status reporting.
func (p *LLMProviders) States() []api.ProviderState {
	return []api.ProviderState{p.Gemini, p.OpenRouter}
}

// ProvideLLMProviders provides the Gemini and OpenRouter adapters.
// Keys are read from the credential store on every call.
func ProvideLLMProviders(i do.Injector) (*LLMProviders, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	creds := do.MustInvoke[*config.CredentialStore](i)

	gemini := llm.NewGemini(log.WithComponent("gemini"),
		llm.WithAPIKey(func() string { return creds.Load().GeminiKey }),
		llm.WithModel(cfg.Providers.GeminiModel),
		llm.WithTimeout(cfg.Providers.Timeout),
	)
	openRouter := llm.NewOpenRouter(log.WithComponent("openrouter"),
		llm.WithAPIKey(func() string { return creds.Load().OpenRouterKey }),
		llm.WithModel(cfg.Providers.OpenRouterModel),
		llm.WithTimeout(cfg.Providers.Timeout),
	)

	breakerLog := log.WithComponent("breaker")
	p := &LLMProviders{
		Gemini:     llm.NewBreaker(gemini, llm.BreakerConfig{}, breakerLog),
		OpenRouter: llm.NewBreaker(openRouter, llm.BreakerConfig{}, breakerLog),
	}

	log.Info("LLM providers initialized",
		"gemini_model", gemini.Model(),
		"openrouter_model", openRouter.Model(),
		"selected", recommend.SelectProvider(creds.Load()),
	)

	return p, nil
}
