package llm

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"net/http"
)

const (
	// OpenRouterBaseURL is the OpenRouter API root.
	OpenRouterBaseURL = "https://openrouter.ai"

	// OpenRouterDefaultModel is used when no model is configured.
	OpenRouterDefaultModel = "anthropic/claude-3.5-sonnet"

	// OpenRouterPlaceholderKey is the sample value from example .env files.
	OpenRouterPlaceholderKey = "your_openrouter_api_key_here"

	appTitle = "VibeReader"
)

// OpenRouter calls the OpenRouter chat completions endpoint.
type OpenRouter struct {
	opts   options
	logger *slog.Logger
}

// NewOpenRouter creates an OpenRouter adapter.
func NewOpenRouter(logger *slog.Logger, opts ...Option) *OpenRouter {
	return &OpenRouter{
		opts:   newOptions(OpenRouterBaseURL, OpenRouterDefaultModel, opts),
		logger: logger,
	}
}

// Name implements Provider.
func (o *OpenRouter) Name() string { return NameOpenRouter }

// Model returns the configured model.
func (o *OpenRouter) Model() string { return o.opts.model }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

// Generate implements Provider.
func (o *OpenRouter) Generate(ctx context.Context, prompt string) (string, error) {
	key := usableKey(o.opts.apiKey(), OpenRouterPlaceholderKey)
	if key == "" {
		return "", ErrNotConfigured
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+key)
	header.Set("X-Title", appTitle)

	body := chatRequest{
		Model:    o.opts.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}

	o.logger.Debug("openrouter request", "model", o.opts.model, "prompt_len", len(prompt))

	data, err := do(ctx, o.opts.http, NameOpenRouter, http.MethodPost, o.opts.baseURL+"/api/v1/chat/completions", header, body)
	if err != nil {
		return "", err
	}

	var payload OpenRouterPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("%w: openrouter: parse response: %w", ErrProviderCall, err)
	}
	return Response{Kind: KindOpenRouter, OpenRouter: &payload}.Text()
}
