package llm

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
)

const (
	// GeminiBaseURL is the Google AI Studio API root.
	GeminiBaseURL = "https://generativelanguage.googleapis.com"

	// GeminiDefaultModel is used when no model is configured.
	GeminiDefaultModel = "gemini-1.5-flash"

	// GeminiPlaceholderKey is the sample value from example .env files.
	GeminiPlaceholderKey = "your_google_ai_studio_api_key_here"

	geminiTemperature     = 0.7
	geminiMaxOutputTokens = 2000
)

// Gemini calls the Google AI Studio generateContent endpoint.
type Gemini struct {
	opts   options
	logger *slog.Logger
}

// NewGemini creates a Gemini adapter.
func NewGemini(logger *slog.Logger, opts ...Option) *Gemini {
	return &Gemini{
		opts:   newOptions(GeminiBaseURL, GeminiDefaultModel, opts),
		logger: logger,
	}
}

// Name implements Provider.
func (g *Gemini) Name() string { return NameGemini }

// Model returns the configured model.
func (g *Gemini) Model() string { return g.opts.model }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig struct {
		Temperature     float64 `json:"temperature"`
		MaxOutputTokens int     `json:"maxOutputTokens"`
	} `json:"generationConfig"`
}

// Generate implements Provider.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	key := usableKey(g.opts.apiKey(), GeminiPlaceholderKey)
	if key == "" {
		return "", ErrNotConfigured
	}

	var body geminiRequest
	body.Contents = []geminiContent{{Parts: []geminiPart{{Text: prompt}}}}
	body.GenerationConfig.Temperature = geminiTemperature
	body.GenerationConfig.MaxOutputTokens = geminiMaxOutputTokens

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?%s",
		g.opts.baseURL, url.PathEscape(g.opts.model), url.Values{"key": {key}}.Encode())

	g.logger.Debug("gemini request", "model", g.opts.model, "prompt_len", len(prompt))

	data, err := do(ctx, g.opts.http, NameGemini, http.MethodPost, endpoint, nil, body)
	if err != nil {
		return "", err
	}

	var payload GeminiPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", fmt.Errorf("%w: gemini: parse response: %w", ErrProviderCall, err)
	}
	return Response{Kind: KindGemini, Gemini: &payload}.Text()
}

// Model describes one entry of the models listing.
type Model struct {
	Name                       string   `json:"name"`
	DisplayName                string   `json:"displayName"`
	SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
}

// SupportsGenerate reports whether the model accepts generateContent.
func (m Model) SupportsGenerate() bool {
	return slices.Contains(m.SupportedGenerationMethods, "generateContent")
}

// ID is the model name without the "models/" prefix.
func (m Model) ID() string {
	return strings.TrimPrefix(m.Name, "models/")
}

// ListModels returns the models available to the configured key.
func (g *Gemini) ListModels(ctx context.Context) ([]Model, error) {
	key := usableKey(g.opts.apiKey(), GeminiPlaceholderKey)
	if key == "" {
		return nil, ErrNotConfigured
	}

	endpoint := g.opts.baseURL + "/v1beta/models?" + url.Values{"key": {key}}.Encode()
	data, err := do(ctx, g.opts.http, NameGemini, http.MethodGet, endpoint, nil, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Models []Model `json:"models"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("%w: gemini: parse models: %w", ErrProviderCall, err)
	}
	return resp.Models, nil
}
