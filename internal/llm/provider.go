// Package llm holds the hosted language model adapters used to synthesize
// recommendations.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Provider names.
const (
	NameGemini     = "gemini"
	NameOpenRouter = "openrouter"
)

// Sentinel errors for provider calls.
var (
	// ErrProviderCall marks a failed provider call: network error, non-2xx
	// status or an open circuit.
	ErrProviderCall = errors.New("llm: provider call failed")

	// ErrEmptyResponse means the provider answered 2xx without any text.
	ErrEmptyResponse = errors.New("llm: empty response")

	// ErrNotConfigured means the provider has no usable credential.
	ErrNotConfigured = errors.New("llm: provider not configured")
)

// Provider generates text for a prompt.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// StatusError is a non-2xx provider response.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string // first 1KB
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: status %d", e.Provider, e.StatusCode)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	return ErrProviderCall
}

const (
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 1024
	maxBody        = 4 << 20
)

type options struct {
	http    *http.Client
	baseURL string
	model   string
	apiKey  func() string
}

// Option configures a provider adapter.
type Option func(*options)

// WithAPIKey supplies the key at request time so reloaded credentials apply
// without rebuilding the adapter.
func WithAPIKey(key func() string) Option {
	return func(o *options) { o.apiKey = key }
}

// WithModel overrides the default model.
func WithModel(model string) Option {
	return func(o *options) {
		if model != "" {
			o.model = model
		}
	}
}

// WithBaseURL overrides the API root.
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = strings.TrimRight(u, "/") }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(o *options) { o.http = h }
}

func newOptions(baseURL, model string, opts []Option) options {
	o := options{
		http:    &http.Client{Timeout: defaultTimeout},
		baseURL: baseURL,
		model:   model,
		apiKey:  func() string { return "" },
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// usableKey trims k and discards the sample value shipped in example .env files.
func usableKey(k, placeholder string) string {
	k = strings.TrimSpace(k)
	if k == placeholder {
		return ""
	}
	return k
}
