package config

import (
	"os"
	"strings"
	"sync/atomic"
)

// Credentials is a snapshot of the outbound API keys.
type Credentials struct {
	GeminiKey      string
	OpenRouterKey  string
	GoogleBooksKey string
}

// KeyConfigured reports whether key is set to something other than its placeholder.
func KeyConfigured(key, placeholder string) bool {
	key = strings.TrimSpace(key)
	return key != "" && key != placeholder
}

// GeminiConfigured reports whether a usable Gemini key is present.
func (c Credentials) GeminiConfigured() bool {
	return KeyConfigured(c.GeminiKey, PlaceholderGeminiKey)
}

// OpenRouterConfigured reports whether a usable OpenRouter key is present.
func (c Credentials) OpenRouterConfigured() bool {
	return KeyConfigured(c.OpenRouterKey, PlaceholderOpenRouterKey)
}

// GoogleBooksConfigured reports whether a usable Google Books key is present.
func (c Credentials) GoogleBooksConfigured() bool {
	return KeyConfigured(c.GoogleBooksKey, PlaceholderGoogleBooksKey)
}

// LogAttrs reports which credentials are usable, never their values.
func (c Credentials) LogAttrs() []any {
	return []any{
		"gemini_configured", c.GeminiConfigured(),
		"openrouter_configured", c.OpenRouterConfigured(),
		"google_books_configured", c.GoogleBooksConfigured(),
	}
}

// Environment variable names per credential, in lookup order.
var (
	geminiKeyVars      = []string{"GOOGLE_AI_STUDIO_API_KEY", "NEXT_PUBLIC_GOOGLE_AI_STUDIO_API_KEY"}
	openRouterKeyVars  = []string{"OPENROUTER_API_KEY", "NEXT_PUBLIC_OPENROUTER_API_KEY"}
	googleBooksKeyVars = []string{"GOOGLE_BOOKS_API_KEY", "NEXT_PUBLIC_GOOGLE_BOOKS_API_KEY", "GOOGLE_BOOKS_KEY"}
)

func credentialVars() []string {
	all := make([]string, 0, len(geminiKeyVars)+len(openRouterKeyVars)+len(googleBooksKeyVars))
	all = append(all, geminiKeyVars...)
	all = append(all, openRouterKeyVars...)
	return append(all, googleBooksKeyVars...)
}

// snapshotEnv captures credential variables set in the process environment
// before any .env file is applied. These always win over file values.
func snapshotEnv() map[string]string {
	pinned := make(map[string]string)
	for _, k := range credentialVars() {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			pinned[k] = v
		}
	}
	return pinned
}

// resolveCredentials picks each credential from pinned env first, then file values.
func resolveCredentials(pinned, file map[string]string) Credentials {
	pick := func(keys []string) string {
		for _, k := range keys {
			if v := pinned[k]; v != "" {
				return v
			}
		}
		for _, k := range keys {
			if v := strings.TrimSpace(file[k]); v != "" {
				return v
			}
		}
		return ""
	}
	return Credentials{
		GeminiKey:      pick(geminiKeyVars),
		OpenRouterKey:  pick(openRouterKeyVars),
		GoogleBooksKey: pick(googleBooksKeyVars),
	}
}

// CredentialStore holds the current credentials. Safe for concurrent use.
type CredentialStore struct {
	current atomic.Pointer[Credentials]
}

// NewCredentialStore creates a store seeded with initial.
func NewCredentialStore(initial Credentials) *CredentialStore {
	s := &CredentialStore{}
	s.Store(initial)
	return s
}

// Load returns the current credentials.
func (s *CredentialStore) Load() Credentials {
	if c := s.current.Load(); c != nil {
		return *c
	}
	return Credentials{}
}

// Store replaces the current credentials.
func (s *CredentialStore) Store(c Credentials) {
	s.current.Store(&c)
}
