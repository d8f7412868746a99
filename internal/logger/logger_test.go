package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: slog.LevelInfo, Format: "json", Writer: &buf})
	log.Info("test message")

	assert.Contains(t, buf.String(), `"msg":"test message"`)
	assert.Contains(t, buf.String(), `"level":"INFO"`)
}

func TestNew_FormatFromEnvironment(t *testing.T) {
	tests := []struct {
		environment string
		wantJSON    bool
	}{
		{"production", true},
		{"development", false},
		{"staging", false},
	}

	for _, tt := range tests {
		t.Run(tt.environment, func(t *testing.T) {
			var buf bytes.Buffer
			New(Config{Environment: tt.environment, Writer: &buf}).Info("hello")

			if tt.wantJSON {
				assert.Contains(t, buf.String(), `"msg":"hello"`)
			} else {
				assert.Contains(t, buf.String(), "INF")
				assert.Contains(t, buf.String(), "hello")
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestRedaction_SecretKeys(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Format: "json", Writer: &buf})
	log.Info("provider configured", "api_key", "sk-live-123", "provider", "gemini")

	out := buf.String()
	assert.NotContains(t, out, "sk-live-123")
	assert.Contains(t, out, redacted)
	assert.Contains(t, out, "gemini")
}

func TestRedaction_URLQueryAndBearer(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Format: "pretty", Writer: &buf})
	log.Info("request",
		"url", "https://example.com/v1/models?key=AIzaSecret&alt=json",
		"header", "Bearer or-secret",
	)

	out := buf.String()
	assert.NotContains(t, out, "AIzaSecret")
	assert.NotContains(t, out, "or-secret")
	assert.Contains(t, out, "alt=json")
}

func TestRedactString(t *testing.T) {
	assert.Equal(t, "/volumes?q=dune&key=[REDACTED]", RedactString("/volumes?q=dune&key=abc"))
	assert.Equal(t, "no secrets here", RedactString("no secrets here"))
}

func TestPrettyHandler_GroupsAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Format: "pretty", Writer: &buf})
	log.With("component", "catalog").WithGroup("req").Info("search", "query", "dune")

	out := buf.String()
	assert.Contains(t, out, "component=catalog")
	assert.Contains(t, out, "req.query=dune")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestPrettyHandler_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Format: "pretty", Level: slog.LevelWarn, Writer: &buf})
	log.Info("hidden")
	log.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "WRN")
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Format: "json", Writer: &buf})
	log.WithError(errors.New("boom")).Error("failed")

	assert.Contains(t, buf.String(), `"error":"boom"`)
}
