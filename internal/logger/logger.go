// Package logger builds the structured slog logger used across the server.
// Development gets a colored single-line format; production gets JSON.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	formatJSON   = "json"
	formatPretty = "pretty"

	redacted = "[REDACTED]"
)

// Logger wraps slog.Logger with a few helpers.
type Logger struct {
	*slog.Logger
}

// Config holds logger configuration.
type Config struct {
	Writer      io.Writer
	Format      string
	Environment string
	Level       slog.Level
	AddSource   bool
}

// New creates a logger from cfg. An empty Format is derived from Environment.
func New(cfg Config) *Logger {
	if cfg.Writer == nil {
		cfg.Writer = os.Stdout
	}
	if cfg.Format == "" {
		cfg.Format = formatPretty
		if cfg.Environment == "production" {
			cfg.Format = formatJSON
		}
	}

	opts := &slog.HandlerOptions{
		Level:       cfg.Level,
		AddSource:   cfg.AddSource,
		ReplaceAttr: replaceAttr,
	}

	var handler slog.Handler
	if cfg.Format == formatJSON {
		handler = slog.NewJSONHandler(cfg.Writer, opts)
	} else {
		handler = NewPrettyHandler(cfg.Writer, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// ParseLevel converts a string to slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithComponent returns a child logger tagged with a component name.
func (l *Logger) WithComponent(name string) *slog.Logger {
	return l.With(slog.String("component", name))
}

// WithError adds an error attribute to the logger.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{Logger: l.With(slog.String("error", err.Error()))}
}

// secretKeys are attribute keys whose values are never written.
var secretKeys = map[string]bool{
	"api_key":       true,
	"apikey":        true,
	"key":           true,
	"authorization": true,
	"token":         true,
	"password":      true,
}

// Matches key=... in query strings so URLs can be logged safely.
var queryKeyPattern = regexp.MustCompile(`([?&](?:key|api_key)=)[^&\s]+`)

// Matches "Bearer <token>" values.
var bearerPattern = regexp.MustCompile(`(?i)(bearer\s+)\S+`)

// replaceAttr shortens source paths and redacts credentials.
func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.SourceKey {
		if source, ok := a.Value.Any().(*slog.Source); ok {
			source.File = filepath.Base(source.File)
		}
		return a
	}

	if secretKeys[strings.ToLower(a.Key)] {
		if a.Value.Kind() == slog.KindString && a.Value.String() == "" {
			return a
		}
		return slog.String(a.Key, redacted)
	}

	if a.Value.Kind() == slog.KindString {
		if s := a.Value.String(); strings.ContainsAny(s, "?&") || strings.Contains(strings.ToLower(s), "bearer") {
			return slog.String(a.Key, RedactString(s))
		}
	}
	return a
}

// RedactString masks key query parameters and bearer tokens inside s.
func RedactString(s string) string {
	s = queryKeyPattern.ReplaceAllString(s, "${1}"+redacted)
	return bearerPattern.ReplaceAllString(s, "${1}"+redacted)
}
