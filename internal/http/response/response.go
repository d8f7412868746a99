// Package response writes the JSON error envelope for requests that never
// reach a huma operation, such as unknown paths and disallowed methods.
package response

import (
	"encoding/json/v2"
	"log/slog"
	"net/http"

	domainerrors "github.com/vibereader/vibereader-server/internal/errors"
)

// Envelope is the error body shared with the API handlers.
type Envelope struct {
	OK     bool   `json:"ok"`
	Cached bool   `json:"cached"`
	Error  string `json:"error"`
	Code   string `json:"code"`
}

// Error writes an error envelope with the given status code using json/v2.
func Error(w http.ResponseWriter, status int, code domainerrors.Code, message string, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	envelope := Envelope{
		OK:    false,
		Error: message,
		Code:  string(code),
	}

	if err := json.MarshalWrite(w, envelope); err != nil {
		if logger != nil {
			logger.Error("Failed to encode error response", "error", err)
		}
	}
}

// NotFound returns a handler for unmatched routes.
func NotFound(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		Error(w, http.StatusNotFound, domainerrors.CodeNotFound, "Not found", logger)
	}
}

// MethodNotAllowed returns a handler for routes matched with the wrong method.
func MethodNotAllowed(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		Error(w, http.StatusMethodNotAllowed, domainerrors.CodeValidation, "Method not allowed", logger)
	}
}
