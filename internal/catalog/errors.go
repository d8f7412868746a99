package catalog

import (
	"errors"
	"fmt"

	"github.com/vibereader/vibereader-server/internal/domain"
)

// Sentinel errors for catalog operations.
var (
	ErrNotFound    = errors.New("catalog: not found")
	ErrRateLimited = errors.New("catalog: rate limited by server")
	ErrBadRequest  = errors.New("catalog: bad request")
	ErrServer      = errors.New("catalog: server error")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op     string // Operation: "search", "fetch"
	Source domain.SourceSystem
	Query  string // query or ID, if applicable
	Err    error
}

func (e *Error) Error() string {
	if e.Query != "" {
		return fmt.Sprintf("%s %s [%q]: %v", e.Source, e.Op, e.Query, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Source, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WrapError creates an Error with context.
func WrapError(op string, source domain.SourceSystem, query string, err error) error {
	return &Error{
		Op:     op,
		Source: source,
		Query:  query,
		Err:    err,
	}
}
