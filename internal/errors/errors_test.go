package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode_HTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, CodeNotFound.HTTPStatus())
	assert.Equal(t, http.StatusBadRequest, CodeValidation.HTTPStatus())
	assert.Equal(t, http.StatusTooManyRequests, CodeRateLimited.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, CodeConfigurationAbsent.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, CodeUpstream.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, Code("SOMETHING_ELSE").HTTPStatus())
}

func TestError_IsMatchesByCode(t *testing.T) {
	err := ConfigurationAbsent("google books key missing")
	assert.True(t, Is(err, ErrConfigurationAbsent))
	assert.False(t, Is(err, ErrNotFound))

	wrapped := fmt.Errorf("lookup: %w", err)
	assert.True(t, Is(wrapped, ErrConfigurationAbsent))
}

func TestUpstream_UnwrapsCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := Upstream(cause, "catalog unavailable")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "catalog unavailable: connection refused", err.Error())
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus())
}

func TestWithDetails_Copies(t *testing.T) {
	base := Validation("bad input")
	detailed := base.WithDetails(map[string]string{"title": "is required"})

	assert.Nil(t, base.Details)
	assert.NotNil(t, detailed.Details)
	assert.Equal(t, base.Code, detailed.Code)
}
