package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordProviderCall(t *testing.T) {
	before := testutil.ToFloat64(ProviderRequests.WithLabelValues("gemini", OutcomeSuccess))
	RecordProviderCall("gemini", 120*time.Millisecond, OutcomeSuccess)
	after := testutil.ToFloat64(ProviderRequests.WithLabelValues("gemini", OutcomeSuccess))

	assert.Equal(t, before+1, after)
}

func TestRecordCatalogCall_Outcomes(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		results int
		outcome string
	}{
		{"success", nil, 3, OutcomeSuccess},
		{"empty", nil, 0, OutcomeEmpty},
		{"failure", errors.New("boom"), 0, OutcomeFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := CatalogRequests.WithLabelValues("test-source", tt.outcome)
			before := testutil.ToFloat64(c)
			RecordCatalogCall("test-source", tt.err, tt.results)
			assert.Equal(t, before+1, testutil.ToFloat64(c))
		})
	}
}

func TestRecordCacheLookup(t *testing.T) {
	hit := CacheLookups.WithLabelValues("test", "hit")
	miss := CacheLookups.WithLabelValues("test", "miss")
	failed := CacheLookups.WithLabelValues("test", "error")

	h, m, e := testutil.ToFloat64(hit), testutil.ToFloat64(miss), testutil.ToFloat64(failed)

	RecordCacheLookup("test", true, nil)
	RecordCacheLookup("test", false, nil)
	RecordCacheLookup("test", true, errors.New("down"))

	assert.Equal(t, h+1, testutil.ToFloat64(hit))
	assert.Equal(t, m+1, testutil.ToFloat64(miss))
	assert.Equal(t, e+1, testutil.ToFloat64(failed))
}

func TestRecordRecommendation(t *testing.T) {
	c := Recommendations.WithLabelValues("vibe", "fallback")
	before := testutil.ToFloat64(c)
	RecordRecommendation("vibe", "fallback")
	assert.Equal(t, before+1, testutil.ToFloat64(c))
}
