package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordMutation_CountsByResult(t *testing.T) {
	m := New()

	m.RecordMutation("axolotl", "create", nil)
	m.RecordMutation("axolotl", "create", nil)
	m.RecordMutation("axolotl", "create", errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.mutations.WithLabelValues("axolotl", "create", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.mutations.WithLabelValues("axolotl", "create", "error")))
}

func TestNilMetrics_IsSafe(t *testing.T) {
	var m *Metrics
	m.RecordMutation("axolotl", "create", nil)
	m.ObserveRequest("GET", "/api/health", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_ExposesCollectors(t *testing.T) {
	m := New()
	m.ObserveRequest("GET", "/api/health", 200, 3*time.Millisecond)
	m.RecordMutation("breeding_event", "soft_delete", nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "axolotary_http_request_duration_seconds"))
	assert.True(t, strings.Contains(body, `axolotary_record_mutations_total{entity="breeding_event",op="soft_delete",result="ok"} 1`))
}
