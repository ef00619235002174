package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentHandler_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(InstrumentHandler)
	r.Get("/api/v1/packages/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/v1/packages/{id}", "418"))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/packages/abc", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/v1/packages/{id}", "418"))
	assert.Equal(t, before+1, after)
}

func TestRecordTransition(t *testing.T) {
	before := testutil.ToFloat64(workflowTransitions.WithLabelValues("payment", "verified"))
	RecordTransition("payment", "verified")
	assert.Equal(t, before+1, testutil.ToFloat64(workflowTransitions.WithLabelValues("payment", "verified")))
}

func TestHandlerExposesRegistry(t *testing.T) {
	RecordJobRun("dashboard_refresh", 0, true)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "agrofund_jobs_runs_total"))
}
