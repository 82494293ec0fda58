package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitPrometheusIsIdempotent(t *testing.T) {
	require.NotPanics(t, InitPrometheus)
	require.NotPanics(t, InitPrometheus)
}

func TestHandlerExposesCollectors(t *testing.T) {
	InitPrometheus()
	PairsCompared.WithLabelValues("fingerprint").Add(3)
	assert.Equal(t, 3.0, testutil.ToFloat64(PairsCompared.WithLabelValues("fingerprint")))

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "codeplag_pairs_compared_total")
}
