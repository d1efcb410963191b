package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GhOsCoDeR/electrify-ecom-hub-sub000/internal/metrics"
)

func TestMetricsMiddleware_LabelsByRoutePattern(t *testing.T) {
	m := metrics.NewServerMetrics("middleware_test")

	router := chi.NewRouter()
	router.Use(MetricsMiddleware(m))
	router.Get("/api/v1/products/{productID}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Distinct product ids collapse into one label value.
	for _, path := range []string{"/api/v1/products/1", "/api/v1/products/2"} {
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest("GET", path, nil))
		require.Equal(t, http.StatusOK, recorder.Code)
	}

	counter := m.Requests.WithLabelValues("GET /api/v1/products/{productID}", "200")
	assert.Equal(t, 2.0, testutil.ToFloat64(counter))
}
