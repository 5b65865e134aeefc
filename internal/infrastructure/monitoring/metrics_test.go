package monitoring

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pantrymatch/v1/internal/ports/outbound"
)

func TestMetricsCollector_EngineMetrics(t *testing.T) {
	m := NewMetricsCollector(zap.NewNop())

	m.RecordResolution(outbound.ResolutionCreated)
	m.RecordResolution(outbound.ResolutionMatched)
	m.RecordResolution(outbound.ResolutionMatched)
	m.RecordRecommendations(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.resolutionsTotal.WithLabelValues(outbound.ResolutionMatched)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resolutionsTotal.WithLabelValues(outbound.ResolutionCreated)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.recommendationsSize))
}

func TestMetricsCollector_ObserveQuery(t *testing.T) {
	m := NewMetricsCollector(zap.NewNop())

	m.ObserveQuery("query", 3*time.Millisecond, nil)
	m.ObserveQuery("create", time.Millisecond, errors.New("constraint"))

	assert.Equal(t, 0.0, testutil.ToFloat64(m.dbQueryErrors.WithLabelValues("query")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dbQueryErrors.WithLabelValues("create")))
}

func TestMetricsCollector_HTTPMiddlewareUsesRoutePattern(t *testing.T) {
	// Arrange
	m := NewMetricsCollector(zap.NewNop())
	r := chi.NewRouter()
	r.Use(m.HTTPMiddleware)
	r.Get("/recipes/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	// Act
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/recipes/42", nil))

	// Assert
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/recipes/{id}", "418")))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "pantrymatch_http_requests_total"))
}

func TestTracingProvider_Disabled(t *testing.T) {
	tp, err := NewTracingProvider(context.Background(), TracingConfig{Enabled: false}, zap.NewNop())

	require.NoError(t, err)
	assert.False(t, tp.Enabled())
	assert.NoError(t, tp.Shutdown(context.Background()))
	assert.Empty(t, TraceIDFromContext(context.Background()))
}
