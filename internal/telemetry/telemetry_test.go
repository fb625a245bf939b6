package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

func TestTelemetry_ExportsCounters(t *testing.T) {
	tel, err := NewTelemetry(zap.NewNop())
	require.NoError(t, err)
	defer func() { _ = tel.Shutdown(context.Background()) }()

	counter, err := tel.Meter.Int64Counter("ncnews_test_events_total", metric.WithDescription("test events"))
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	w := httptest.NewRecorder()
	tel.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "ncnews_test_events_total")
}
