package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCountsRequests(t *testing.T) {
	m := NewRequestMetrics()

	m.Observe("/api/products", "GET", 200, 15*time.Millisecond)
	m.Observe("/api/products", "GET", 200, 5*time.Millisecond)
	m.Observe("/api/orders", "POST", 500, time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.total.WithLabelValues("/api/products", "GET", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.total.WithLabelValues("/api/orders", "POST", "500")))
}

func TestHandlerExposesTextFormat(t *testing.T) {
	m := NewRequestMetrics()
	m.Observe("/api/health", "GET", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, 200, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "http_requests_total"))
}

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *RequestMetrics
	m.Observe("/x", "GET", 200, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 404, rec.Code)
}
