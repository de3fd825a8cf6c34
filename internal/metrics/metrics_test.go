package metrics_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alovak/checkout-relay/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareCountsByRoute(t *testing.T) {
	m := metrics.New()

	router := chi.NewRouter()
	router.Use(m.Middleware)
	router.Post("/complete_order", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/complete_order", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	body := scrape(t, m)
	require.Contains(t, body, `relay_requests_total{code="200",route="/complete_order"} 3`)
}

func TestObserveUpstream(t *testing.T) {
	m := metrics.New()

	m.ObserveUpstream("create_order", time.Now(), nil)
	m.ObserveUpstream("create_order", time.Now(), errors.New("boom"))

	body := scrape(t, m)
	require.Contains(t, body, `relay_upstream_requests_total{call="create_order",outcome="ok"} 1`)
	require.Contains(t, body, `relay_upstream_requests_total{call="create_order",outcome="error"} 1`)
	require.Contains(t, body, `relay_upstream_duration_seconds_count{call="create_order"} 2`)
}

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)
	return string(body)
}
