package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/kasir/pkg/metrics"
)

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(metrics.Middleware())
	r.Get("/api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(metrics.RequestTotal.WithLabelValues("GET", "/api/products/{id}", "418"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/products/7", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/products/8", nil))
	after := testutil.ToFloat64(metrics.RequestTotal.WithLabelValues("GET", "/api/products/{id}", "418"))

	assert.Equal(t, 2.0, after-before)
}

func TestRecordOrderAndLogin(t *testing.T) {
	before := testutil.ToFloat64(metrics.OrdersCreated.WithLabelValues("qris"))
	metrics.RecordOrder("qris", 21000)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.OrdersCreated.WithLabelValues("qris"))-before)

	failures := testutil.ToFloat64(metrics.LoginAttempts.WithLabelValues("failure"))
	metrics.RecordLogin(false)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.LoginAttempts.WithLabelValues("failure"))-failures)
}

func TestHandlerExposesRegistry(t *testing.T) {
	rec := httptest.NewRecorder()
	metrics.Handler()(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "kasir_http_requests_in_flight")
}
