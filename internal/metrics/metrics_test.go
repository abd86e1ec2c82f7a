package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.GateDecision(GateAllowed)
	m.GateDecision(GateAllowed)
	m.GateDecision(GateMissing)
	m.ProbeResult(ProbeExpired)
	m.TokenIssued("access", "renew")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.gate.WithLabelValues(GateAllowed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.gate.WithLabelValues(GateMissing)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.probe.WithLabelValues(ProbeExpired)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.issued.WithLabelValues("access", "renew")))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.GateDecision(GateAllowed)
	m.ProbeResult(ProbeValid)
	m.TokenIssued("access", "login")
	assert.Nil(t, m.Registry())

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestMiddlewareAndHandler(t *testing.T) {
	m := New()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/projects/:id", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "Project not found")
	})
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/projects/42", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	assert.Equal(t, 1, testutil.CollectAndCount(m.requests, "portfolio_http_request_duration_seconds"))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `route="/api/projects/:id"`)
	assert.Contains(t, rec.Body.String(), `status="404"`)
}
