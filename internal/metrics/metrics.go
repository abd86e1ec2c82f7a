// Package metrics exposes Prometheus counters for token handling and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Gatekeeper outcomes.
const (
	GateMissing  = "missing"
	GateInvalid  = "invalid"
	GateExpired  = "expired"
	GateAllowed  = "allowed"
	GateRenewed  = "renewed"
	GateConfig   = "config_error"
	ProbeNone    = "none"
	ProbeValid   = "valid"
	ProbeRenewed = "renewed"
	ProbeExpired = "expired"
	ProbeInvalid = "invalid"
)

type Metrics struct {
	registry *prometheus.Registry

	gate     *prometheus.CounterVec
	probe    *prometheus.CounterVec
	issued   *prometheus.CounterVec
	requests *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		gate: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portfolio",
			Name:      "auth_gate_decisions_total",
			Help:      "Token gatekeeper decisions by outcome.",
		}, []string{"outcome"}),
		probe: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portfolio",
			Name:      "auth_probe_results_total",
			Help:      "Validity probe answers by result.",
		}, []string{"result"}),
		issued: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portfolio",
			Name:      "auth_tokens_issued_total",
			Help:      "Tokens minted by kind and reason.",
		}, []string{"kind", "reason"}),
		requests: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "portfolio",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) GateDecision(outcome string) {
	if m == nil {
		return
	}
	m.gate.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ProbeResult(result string) {
	if m == nil {
		return
	}
	m.probe.WithLabelValues(result).Inc()
}

func (m *Metrics) TokenIssued(kind, reason string) {
	if m == nil {
		return
	}
	m.issued.WithLabelValues(kind, reason).Inc()
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request latency labelled by the matched route.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if m == nil {
				return next(c)
			}
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			} else if err != nil {
				status = http.StatusInternalServerError
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.requests.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).
				Observe(time.Since(start).Seconds())
			return err
		}
	}
}
