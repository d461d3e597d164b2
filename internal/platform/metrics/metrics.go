package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the server.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	DiagnosesCreated prometheus.Counter
}

// New creates a registry and registers all server metrics on it.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "enzian_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "enzian_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		DiagnosesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "enzian_diagnoses_created_total",
			Help: "Total number of diagnosis records created.",
		}),
	}
}

// IncrementDiagnosesCreated increments the diagnoses created counter by 1.
func (m *Metrics) IncrementDiagnosesCreated() {
	m.DiagnosesCreated.Inc()
}

// Middleware returns an Echo middleware that records request count and
// duration per route pattern.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()

			err := next(c)

			route := c.Path()
			if route == "" {
				route = req.URL.Path
			}
			status := strconv.Itoa(c.Response().Status)

			m.RequestsTotal.WithLabelValues(req.Method, route, status).Inc()
			m.RequestDuration.WithLabelValues(req.Method, route).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// Handler serves the registry in Prometheus text exposition format.
func (m *Metrics) Handler() echo.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return echo.WrapHandler(h)
}
