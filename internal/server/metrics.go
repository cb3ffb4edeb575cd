package server

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the API server. Each server carries
// its own registry so instances never collide on registration.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	GradingsTotal   *prometheus.CounterVec
	GradingDuration prometheus.Histogram
	ActiveRequests  prometheus.Gauge
}

// NewMetrics creates and registers the server metrics on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "demoday_http_requests_total",
				Help: "Total HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),

		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "demoday_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds by method and route",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~20s
			},
			[]string{"method", "route"},
		),

		GradingsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "demoday_gradings_total",
				Help: "Total grading runs by outcome",
			},
			[]string{"outcome"}, // "success" or "error"
		),

		GradingDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "demoday_grading_duration_seconds",
				Help:    "Wall-clock duration of a full grading run",
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 10), // 500ms to ~4m
			},
		),

		ActiveRequests: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "demoday_http_active_requests",
				Help: "Number of in-flight HTTP requests",
			},
		),
	}
}

// Registry exposes the underlying registry for the /metrics handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware returns an Echo middleware that records per-request metrics.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			m.ActiveRequests.Inc()

			err := next(c)

			m.ActiveRequests.Dec()
			route := c.Path()
			if route == "" {
				route = "/"
			}
			method := c.Request().Method
			status := strconv.Itoa(c.Response().Status)

			m.RequestsTotal.WithLabelValues(method, route, status).Inc()
			m.RequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// RecordGrading records the outcome and duration of one grading run.
func (m *Metrics) RecordGrading(outcome string, duration time.Duration) {
	m.GradingsTotal.WithLabelValues(outcome).Inc()
	m.GradingDuration.Observe(duration.Seconds())
}
