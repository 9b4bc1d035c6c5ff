package web

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics interface {
	ObserveRequest(route string, status int, duration time.Duration)
	SetPlants(n int)
	IncOperation(op string, ok bool)
	// Handler serves the exposition format, or nil when metrics are off.
	Handler() http.Handler
}

type PrometheusMetrics struct {
	registry        *prometheus.Registry
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	plants          prometheus.Gauge
	operations      *prometheus.CounterVec
}

// NewMetrics returns a Prometheus-backed recorder on its own registry, or a
// no-op when disabled.
func NewMetrics(enabled bool) Metrics {
	if !enabled {
		return noopMetrics{}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		registry: reg,
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "plantcare_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"route", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "plantcare_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),

		plants: factory.NewGauge(prometheus.GaugeOpts{
			Name: "plantcare_plants",
			Help: "Number of plants in the collection",
		}),

		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "plantcare_operations_total",
			Help: "Collection mutations by operation and result",
		}, []string{"op", "result"}),
	}
}

func (m *PrometheusMetrics) ObserveRequest(route string, status int, duration time.Duration) {
	m.requestsTotal.WithLabelValues(route, statusBucket(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

func (m *PrometheusMetrics) SetPlants(n int) {
	m.plants.Set(float64(n))
}

func (m *PrometheusMetrics) IncOperation(op string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	m.operations.WithLabelValues(op, result).Inc()
}

func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func statusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

type noopMetrics struct{}

func (noopMetrics) ObserveRequest(string, int, time.Duration) {}
func (noopMetrics) SetPlants(int)                             {}
func (noopMetrics) IncOperation(string, bool)                 {}
func (noopMetrics) Handler() http.Handler                     { return nil }
