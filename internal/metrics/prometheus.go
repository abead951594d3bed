package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusMetrics exposes counters and histograms on its own registry
type PrometheusMetrics struct {
	registry *prometheus.Registry

	apiRequests      *prometheus.CounterVec
	apiLatency       *prometheus.HistogramVec
	generations      *prometheus.CounterVec
	generationTiming *prometheus.HistogramVec
	tokens           *prometheus.CounterVec
}

// NewPrometheusMetrics registers the stylist collectors plus the Go/process collectors
func NewPrometheusMetrics() *PrometheusMetrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		registry: reg,
		apiRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stylist",
			Name:      "api_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"endpoint", "status"}),
		apiLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "stylist",
			Name:      "api_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		generations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stylist",
			Name:      "generations_total",
			Help:      "Image generations by mode, model and outcome.",
		}, []string{"mode", "model", "outcome"}),
		generationTiming: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "stylist",
			Name:      "generation_duration_seconds",
			Help:      "Time spent waiting on the image generation service.",
			Buckets:   []float64{1, 2.5, 5, 10, 20, 40, 60, 120},
		}, []string{"mode"}),
		tokens: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stylist",
			Name:      "tokens_total",
			Help:      "Tokens reported by the image generation service.",
		}, []string{"model", "direction"}),
	}
}

// Handler serves the registry in the Prometheus text format
func (m *PrometheusMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry is exposed for tests
func (m *PrometheusMetrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *PrometheusMetrics) RecordAPIRequest(_ context.Context, endpoint string, statusCode int, duration time.Duration) {
	m.apiRequests.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
	m.apiLatency.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *PrometheusMetrics) RecordGeneration(_ context.Context, mode, model, outcome string, duration time.Duration) {
	m.generations.WithLabelValues(mode, model, outcome).Inc()
	m.generationTiming.WithLabelValues(mode).Observe(duration.Seconds())
}

func (m *PrometheusMetrics) RecordTokenUsage(_ context.Context, model string, inputTokens, outputTokens, _ int) {
	m.tokens.WithLabelValues(model, "input").Add(float64(inputTokens))
	m.tokens.WithLabelValues(model, "output").Add(float64(outputTokens))
}
