// Package metrics exposes Prometheus metrics for the HTTP API, athlete
// matching and draft generation.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "varsitylink"

// Draft results recorded by ObserveDraft.
const (
	DraftOK            = "ok"
	DraftParseError    = "parse_error"
	DraftGenerateError = "generate_error"
)

// Metrics owns a private registry. A nil *Metrics is valid and records
// nothing, which keeps tests and commands without a server simple.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	matchRequests   prometheus.Counter
	matchCandidates prometheus.Histogram

	draftResults       *prometheus.CounterVec
	draftFieldOutcomes *prometheus.CounterVec

	generateDuration *prometheus.HistogramVec
	generateAttempts prometheus.Histogram
}

// New registers every collector on a fresh registry, including the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	auto := promauto.With(reg)

	return &Metrics{
		registry: reg,

		httpRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by endpoint, method and status code.",
		}, []string{"endpoint", "method", "code"}),

		httpRequestDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint", "method"}),

		matchRequests: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "matching",
			Name:      "requests_total",
			Help:      "Athlete matching runs.",
		}),

		matchCandidates: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "matching",
			Name:      "candidates",
			Help:      "Athletes scored per matching run.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),

		draftResults: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "drafts",
			Name:      "generated_total",
			Help:      "Draft generations by kind and result.",
		}, []string{"kind", "result"}),

		draftFieldOutcomes: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "drafts",
			Name:      "field_outcomes_total",
			Help:      "Normalized draft fields by kind and outcome.",
		}, []string{"kind", "outcome"}),

		generateDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ai",
			Name:      "generate_duration_seconds",
			Help:      "Latency of generative model calls, retries included.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
		}, []string{"model", "result"}),

		generateAttempts: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ai",
			Name:      "generate_attempts",
			Help:      "Attempts needed per generative model call.",
			Buckets:   []float64{1, 2, 3, 5, 8},
		}),
	}
}

// Registry is exposed for tests and for registering extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveHTTP(endpoint, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method).Observe(d.Seconds())
}

func (m *Metrics) ObserveMatch(candidates int) {
	if m == nil {
		return
	}
	m.matchRequests.Inc()
	m.matchCandidates.Observe(float64(candidates))
}

func (m *Metrics) ObserveDraft(kind, result string) {
	if m == nil {
		return
	}
	m.draftResults.WithLabelValues(kind, result).Inc()
}

func (m *Metrics) ObserveDraftFields(kind, outcome string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.draftFieldOutcomes.WithLabelValues(kind, outcome).Add(float64(n))
}

// ObserveGenerate records one generative call. result is "ok" or "error".
func (m *Metrics) ObserveGenerate(model, result string, attempts int, d time.Duration) {
	if m == nil {
		return
	}
	m.generateDuration.WithLabelValues(model, result).Observe(d.Seconds())
	m.generateAttempts.Observe(float64(attempts))
}
