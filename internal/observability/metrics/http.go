package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	pipelineRequestsTotal   *prometheus.CounterVec
	strategyRequestsTotal   *prometheus.CounterVec
	retrievalHitTotal       *prometheus.CounterVec
	noContextTotal          *prometheus.CounterVec
	retrievedDocuments      *prometheus.HistogramVec
	pipelineDuration        *prometheus.HistogramVec
	correctiveRetriesTotal  *prometheus.CounterVec
	generationFailuresTotal *prometheus.CounterVec
	llmTokensTotal          *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crag",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "crag",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "crag",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	pipelineRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crag",
			Subsystem: "pipeline",
			Name:      "requests_total",
			Help:      "Total successful pipeline runs.",
		},
		[]string{"service", "endpoint"},
	)
	strategyRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crag",
			Subsystem: "pipeline",
			Name:      "strategy_requests_total",
			Help:      "Total successful pipeline runs by retrieval strategy.",
		},
		[]string{"service", "endpoint", "strategy"},
	)
	retrievalHitTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crag",
			Subsystem: "pipeline",
			Name:      "retrieval_hit_total",
			Help:      "Total pipeline runs with at least one retrieved source.",
		},
		[]string{"service", "endpoint"},
	)
	noContextTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crag",
			Subsystem: "pipeline",
			Name:      "no_context_total",
			Help:      "Total pipeline runs without retrieved sources.",
		},
		[]string{"service", "endpoint"},
	)
	retrievedDocuments := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "crag",
			Subsystem: "pipeline",
			Name:      "retrieved_documents",
			Help:      "Distribution of retrieved documents per successful run.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
		[]string{"service", "endpoint"},
	)
	pipelineDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "crag",
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "Pipeline execution duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "endpoint"},
	)
	correctiveRetriesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crag",
			Subsystem: "pipeline",
			Name:      "corrective_retries_total",
			Help:      "Total corrective retries by final acceptance outcome.",
		},
		[]string{"service", "endpoint", "outcome"},
	)
	generationFailuresTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crag",
			Subsystem: "pipeline",
			Name:      "generation_failures_total",
			Help:      "Total pipeline runs that produced no response.",
		},
		[]string{"service", "endpoint"},
	)
	llmTokensTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crag",
			Subsystem: "llm",
			Name:      "tokens_total",
			Help:      "Approximate token usage by direction.",
		},
		[]string{"service", "endpoint", "direction", "model"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		pipelineRequestsTotal,
		strategyRequestsTotal,
		retrievalHitTotal,
		noContextTotal,
		retrievedDocuments,
		pipelineDuration,
		correctiveRetriesTotal,
		generationFailuresTotal,
		llmTokensTotal,
	)

	return &HTTPServerMetrics{
		registry:                registry,
		requestTotal:            requestTotal,
		requestDuration:         requestDuration,
		requestInFlight:         requestInFlight,
		pipelineRequestsTotal:   pipelineRequestsTotal,
		strategyRequestsTotal:   strategyRequestsTotal,
		retrievalHitTotal:       retrievalHitTotal,
		noContextTotal:          noContextTotal,
		retrievedDocuments:      retrievedDocuments,
		pipelineDuration:        pipelineDuration,
		correctiveRetriesTotal:  correctiveRetriesTotal,
		generationFailuresTotal: generationFailuresTotal,
		llmTokensTotal:          llmTokensTotal,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/v1/documents/"):
		return "/v1/documents/{document_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordPipelineObservation(service, endpoint string, sourceCount int, duration time.Duration) {
	m.pipelineRequestsTotal.WithLabelValues(service, endpoint).Inc()
	m.retrievedDocuments.WithLabelValues(service, endpoint).Observe(float64(sourceCount))
	m.pipelineDuration.WithLabelValues(service, endpoint).Observe(duration.Seconds())

	if sourceCount > 0 {
		m.retrievalHitTotal.WithLabelValues(service, endpoint).Inc()
		return
	}
	m.noContextTotal.WithLabelValues(service, endpoint).Inc()
}

func (m *HTTPServerMetrics) RecordStrategyRequest(service, endpoint, strategy string) {
	if strategy == "" {
		strategy = "unknown"
	}
	m.strategyRequestsTotal.WithLabelValues(service, endpoint, strategy).Inc()
}

func (m *HTTPServerMetrics) RecordCorrectiveRetry(service, endpoint string, accepted bool) {
	outcome := "rejected"
	if accepted {
		outcome = "accepted"
	}
	m.correctiveRetriesTotal.WithLabelValues(service, endpoint, outcome).Inc()
}

func (m *HTTPServerMetrics) RecordGenerationFailure(service, endpoint string) {
	m.generationFailuresTotal.WithLabelValues(service, endpoint).Inc()
}

func (m *HTTPServerMetrics) RecordTokenUsage(service, endpoint, model string, promptTokens, completionTokens int) {
	if model == "" {
		model = "unknown"
	}
	if promptTokens > 0 {
		m.llmTokensTotal.WithLabelValues(service, endpoint, "in", model).Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		m.llmTokensTotal.WithLabelValues(service, endpoint, "out", model).Add(float64(completionTokens))
	}
}

// statusRecorder only needs the status code for the request counter; the
// API serves buffered JSON, so no streaming interfaces are forwarded.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
