package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kirillkom/invoice-review-assistant/internal/core/domain"
)

const namespace = "invoice_review"

type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	workflowDecisionsTotal *prometheus.CounterVec
	anomaliesTotal         *prometheus.CounterVec
	analyticsDuration      *prometheus.HistogramVec
	queryFallbackTotal     *prometheus.CounterVec
	exportsTotal           *prometheus.CounterVec
	duplicateComparisons   *prometheus.CounterVec
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	workflowDecisionsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflow_decisions_total",
			Help:      "Workflow evaluations by resulting status and risk level.",
		},
		[]string{"service", "status", "risk_level"},
	)
	anomaliesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "anomalies_total",
			Help:      "Anomalies reported by workflow evaluations.",
		},
		[]string{"service", "type", "severity"},
	)
	analyticsDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analytics_duration_seconds",
			Help:      "Analytics computation duration in seconds, query answer included.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "with_query"},
	)
	queryFallbackTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_fallback_total",
			Help:      "Analytics queries answered with the fallback text.",
		},
		[]string{"service"},
	)
	exportsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Generated exports by format.",
		},
		[]string{"service", "format"},
	)
	duplicateComparisons := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comparisons_total",
			Help:      "Document comparisons by duplicate outcome.",
		},
		[]string{"service", "duplicate"},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		workflowDecisionsTotal,
		anomaliesTotal,
		analyticsDuration,
		queryFallbackTotal,
		exportsTotal,
		duplicateComparisons,
	)

	return &HTTPServerMetrics{
		registry:               registry,
		requestTotal:           requestTotal,
		requestDuration:        requestDuration,
		requestInFlight:        requestInFlight,
		workflowDecisionsTotal: workflowDecisionsTotal,
		anomaliesTotal:         anomaliesTotal,
		analyticsDuration:      analyticsDuration,
		queryFallbackTotal:     queryFallbackTotal,
		exportsTotal:           exportsTotal,
		duplicateComparisons:   duplicateComparisons,
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

// normalizePath keeps document ids out of label values.
func normalizePath(path string) string {
	if !strings.HasPrefix(path, "/v1/documents/") {
		return path
	}
	if strings.HasSuffix(path, "/workflow") {
		return "/v1/documents/{document_id}/workflow"
	}
	return "/v1/documents/{document_id}"
}

func (m *HTTPServerMetrics) RecordWorkflow(service string, result domain.WorkflowResult) {
	m.workflowDecisionsTotal.WithLabelValues(service, string(result.Status), string(result.RiskLevel)).Inc()
	for _, anomaly := range result.Anomalies {
		m.anomaliesTotal.WithLabelValues(service, string(anomaly.Type), string(anomaly.Severity)).Inc()
	}
}

func (m *HTTPServerMetrics) RecordAnalytics(service string, result domain.AnalyticsResult, query string, duration time.Duration) {
	withQuery := strconv.FormatBool(strings.TrimSpace(query) != "")
	m.analyticsDuration.WithLabelValues(service, withQuery).Observe(duration.Seconds())
	if result.QueryResponse == domain.QueryFallbackAnswer {
		m.queryFallbackTotal.WithLabelValues(service).Inc()
	}
}

func (m *HTTPServerMetrics) RecordExport(service string, format domain.ExportFormat) {
	if format == "" {
		format = "unknown"
	}
	m.exportsTotal.WithLabelValues(service, string(format)).Inc()
}

func (m *HTTPServerMetrics) RecordComparison(service string, cmp domain.Comparison) {
	m.duplicateComparisons.WithLabelValues(service, strconv.FormatBool(cmp.IsDuplicate)).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}
