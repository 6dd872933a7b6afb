package httpadapter

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/kirillkom/invoice-review-assistant/internal/config"
	"github.com/kirillkom/invoice-review-assistant/internal/core/ports"
	"github.com/kirillkom/invoice-review-assistant/internal/observability/metrics"
)

const (
	metricsService = "api"
	maxJSONBody    = 16 << 20
)

// Services holds the inbound ports the API exposes. Routes whose service is
// nil are not registered.
type Services struct {
	Ingest    ports.DocumentIngestor
	Documents ports.DocumentReader
	Workflow  ports.WorkflowService
	Analytics ports.AnalyticsService
	Export    ports.ExportService
	Compare   ports.CompareService
}

type RouterOption func(*Router)

func WithMetrics(m *metrics.HTTPServerMetrics) RouterOption {
	return func(rt *Router) { rt.metrics = m }
}

// WithBreakerStates reports circuit breaker states on /healthz.
func WithBreakerStates(states func() map[string]string) RouterOption {
	return func(rt *Router) { rt.breakerStates = states }
}

type Router struct {
	cfg           config.Config
	services      Services
	metrics       *metrics.HTTPServerMetrics
	breakerStates func() map[string]string
}

func NewRouter(cfg config.Config, services Services, opts ...RouterOption) *Router {
	rt := &Router{cfg: cfg, services: services}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}
	if rt.services.Ingest != nil {
		mux.HandleFunc("POST /v1/documents", rt.uploadDocument)
	}
	if rt.services.Documents != nil {
		mux.HandleFunc("GET /v1/documents", rt.listDocuments)
		mux.HandleFunc("GET /v1/documents/{id}", rt.getDocumentByID)
	}
	if rt.services.Workflow != nil {
		mux.HandleFunc("POST /v1/documents/{id}/workflow", rt.evaluateStoredDocument)
		mux.HandleFunc("POST /v1/workflow/evaluate", rt.evaluateWorkflow)
	}
	if rt.services.Analytics != nil {
		mux.HandleFunc("POST /v1/analytics", rt.computeAnalytics)
	}
	if rt.services.Export != nil {
		mux.HandleFunc("POST /v1/export", rt.exportDocuments)
	}
	if rt.services.Compare != nil {
		mux.HandleFunc("POST /v1/compare", rt.compareDocuments)
	}

	var handler http.Handler = mux
	if rt.cfg.APIOpenAPIValidation {
		handler = mustOpenAPIValidator(handler)
	}
	handler = backpressureMiddleware(handler, rt.cfg.APIMaxInFlight, rt.cfg.APIBackpressureWait)
	handler = newRateLimiter(rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst, time.Now).middleware(handler)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware(metricsService, handler)
	}
	handler = recoverMiddleware(handler)
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	resp := map[string]any{"status": "ok"}
	if rt.breakerStates != nil {
		if states := rt.breakerStates(); len(states) > 0 {
			resp["breakers"] = states
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
