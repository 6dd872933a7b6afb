package httpadapter

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/kirillkom/invoice-review-assistant/internal/core/domain"
)

type evaluateWorkflowRequest struct {
	Document domain.Document `json:"document"`
	// Corpus stays nil when omitted, which skips the history checks.
	Corpus []domain.Document `json:"corpus"`
}

type analyticsRequest struct {
	Documents []domain.Document `json:"documents"`
	Query     string            `json:"query"`
}

type exportRequest struct {
	Documents []domain.Document `json:"documents"`
	Format    string            `json:"format"`
}

type compareRequest struct {
	DocumentA domain.Document `json:"document_a"`
	DocumentB domain.Document `json:"document_b"`
}

func (rt *Router) evaluateWorkflow(w http.ResponseWriter, r *http.Request) {
	var req evaluateWorkflowRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := rt.services.Workflow.Evaluate(r.Context(), req.Document, req.Corpus)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordWorkflow(metricsService, result)
	}
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) computeAnalytics(w http.ResponseWriter, r *http.Request) {
	var req analyticsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	start := time.Now()
	result, err := rt.services.Analytics.Compute(r.Context(), req.Documents, req.Query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordAnalytics(metricsService, result, req.Query, time.Since(start))
	}
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) exportDocuments(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	file, err := rt.services.Export.Export(r.Context(), req.Documents, domain.ExportFormat(req.Format))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordExport(metricsService, domain.ExportFormat(req.Format))
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Content)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Content)
}

func (rt *Router) compareDocuments(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	cmp, err := rt.services.Compare.Compare(r.Context(), req.DocumentA, req.DocumentB)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if rt.metrics != nil {
		rt.metrics.RecordComparison(metricsService, cmp)
	}
	writeJSON(w, http.StatusOK, cmp)
}
