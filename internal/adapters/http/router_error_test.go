package httpadapter

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kirillkom/invoice-review-assistant/internal/config"
	"github.com/kirillkom/invoice-review-assistant/internal/core/domain"
)

func TestGetDocumentByIDReturns404ForNotFound(t *testing.T) {
	services := allServices()
	services.Documents = docsFake{err: domain.WrapError(domain.ErrDocumentNotFound, "get", errors.New("id=missing"))}
	handler := NewRouter(config.Config{}, services).Handler()

	req := httptest.NewRequest(http.MethodGet, "/v1/documents/missing", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}

func TestUploadUnsupportedFormatReturns415(t *testing.T) {
	services := allServices()
	services.Ingest = ingestFake{err: domain.WrapError(domain.ErrUnsupportedFormat, "upload", errors.New("ext=.png"))}
	handler := NewRouter(config.Config{}, services).Handler()

	req := multipartUpload(t, "scan.png", []byte("png"))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", res.Code)
	}
}

func TestWorkflowTemporaryFailureReturns503(t *testing.T) {
	services := allServices()
	services.Workflow = &workflowFake{err: domain.WrapError(domain.ErrTemporary, "evaluate stored", errors.New("db down"))}
	handler := NewRouter(config.Config{}, services).Handler()

	req := httptest.NewRequest(http.MethodPost, "/v1/documents/doc-1/workflow", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", res.Code)
	}
}

func TestInternalErrorsAreNotLeaked(t *testing.T) {
	services := allServices()
	services.Documents = docsFake{err: errors.New("pq: password authentication failed")}
	handler := NewRouter(config.Config{}, services).Handler()

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/documents", nil))

	if res.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", res.Code)
	}
	if strings.Contains(res.Body.String(), "password") {
		t.Fatalf("internal error leaked to client: %s", res.Body.String())
	}
}

func TestInvalidJSONReturns400(t *testing.T) {
	handler := newTestHandler(config.Config{})

	req := httptest.NewRequest(http.MethodPost, "/v1/compare", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestWrongMethodReturns405(t *testing.T) {
	handler := newTestHandler(config.Config{})

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/analytics", nil))

	if res.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", res.Code)
	}
}
