package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kirillkom/invoice-review-assistant/internal/core/domain"
)

type statusCall struct {
	status domain.DocumentStatus
	errMsg string
}

// documentRepoFake is an in-memory repository shared by the use case tests.
type documentRepoFake struct {
	doc           *domain.Document
	corpus        []domain.Document
	getErr        error
	listErr       error
	saveErr       error
	statusErr     error
	failStatusErr error
	statusCalls   []statusCall

	extractionID string
	extraction   domain.ExtractedData
	summary      string
	workflowID   string
	workflow     *domain.WorkflowResult
}

func (f *documentRepoFake) Create(context.Context, *domain.Document) error { return nil }

func (f *documentRepoFake) GetByID(_ context.Context, id string) (*domain.Document, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.doc == nil {
		return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", errors.New(id))
	}
	copyDoc := *f.doc
	return &copyDoc, nil
}

func (f *documentRepoFake) List(context.Context) ([]domain.Document, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.Document(nil), f.corpus...), nil
}

func (f *documentRepoFake) UpdateStatus(_ context.Context, _ string, status domain.DocumentStatus, errMessage string) error {
	f.statusCalls = append(f.statusCalls, statusCall{status: status, errMsg: errMessage})
	if status == domain.StatusFailed && f.failStatusErr != nil {
		return f.failStatusErr
	}
	if f.statusErr != nil {
		return f.statusErr
	}
	return nil
}

func (f *documentRepoFake) SaveExtraction(_ context.Context, id string, data domain.ExtractedData, summary string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.extractionID = id
	f.extraction = data
	f.summary = summary
	return nil
}

func (f *documentRepoFake) SaveWorkflowResult(_ context.Context, id string, result domain.WorkflowResult) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.workflowID = id
	f.workflow = &result
	return nil
}

type extractorFake struct {
	text string
	err  error
}

func (f *extractorFake) Extract(context.Context, *domain.Document) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type fieldExtractorFake struct {
	data    domain.ExtractedData
	summary string
	err     error
}

func (f *fieldExtractorFake) ExtractFields(context.Context, string) (domain.ExtractedData, string, error) {
	if f.err != nil {
		return domain.ExtractedData{}, "", f.err
	}
	return f.data, f.summary, nil
}

func TestProcessByIDSuccess(t *testing.T) {
	repo := &documentRepoFake{
		doc: &domain.Document{ID: "doc-1", Filename: "inv.pdf"},
		corpus: []domain.Document{
			{ID: "old-1", Filename: "old.pdf", ExtractedData: domain.ExtractedData{Vendor: "Acme", TotalAmount: "$100", InvoiceNumber: "INV-1"}},
		},
	}
	uc := NewProcessDocumentUseCase(
		repo,
		&extractorFake{text: "Acme invoice INV-1 total $100"},
		&fieldExtractorFake{
			data:    domain.ExtractedData{Vendor: "Acme", TotalAmount: "$100", InvoiceNumber: "inv-1", Date: "2024-05-01"},
			summary: "Acme invoice",
		},
	)

	if err := uc.ProcessByID(context.Background(), "doc-1"); err != nil {
		t.Fatalf("ProcessByID() error = %v", err)
	}
	if len(repo.statusCalls) != 2 {
		t.Fatalf("expected 2 status calls, got %d", len(repo.statusCalls))
	}
	if repo.statusCalls[0].status != domain.StatusProcessing || repo.statusCalls[1].status != domain.StatusReady {
		t.Fatalf("unexpected status sequence: %+v", repo.statusCalls)
	}
	if repo.extractionID != "doc-1" || repo.summary != "Acme invoice" {
		t.Fatalf("expected extraction save for doc-1, got %s %q", repo.extractionID, repo.summary)
	}
	if repo.workflow == nil || repo.workflowID != "doc-1" {
		t.Fatalf("expected workflow result for doc-1")
	}
	if repo.workflow.Status != domain.WorkflowNeedsReview {
		t.Fatalf("expected duplicate to need review, got %s", repo.workflow.Status)
	}
	if repo.workflow.RiskLevel != domain.RiskHigh {
		t.Fatalf("expected high risk, got %s", repo.workflow.RiskLevel)
	}
}

func TestProcessByIDMarksFailedOnExtractError(t *testing.T) {
	repo := &documentRepoFake{doc: &domain.Document{ID: "doc-1"}}
	uc := NewProcessDocumentUseCase(
		repo,
		&extractorFake{err: errors.New("extract fail")},
		&fieldExtractorFake{},
	)

	err := uc.ProcessByID(context.Background(), "doc-1")
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(repo.statusCalls) != 2 {
		t.Fatalf("expected processing + failed status updates, got %d", len(repo.statusCalls))
	}
	if repo.statusCalls[1].status != domain.StatusFailed {
		t.Fatalf("expected failed status, got %+v", repo.statusCalls[1])
	}
}

func TestProcessByIDMarksFailedOnEmptyText(t *testing.T) {
	repo := &documentRepoFake{doc: &domain.Document{ID: "doc-1"}}
	uc := NewProcessDocumentUseCase(repo, &extractorFake{text: ""}, &fieldExtractorFake{})

	err := uc.ProcessByID(context.Background(), "doc-1")
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
	if repo.statusCalls[len(repo.statusCalls)-1].status != domain.StatusFailed {
		t.Fatalf("expected final failed status, got %+v", repo.statusCalls)
	}
}

func TestProcessByIDMarksFailedOnFieldExtractionError(t *testing.T) {
	repo := &documentRepoFake{doc: &domain.Document{ID: "doc-1"}}
	uc := NewProcessDocumentUseCase(
		repo,
		&extractorFake{text: "text"},
		&fieldExtractorFake{err: domain.WrapError(domain.ErrTemporary, "generate", errors.New("ollama down"))},
	)

	err := uc.ProcessByID(context.Background(), "doc-1")
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected temporary error, got %v", err)
	}
	if len(repo.statusCalls) != 2 || repo.statusCalls[1].status != domain.StatusFailed {
		t.Fatalf("expected final failed status, got %+v", repo.statusCalls)
	}
	if repo.workflow != nil {
		t.Fatalf("expected no workflow result on failure")
	}
}

func TestProcessByIDReportsMarkFailedError(t *testing.T) {
	repo := &documentRepoFake{
		doc:           &domain.Document{ID: "doc-1"},
		listErr:       errors.New("db gone"),
		failStatusErr: errors.New("db still gone"),
	}
	uc := NewProcessDocumentUseCase(
		repo,
		&extractorFake{text: "text"},
		&fieldExtractorFake{data: domain.ExtractedData{Vendor: "Acme"}},
	)

	err := uc.ProcessByID(context.Background(), "doc-1")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, repo.listErr) || !strings.Contains(err.Error(), "mark failed status") {
		t.Fatalf("expected wrapped list error, got %v", err)
	}
}
