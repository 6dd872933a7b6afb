package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/kirillkom/invoice-review-assistant/internal/core/domain"
)

func TestWorkflowEvaluateWithoutCorpusSkipsHistoryChecks(t *testing.T) {
	uc := NewWorkflowUseCase(nil)
	doc := domain.Document{ExtractedData: domain.ExtractedData{Vendor: "Tech Corp", TotalAmount: "$2500.00"}}

	result, err := uc.Evaluate(context.Background(), doc, nil)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if result.Status != domain.WorkflowNeedsApproval {
		t.Fatalf("expected needs_approval, got %s", result.Status)
	}
	if result.AnomalyCount != 0 {
		t.Fatalf("expected no anomalies, got %+v", result.Anomalies)
	}
}

func TestWorkflowEvaluateWithEmptyCorpusRunsHistoryChecks(t *testing.T) {
	uc := NewWorkflowUseCase(nil)
	doc := domain.Document{ExtractedData: domain.ExtractedData{Vendor: "Tech Corp", TotalAmount: "$2500.00"}}

	result, err := uc.Evaluate(context.Background(), doc, []domain.Document{})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	// missing date + round number
	if result.AnomalyCount != 2 {
		t.Fatalf("expected 2 anomalies, got %+v", result.Anomalies)
	}
}

func TestWorkflowEvaluateStoredPersistsResult(t *testing.T) {
	target := domain.Document{ID: "doc-9", Filename: "b.pdf", ExtractedData: domain.ExtractedData{
		Vendor: "Acme", TotalAmount: "$1,000", InvoiceNumber: "A-1", Date: "2024-01-02",
	}}
	repo := &documentRepoFake{
		doc: &target,
		corpus: []domain.Document{
			{ID: "doc-1", Filename: "a.pdf", ExtractedData: domain.ExtractedData{Vendor: "Acme", TotalAmount: "$100", InvoiceNumber: "A-0"}},
			{ID: "doc-2", Filename: "c.pdf", ExtractedData: domain.ExtractedData{Vendor: "acme", TotalAmount: "$110", InvoiceNumber: "A-2"}},
			target,
		},
	}
	uc := NewWorkflowUseCase(repo)

	doc, err := uc.EvaluateStored(context.Background(), "doc-9")
	if err != nil {
		t.Fatalf("EvaluateStored() error = %v", err)
	}
	if doc.Workflow == nil || repo.workflowID != "doc-9" {
		t.Fatalf("expected persisted workflow for doc-9")
	}
	var outlier bool
	for _, a := range doc.Workflow.Anomalies {
		if a.Type == domain.AnomalyOutlierAmount {
			outlier = true
		}
	}
	if !outlier {
		t.Fatalf("expected outlier anomaly, got %+v", doc.Workflow.Anomalies)
	}
}

func TestWorkflowEvaluateStoredNotFound(t *testing.T) {
	uc := NewWorkflowUseCase(&documentRepoFake{})

	_, err := uc.EvaluateStored(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestWorkflowEvaluateStoredWithoutRepository(t *testing.T) {
	_, err := NewWorkflowUseCase(nil).EvaluateStored(context.Background(), "doc-1")
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected temporary error, got %v", err)
	}
}

func TestWorkflowEvaluateStoredListError(t *testing.T) {
	repo := &documentRepoFake{doc: &domain.Document{ID: "doc-1"}, listErr: errors.New("boom")}

	_, err := NewWorkflowUseCase(repo).EvaluateStored(context.Background(), "doc-1")
	if err == nil {
		t.Fatalf("expected error")
	}
	if repo.workflow != nil {
		t.Fatalf("expected nothing persisted")
	}
}
