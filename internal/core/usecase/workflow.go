package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/kirillkom/invoice-review-assistant/internal/core/domain"
	"github.com/kirillkom/invoice-review-assistant/internal/core/ports"
	"github.com/kirillkom/invoice-review-assistant/internal/core/review"
)

type WorkflowUseCase struct {
	repo ports.DocumentRepository
}

// NewWorkflowUseCase accepts a nil repository for callers that only
// evaluate documents they supply themselves.
func NewWorkflowUseCase(repo ports.DocumentRepository) *WorkflowUseCase {
	return &WorkflowUseCase{repo: repo}
}

// Evaluate builds a fresh vendor history from corpus for every call.
// A nil corpus skips the history checks; an empty one does not.
func (uc *WorkflowUseCase) Evaluate(_ context.Context, doc domain.Document, corpus []domain.Document) (domain.WorkflowResult, error) {
	var history *review.VendorHistory
	if corpus != nil {
		history = review.BuildVendorHistory(corpus)
	}
	return review.Evaluate(doc, history), nil
}

// EvaluateStored re-runs the workflow for a stored document against the
// stored corpus and persists the outcome.
func (uc *WorkflowUseCase) EvaluateStored(ctx context.Context, documentID string) (*domain.Document, error) {
	if uc.repo == nil {
		return nil, domain.WrapError(domain.ErrTemporary, "evaluate stored document", errors.New("document store is not configured"))
	}

	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch document by id: %w", err)
	}
	corpus, err := uc.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list corpus: %w", err)
	}

	result := review.Evaluate(*doc, review.BuildVendorHistory(corpus))
	if err := uc.repo.SaveWorkflowResult(ctx, doc.ID, result); err != nil {
		return nil, fmt.Errorf("save workflow result: %w", err)
	}
	doc.Workflow = &result
	return doc, nil
}
