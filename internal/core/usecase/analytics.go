package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/kirillkom/invoice-review-assistant/internal/core/domain"
	"github.com/kirillkom/invoice-review-assistant/internal/core/ports"
	"github.com/kirillkom/invoice-review-assistant/internal/core/review"
)

type AnalyticsUseCase struct {
	repo      ports.DocumentRepository
	responder ports.QueryResponder
}

// NewAnalyticsUseCase accepts nil for either dependency. Without a
// repository a nil corpus is an empty one; without a responder every
// question gets the fallback answer.
func NewAnalyticsUseCase(repo ports.DocumentRepository, responder ports.QueryResponder) *AnalyticsUseCase {
	return &AnalyticsUseCase{
		repo:      repo,
		responder: responder,
	}
}

func (uc *AnalyticsUseCase) Compute(ctx context.Context, corpus []domain.Document, query string) (domain.AnalyticsResult, error) {
	if corpus == nil && uc.repo != nil {
		stored, err := uc.repo.List(ctx)
		if err != nil {
			return domain.AnalyticsResult{}, fmt.Errorf("list corpus: %w", err)
		}
		corpus = stored
	}

	result := review.Aggregate(corpus)

	question := strings.TrimSpace(query)
	if question != "" {
		result.QueryResponse = uc.answer(ctx, result, question)
	}
	return result, nil
}

// answer never fails the analytics call; responder trouble degrades to the
// fixed fallback text.
func (uc *AnalyticsUseCase) answer(ctx context.Context, result domain.AnalyticsResult, question string) string {
	if uc.responder == nil {
		return domain.QueryFallbackAnswer
	}
	text, err := uc.responder.Answer(ctx, result, question)
	if err != nil || strings.TrimSpace(text) == "" {
		return domain.QueryFallbackAnswer
	}
	return strings.TrimSpace(text)
}
