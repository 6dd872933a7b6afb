package usecase

import (
	"context"

	"github.com/kirillkom/invoice-review-assistant/internal/core/domain"
	"github.com/kirillkom/invoice-review-assistant/internal/core/review"
)

type CompareUseCase struct{}

func NewCompareUseCase() *CompareUseCase {
	return &CompareUseCase{}
}

func (uc *CompareUseCase) Compare(_ context.Context, a, b domain.Document) (domain.Comparison, error) {
	return review.Compare(a, b), nil
}
