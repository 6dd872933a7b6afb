package ollama

import (
	"context"
	"errors"
	"fmt"

	"github.com/kirillkom/invoice-review-assistant/internal/core/domain"
)

// QueryResponder answers spend questions from a computed analytics result.
type QueryResponder struct {
	client *Client
}

func NewQueryResponder(client *Client) *QueryResponder {
	return &QueryResponder{client: client}
}

func (r *QueryResponder) Answer(ctx context.Context, analytics domain.AnalyticsResult, question string) (string, error) {
	prompt, err := buildAnalyticsPrompt(analytics, question)
	if err != nil {
		return "", fmt.Errorf("build analytics prompt: %w", err)
	}
	answer, err := r.client.generateText(ctx, "answer", prompt)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return "", errors.New("ollama answer: empty response")
	}
	return answer, nil
}
