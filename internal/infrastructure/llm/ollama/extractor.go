package ollama

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/kirillkom/invoice-review-assistant/internal/core/domain"
)

// FieldExtractor asks the model for invoice fields in a fixed JSON shape.
type FieldExtractor struct {
	client *Client
}

func NewFieldExtractor(client *Client) *FieldExtractor {
	return &FieldExtractor{client: client}
}

type extractionPayload struct {
	Fields  domain.ExtractedData `json:"fields"`
	Summary domain.Field         `json:"summary"`
}

func (e *FieldExtractor) ExtractFields(ctx context.Context, text string) (domain.ExtractedData, string, error) {
	respText, err := e.client.generateJSON(ctx, "extract", buildExtractionPrompt(text))
	if err != nil {
		return domain.ExtractedData{}, "", err
	}

	var payload extractionPayload
	if err := json.Unmarshal([]byte(extractJSONObject(respText)), &payload); err != nil {
		return domain.ExtractedData{}, "", domain.WrapError(domain.ErrInvalidInput, "parse extraction json", err)
	}
	if payload.Fields == (domain.ExtractedData{}) {
		return domain.ExtractedData{}, "", domain.WrapError(domain.ErrInvalidInput, "parse extraction json", errors.New("no fields extracted"))
	}
	return payload.Fields, payload.Summary.Trimmed(), nil
}
