package ports

import (
	"context"
	"io"

	"github.com/kirillkom/invoice-review-assistant/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, filename, mimeType string, body io.Reader) (*domain.Document, error)
}

// DocumentReader is the inbound read model for document metadata/state.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	List(ctx context.Context) ([]domain.Document, error)
}

// DocumentProcessor is the inbound contract for asynchronous document processing.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
}

// WorkflowService decides whether a document needs a human.
// A nil corpus disables the history-based anomaly checks.
type WorkflowService interface {
	Evaluate(ctx context.Context, doc domain.Document, corpus []domain.Document) (domain.WorkflowResult, error)
	EvaluateStored(ctx context.Context, documentID string) (*domain.Document, error)
}

// AnalyticsService aggregates spend. A nil corpus means the stored documents.
type AnalyticsService interface {
	Compute(ctx context.Context, corpus []domain.Document, query string) (domain.AnalyticsResult, error)
}

type ExportService interface {
	Export(ctx context.Context, docs []domain.Document, format domain.ExportFormat) (domain.ExportFile, error)
}

type CompareService interface {
	Compare(ctx context.Context, a, b domain.Document) (domain.Comparison, error)
}
