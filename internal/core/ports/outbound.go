package ports

import (
	"context"
	"io"
	"time"

	"github.com/kirillkom/invoice-review-assistant/internal/core/domain"
)

// DocumentRepository persists and reads document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	List(ctx context.Context) ([]domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveExtraction(ctx context.Context, id string, data domain.ExtractedData, summary string) error
	SaveWorkflowResult(ctx context.Context, id string, result domain.WorkflowResult) error
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes ingestion events.
type MessageQueue interface {
	PublishDocumentIngested(ctx context.Context, documentID string) error
	SubscribeDocumentIngested(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts plain text from a stored document.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) (string, error)
}

// FieldExtractor turns document text into invoice fields.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, text string) (domain.ExtractedData, string, error)
}

// QueryResponder answers a free-text question about computed analytics.
type QueryResponder interface {
	Answer(ctx context.Context, analytics domain.AnalyticsResult, question string) (string, error)
}

// DocumentExporter renders documents in one accounting format.
type DocumentExporter interface {
	Format() domain.ExportFormat
	Export(docs []domain.Document, now time.Time) (domain.ExportFile, error)
}
