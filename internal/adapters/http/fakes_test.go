package httpadapter

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/kirillkom/invoice-review-assistant/internal/config"
	"github.com/kirillkom/invoice-review-assistant/internal/core/domain"
)

type ingestFake struct {
	err error
}

func (f ingestFake) Upload(_ context.Context, filename, mimeType string, body io.Reader) (*domain.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload", io.EOF)
	}

	now := time.Now().UTC()
	return &domain.Document{
		ID:          "doc-1",
		Filename:    filename,
		MimeType:    mimeType,
		StoragePath: "doc-1_file.txt",
		Status:      domain.StatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

type docsFake struct {
	err  error
	docs []domain.Document
}

func (f docsFake) GetByID(_ context.Context, id string) (*domain.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Document{ID: id, Filename: "a.txt", Status: domain.StatusReady}, nil
}

func (f docsFake) List(context.Context) ([]domain.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.docs, nil
}

type workflowFake struct {
	err        error
	result     domain.WorkflowResult
	gotCorpus  []domain.Document
	corpusSeen bool
}

func (f *workflowFake) Evaluate(_ context.Context, _ domain.Document, corpus []domain.Document) (domain.WorkflowResult, error) {
	f.gotCorpus = corpus
	f.corpusSeen = true
	return f.result, f.err
}

func (f *workflowFake) EvaluateStored(_ context.Context, id string) (*domain.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	result := f.result
	return &domain.Document{ID: id, Workflow: &result}, nil
}

type analyticsFake struct {
	result domain.AnalyticsResult
	err    error
}

func (f analyticsFake) Compute(_ context.Context, _ []domain.Document, query string) (domain.AnalyticsResult, error) {
	if f.err != nil {
		return domain.AnalyticsResult{}, f.err
	}
	result := f.result
	if query != "" {
		result.QueryResponse = domain.QueryFallbackAnswer
	}
	return result, nil
}

type exportFake struct{}

func (exportFake) Export(_ context.Context, docs []domain.Document, format domain.ExportFormat) (domain.ExportFile, error) {
	if format != "" && format != domain.ExportCSV {
		return domain.ExportFile{}, domain.WrapError(domain.ErrUnsupportedFormat, "export", io.EOF)
	}
	return domain.ExportFile{
		Filename:    "invoice_export_20240101.csv",
		ContentType: "text/csv",
		Content:     []byte("Filename\n" + docs[0].Filename + "\n"),
	}, nil
}

type compareFake struct{}

func (compareFake) Compare(_ context.Context, a, b domain.Document) (domain.Comparison, error) {
	return domain.Comparison{
		Document1:   domain.ComparedDocument{Filename: a.Filename},
		Document2:   domain.ComparedDocument{Filename: b.Filename},
		Differences: []domain.Difference{},
		IsDuplicate: a.Filename == b.Filename,
	}, nil
}

func allServices() Services {
	return Services{
		Ingest:    ingestFake{},
		Documents: docsFake{},
		Workflow:  &workflowFake{result: domain.WorkflowResult{Status: domain.WorkflowApproved, RiskLevel: domain.RiskLow}},
		Analytics: analyticsFake{},
		Export:    exportFake{},
		Compare:   compareFake{},
	}
}

func newTestHandler(cfg config.Config) http.Handler {
	return NewRouter(cfg, allServices()).Handler()
}
