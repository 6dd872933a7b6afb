package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kirillkom/invoice-review-assistant/internal/config"
	"github.com/kirillkom/invoice-review-assistant/internal/core/ports"
	"github.com/kirillkom/invoice-review-assistant/internal/core/usecase"
	"github.com/kirillkom/invoice-review-assistant/internal/infrastructure/export"
	"github.com/kirillkom/invoice-review-assistant/internal/infrastructure/extractor/document"
	"github.com/kirillkom/invoice-review-assistant/internal/infrastructure/llm/ollama"
	"github.com/kirillkom/invoice-review-assistant/internal/infrastructure/queue/nats"
	"github.com/kirillkom/invoice-review-assistant/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/invoice-review-assistant/internal/infrastructure/resilience"
	"github.com/kirillkom/invoice-review-assistant/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config

	Queue    ports.MessageQueue
	Repo     ports.DocumentRepository
	Executor *resilience.Executor

	IngestUC    ports.DocumentIngestor
	ProcessUC   ports.DocumentProcessor
	WorkflowUC  ports.WorkflowService
	AnalyticsUC ports.AnalyticsService
	ExportUC    ports.ExportService
	CompareUC   ports.CompareService

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath, cfg.UploadMaxBytes)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(ResilienceConfig(cfg))

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	ollamaClient := NewOllamaClient(cfg, executor)
	return assemble(cfg, db, repo, storage, queue, ollamaClient, executor), nil
}

func assemble(
	cfg config.Config,
	db *sql.DB,
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	queue *nats.Queue,
	ollamaClient *ollama.Client,
	executor *resilience.Executor,
) *App {
	extractor := document.NewExtractor(storage)

	return &App{
		Config:   cfg,
		Queue:    queue,
		Repo:     repo,
		Executor: executor,

		IngestUC:    usecase.NewIngestDocumentUseCase(repo, storage, queue),
		ProcessUC:   usecase.NewProcessDocumentUseCase(repo, extractor, ollama.NewFieldExtractor(ollamaClient)),
		WorkflowUC:  usecase.NewWorkflowUseCase(repo),
		AnalyticsUC: usecase.NewAnalyticsUseCase(repo, ollama.NewQueryResponder(ollamaClient)),
		ExportUC:    NewExportUseCase(),
		CompareUC:   usecase.NewCompareUseCase(),

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}
}

// NewOllamaClient builds the LLM client shared by field extraction and
// analytics questions. A nil executor disables retries and breakers.
func NewOllamaClient(cfg config.Config, executor *resilience.Executor) *ollama.Client {
	return ollama.NewWithOptions(cfg.OllamaURL, cfg.OllamaGenModel, ollama.Options{
		Timeout:            cfg.OllamaTimeout,
		ResilienceExecutor: executor,
	})
}

// NewExportUseCase registers every export format.
func NewExportUseCase() *usecase.ExportUseCase {
	return usecase.NewExportUseCase(
		export.NewCSVExporter(),
		export.NewIIFExporter(),
		export.NewXLSXExporter(),
	)
}

func ResilienceConfig(cfg config.Config) resilience.Config {
	return resilience.Config{
		RetryMaxAttempts:        cfg.ResilienceRetryMaxAttempts,
		RetryInitialBackoff:     cfg.ResilienceRetryInitialBackoff,
		RetryMaxBackoff:         cfg.ResilienceRetryMaxBackoff,
		RetryMultiplier:         cfg.ResilienceRetryMultiplier,
		BreakerEnabled:          cfg.ResilienceBreakerEnabled,
		BreakerMinRequests:      nonNegativeUint32(cfg.ResilienceBreakerMinRequests),
		BreakerFailureRatio:     cfg.ResilienceBreakerFailureRatio,
		BreakerOpenTimeout:      cfg.ResilienceBreakerOpenTimeout,
		BreakerHalfOpenMaxCalls: nonNegativeUint32(cfg.ResilienceBreakerHalfOpenMaxReq),
	}
}

func nonNegativeUint32(v int) uint32 {
	if v < 0 {
		return 0
	}
	return uint32(v)
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
