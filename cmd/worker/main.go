package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kirillkom/invoice-review-assistant/internal/bootstrap"
	"github.com/kirillkom/invoice-review-assistant/internal/config"
	"github.com/kirillkom/invoice-review-assistant/internal/core/ports"
	"github.com/kirillkom/invoice-review-assistant/internal/observability/logging"
	"github.com/kirillkom/invoice-review-assistant/internal/observability/metrics"
)

const metricsService = "worker"

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger("worker", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics(metricsService)
	metricsServer := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           metricsMux(workerMetrics),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("worker_metrics_server_failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	handler := newDocumentHandler(app.Repo, app.ProcessUC, workerMetrics, cfg.WorkerProcessTimeout, time.Now)

	slog.Info("worker_subscribed", "subject", cfg.NATSSubject, "metrics_port", cfg.WorkerMetricsPort)
	if err := app.Queue.SubscribeDocumentIngested(ctx, handler); err != nil {
		slog.Error("worker_subscribe_failed", "error", err)
		os.Exit(1)
	}
}

func metricsMux(m *metrics.WorkerMetrics) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", m.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// newDocumentHandler processes one queued document under its own timeout.
// Queue lag is measured from the stored creation time.
func newDocumentHandler(
	docs ports.DocumentReader,
	processor ports.DocumentProcessor,
	m *metrics.WorkerMetrics,
	timeout time.Duration,
	now func() time.Time,
) func(context.Context, string) error {
	return func(handlerCtx context.Context, documentID string) error {
		if doc, err := docs.GetByID(handlerCtx, documentID); err == nil && doc != nil && !doc.CreatedAt.IsZero() {
			m.ObserveQueueLag(metricsService, now().Sub(doc.CreatedAt))
		}

		processCtx, cancel := context.WithTimeout(handlerCtx, timeout)
		defer cancel()

		start := now()
		m.StartDocument()
		err := processor.ProcessByID(processCtx, documentID)
		m.FinishDocument(metricsService, now().Sub(start), err)

		if err != nil {
			slog.Error("document_process_failed", "document_id", documentID, "error", err)
			return err
		}
		slog.Info("document_processed", "document_id", documentID, "duration_ms", now().Sub(start).Milliseconds())
		return nil
	}
}
