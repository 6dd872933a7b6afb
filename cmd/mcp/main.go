package main

import (
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	mcpadapter "github.com/kirillkom/invoice-review-assistant/internal/adapters/mcp"
	"github.com/kirillkom/invoice-review-assistant/internal/bootstrap"
	"github.com/kirillkom/invoice-review-assistant/internal/config"
	"github.com/kirillkom/invoice-review-assistant/internal/core/usecase"
	"github.com/kirillkom/invoice-review-assistant/internal/infrastructure/llm/ollama"
	"github.com/kirillkom/invoice-review-assistant/internal/infrastructure/resilience"
	"github.com/kirillkom/invoice-review-assistant/internal/observability/logging"
)

const version = "1.0.0"

// The MCP server works on the documents passed in each call and keeps no
// store of its own. stdout carries the protocol, so logs go to stderr.
func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLoggerTo(os.Stderr, "mcp", cfg.LogLevel))

	executor := resilience.NewExecutor(bootstrap.ResilienceConfig(cfg))
	responder := ollama.NewQueryResponder(bootstrap.NewOllamaClient(cfg, executor))

	tools := mcpadapter.NewTools(
		usecase.NewWorkflowUseCase(nil),
		usecase.NewAnalyticsUseCase(nil, responder),
		usecase.NewCompareUseCase(),
	)

	slog.Info("mcp_server_starting", "transport", "stdio")
	if err := server.ServeStdio(mcpadapter.NewServer("invoice-review-assistant", version, tools)); err != nil {
		slog.Error("mcp_server_failed", "error", err)
		os.Exit(1)
	}
}
