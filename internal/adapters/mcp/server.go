// Package mcpadapter exposes the review operations as MCP tools. Documents
// travel as JSON text in string arguments and results are JSON text.
package mcpadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kirillkom/invoice-review-assistant/internal/core/domain"
	"github.com/kirillkom/invoice-review-assistant/internal/core/ports"
)

const (
	ToolEvaluateWorkflow = "evaluate_workflow"
	ToolComputeAnalytics = "compute_analytics"
	ToolCompareDocuments = "compare_documents"
)

type Tools struct {
	workflow  ports.WorkflowService
	analytics ports.AnalyticsService
	compare   ports.CompareService
}

func NewTools(workflow ports.WorkflowService, analytics ports.AnalyticsService, compare ports.CompareService) *Tools {
	return &Tools{
		workflow:  workflow,
		analytics: analytics,
		compare:   compare,
	}
}

// NewServer registers every tool on a fresh MCP server.
func NewServer(name, version string, tools *Tools) *server.MCPServer {
	s := server.NewMCPServer(name, version, server.WithToolCapabilities(false))

	s.AddTool(mcp.NewTool(ToolEvaluateWorkflow,
		mcp.WithDescription("Decide whether an invoice can be auto-approved and list its anomalies."),
		mcp.WithString("document", mcp.Required(), mcp.Description("Document record as a JSON object.")),
		mcp.WithString("corpus", mcp.Description("Historical documents as a JSON array. Omit to skip history checks.")),
	), tools.EvaluateWorkflow)

	s.AddTool(mcp.NewTool(ToolComputeAnalytics,
		mcp.WithDescription("Aggregate spend by vendor, category and month, optionally answering a question."),
		mcp.WithString("corpus", mcp.Required(), mcp.Description("Documents as a JSON array.")),
		mcp.WithString("query", mcp.Description("Natural-language question about the spend.")),
	), tools.ComputeAnalytics)

	s.AddTool(mcp.NewTool(ToolCompareDocuments,
		mcp.WithDescription("Compare two documents field by field and flag duplicates."),
		mcp.WithString("document_a", mcp.Required(), mcp.Description("First document as a JSON object.")),
		mcp.WithString("document_b", mcp.Required(), mcp.Description("Second document as a JSON object.")),
	), tools.CompareDocuments)

	return s
}

func (t *Tools) EvaluateWorkflow(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, err := requireDocument(req, "document")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var corpus []domain.Document
	if raw := strings.TrimSpace(req.GetString("corpus", "")); raw != "" {
		corpus, err = decodeCorpus(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	result, err := t.workflow.Evaluate(ctx, doc, corpus)
	if err != nil {
		return toolFailure(ToolEvaluateWorkflow, err), nil
	}
	return jsonResult(result)
}

func (t *Tools) ComputeAnalytics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("corpus")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	corpus, err := decodeCorpus(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := t.analytics.Compute(ctx, corpus, req.GetString("query", ""))
	if err != nil {
		return toolFailure(ToolComputeAnalytics, err), nil
	}
	return jsonResult(result)
}

func (t *Tools) CompareDocuments(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a, err := requireDocument(req, "document_a")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	b, err := requireDocument(req, "document_b")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	cmp, err := t.compare.Compare(ctx, a, b)
	if err != nil {
		return toolFailure(ToolCompareDocuments, err), nil
	}
	return jsonResult(cmp)
}

func requireDocument(req mcp.CallToolRequest, name string) (domain.Document, error) {
	raw, err := req.RequireString(name)
	if err != nil {
		return domain.Document{}, err
	}
	var doc domain.Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return domain.Document{}, fmt.Errorf("%s is not a JSON document object: %w", name, err)
	}
	return doc, nil
}

// decodeCorpus keeps an explicit [] as an empty, non-nil corpus.
func decodeCorpus(raw string) ([]domain.Document, error) {
	corpus := []domain.Document{}
	if err := json.Unmarshal([]byte(raw), &corpus); err != nil {
		return nil, fmt.Errorf("corpus is not a JSON array of documents: %w", err)
	}
	if corpus == nil {
		corpus = []domain.Document{}
	}
	return corpus, nil
}

func toolFailure(tool string, err error) *mcp.CallToolResult {
	slog.Warn("mcp_tool_failed", "tool", tool, "error", err)
	return mcp.NewToolResultError(err.Error())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(raw)), nil
}
