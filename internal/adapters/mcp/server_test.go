package mcpadapter

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kirillkom/invoice-review-assistant/internal/core/domain"
	"github.com/kirillkom/invoice-review-assistant/internal/core/usecase"
)

func newTestTools() *Tools {
	return NewTools(
		usecase.NewWorkflowUseCase(nil),
		usecase.NewAnalyticsUseCase(nil, nil),
		usecase.NewCompareUseCase(),
	)
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	switch c := result.Content[0].(type) {
	case mcp.TextContent:
		return c.Text
	case *mcp.TextContent:
		return c.Text
	default:
		t.Fatalf("unexpected content type %T", c)
		return ""
	}
}

func TestEvaluateWorkflowTool(t *testing.T) {
	tools := newTestTools()

	result, err := tools.EvaluateWorkflow(context.Background(), callRequest(ToolEvaluateWorkflow, map[string]any{
		"document": `{"id":"d2","filename":"b.pdf","extracted_data":{"vendor":"Acme","total_amount":"$120","invoice_number":"INV-7","date":"2024-01-06"}}`,
		"corpus":   `[{"id":"d1","filename":"a.pdf","extracted_data":{"vendor":"Acme","total_amount":"$120","invoice_number":"inv-7","date":"2024-01-05"}}]`,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var workflow domain.WorkflowResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &workflow))
	assert.Equal(t, domain.WorkflowNeedsReview, workflow.Status)
	assert.Equal(t, domain.RiskHigh, workflow.RiskLevel)
	require.Len(t, workflow.Anomalies, 1)
	assert.Equal(t, domain.AnomalyDuplicateInvoice, workflow.Anomalies[0].Type)
}

func TestEvaluateWorkflowToolWithoutCorpusSkipsHistory(t *testing.T) {
	tools := newTestTools()

	result, err := tools.EvaluateWorkflow(context.Background(), callRequest(ToolEvaluateWorkflow, map[string]any{
		"document": `{"extracted_data":{"vendor":"Acme","total_amount":"600"}}`,
	}))
	require.NoError(t, err)

	var workflow domain.WorkflowResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &workflow))
	assert.Equal(t, domain.WorkflowApproved, workflow.Status)
	assert.Empty(t, workflow.Anomalies)
}

func TestEvaluateWorkflowToolRejectsMalformedDocument(t *testing.T) {
	tools := newTestTools()

	result, err := tools.EvaluateWorkflow(context.Background(), callRequest(ToolEvaluateWorkflow, map[string]any{
		"document": `not json`,
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "document is not a JSON document object")
}

func TestEvaluateWorkflowToolRequiresDocument(t *testing.T) {
	tools := newTestTools()

	result, err := tools.EvaluateWorkflow(context.Background(), callRequest(ToolEvaluateWorkflow, map[string]any{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestComputeAnalyticsTool(t *testing.T) {
	tools := newTestTools()

	result, err := tools.ComputeAnalytics(context.Background(), callRequest(ToolComputeAnalytics, map[string]any{
		"corpus": `[{"extracted_data":{"vendor":"Acme","total_amount":"100"}},{"extracted_data":{"vendor":"Globex","total_amount":"50"}}]`,
		"query":  "who did we pay most?",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var analytics domain.AnalyticsResult
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &analytics))
	assert.Equal(t, "$150.00", analytics.Summary.TotalSpend)
	assert.Equal(t, domain.QueryFallbackAnswer, analytics.QueryResponse)
	require.Len(t, analytics.ByVendor, 2)
	assert.Equal(t, "Acme", analytics.ByVendor[0].Vendor)
}

func TestComputeAnalyticsToolRejectsObjectCorpus(t *testing.T) {
	tools := newTestTools()

	result, err := tools.ComputeAnalytics(context.Background(), callRequest(ToolComputeAnalytics, map[string]any{
		"corpus": `{"vendor":"Acme"}`,
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestCompareDocumentsTool(t *testing.T) {
	tools := newTestTools()

	result, err := tools.CompareDocuments(context.Background(), callRequest(ToolCompareDocuments, map[string]any{
		"document_a": `{"filename":"a.pdf","extracted_data":{"vendor":"Acme Corp","total_amount":"$450.00","invoice_number":"INV-9"}}`,
		"document_b": `{"filename":"b.pdf","extracted_data":{"vendor":"acme corp","total_amount":"$450.00","invoice_number":"inv-9"}}`,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var cmp domain.Comparison
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &cmp))
	assert.True(t, cmp.IsDuplicate)
	assert.InDelta(t, 1.0, cmp.VendorSimilarity, 0.0001)
}

func TestNewServerListsTools(t *testing.T) {
	s := NewServer("invoice-review", "test", newTestTools())

	resp := s.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	for _, name := range []string{ToolEvaluateWorkflow, ToolComputeAnalytics, ToolCompareDocuments} {
		assert.Contains(t, string(raw), `"`+name+`"`)
	}
}
