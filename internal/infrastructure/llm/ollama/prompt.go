package ollama

import (
	"encoding/json"
	"fmt"

	"github.com/kirillkom/invoice-review-assistant/internal/core/domain"
)

const maxExtractionSnippet = 4000

func buildExtractionPrompt(text string) string {
	snippet := text
	if len(snippet) > maxExtractionSnippet {
		snippet = snippet[:maxExtractionSnippet]
	}

	return `You extract bookkeeping fields from invoices and receipts.
Return a strict JSON object with keys:
fields (object with string keys vendor, invoice_number, date, due_date, total_amount, currency, payment_terms, detected_type),
summary (one sentence string).
Use YYYY-MM-DD for dates. detected_type is one of invoice, receipt, contract, other.
Use null for anything not present. No markdown, no extra keys.

Document:
` + snippet
}

func buildAnalyticsPrompt(analytics domain.AnalyticsResult, question string) (string, error) {
	analytics.QueryResponse = ""
	raw, err := json.MarshalIndent(analytics, "", "  ")
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`You are a financial analyst. Answer the question using only the spend data below.
Be concise and quote amounts exactly as written.

Spend data:
%s

Question:
%s
`, raw, question), nil
}
