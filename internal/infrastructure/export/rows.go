// Package export renders document sets in the accounting formats the API
// offers for download: CSV, QuickBooks IIF and Excel.
package export

import (
	"fmt"
	"time"

	"github.com/kirillkom/invoice-review-assistant/internal/core/domain"
)

var tableHeader = []string{
	"Filename", "Vendor", "Invoice Number", "Date", "Due Date",
	"Amount", "Status", "Category", "Payment Terms",
}

// tableRow is the flat view shared by the CSV and Excel writers. Values are
// written as extracted; nothing is normalized.
func tableRow(doc domain.Document) []string {
	vendor, _ := doc.ExtractedData.CanonicalVendor()
	return []string{
		doc.Filename,
		vendor,
		doc.ExtractedData.InvoiceNumber.String(),
		doc.ExtractedData.Date.String(),
		doc.ExtractedData.DueDate.String(),
		doc.ExtractedData.TotalAmount.String(),
		string(doc.Status),
		exportCategory(doc),
		doc.ExtractedData.PaymentTerms.String(),
	}
}

func exportCategory(doc domain.Document) string {
	if !doc.ExtractedData.DetectedType.IsEmpty() {
		return doc.ExtractedData.DetectedType.String()
	}
	return doc.FileType
}

func exportFilename(now time.Time, ext string) string {
	return fmt.Sprintf("invoice_export_%s.%s", now.Format("20060102"), ext)
}
