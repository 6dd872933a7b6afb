package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kirillkom/invoice-review-assistant/internal/core/domain"
)

const iifHeader = "!TRNS\tTRNSID\tTRNSTYPE\tDATE\tACCNT\tNAME\tAMOUNT\tMEMO\n" +
	"!SPL\tSPLID\tTRNSTYPE\tDATE\tACCNT\tAMOUNT\tMEMO\n" +
	"!ENDTRNS\n"

// IIFExporter writes QuickBooks bills: one TRNS line against Accounts
// Payable and one balancing SPL line against Expenses per document.
type IIFExporter struct{}

func NewIIFExporter() *IIFExporter { return &IIFExporter{} }

func (e *IIFExporter) Format() domain.ExportFormat { return domain.ExportQuickBooks }

func (e *IIFExporter) Export(docs []domain.Document, now time.Time) (domain.ExportFile, error) {
	var buf bytes.Buffer
	buf.WriteString(iifHeader)

	for idx, doc := range docs {
		vendor, ok := doc.ExtractedData.CanonicalVendor()
		if !ok {
			vendor = "Unknown"
		}
		amount := decimal.Zero
		if parsed := domain.ParseAmount(doc.ExtractedData.TotalAmount); parsed.Ok() {
			amount = parsed.Value
		}
		date := doc.ExtractedData.Date.Trimmed()
		if date == "" {
			date = now.Format("2006-01-02")
		}
		memo := iifField(doc.Filename)
		id := idx + 1

		fmt.Fprintf(&buf, "TRNS\t%d\tBILL\t%s\tAccounts Payable\t%s\t%s\t%s\n",
			id, iifField(date), iifField(vendor), amount.StringFixed(2), memo)
		fmt.Fprintf(&buf, "SPL\t%d\tBILL\t%s\tExpenses\t%s\t%s\n",
			id, iifField(date), amount.Neg().StringFixed(2), memo)
		buf.WriteString("ENDTRNS\n")
	}

	return domain.ExportFile{
		Filename:    exportFilename(now, "iif"),
		ContentType: "application/x-iif",
		Content:     buf.Bytes(),
	}, nil
}

// iifField keeps a value on one tab-separated column.
func iifField(value string) string {
	return strings.NewReplacer("\t", " ", "\r", " ", "\n", " ").Replace(value)
}
