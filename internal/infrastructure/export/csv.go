package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/kirillkom/invoice-review-assistant/internal/core/domain"
)

type CSVExporter struct{}

func NewCSVExporter() *CSVExporter { return &CSVExporter{} }

func (e *CSVExporter) Format() domain.ExportFormat { return domain.ExportCSV }

func (e *CSVExporter) Export(docs []domain.Document, now time.Time) (domain.ExportFile, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(tableHeader); err != nil {
		return domain.ExportFile{}, fmt.Errorf("write csv header: %w", err)
	}
	for _, doc := range docs {
		if err := w.Write(tableRow(doc)); err != nil {
			return domain.ExportFile{}, fmt.Errorf("write csv row %s: %w", doc.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return domain.ExportFile{}, fmt.Errorf("flush csv: %w", err)
	}

	return domain.ExportFile{
		Filename:    exportFilename(now, "csv"),
		ContentType: "text/csv",
		Content:     buf.Bytes(),
	}, nil
}
