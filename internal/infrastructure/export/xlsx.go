package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/invoice-review-assistant/internal/core/domain"
)

const xlsxSheet = "Documents"

type XLSXExporter struct{}

func NewXLSXExporter() *XLSXExporter { return &XLSXExporter{} }

func (e *XLSXExporter) Format() domain.ExportFormat { return domain.ExportExcel }

func (e *XLSXExporter) Export(docs []domain.Document, now time.Time) (domain.ExportFile, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return domain.ExportFile{}, fmt.Errorf("rename sheet: %w", err)
	}

	header := append(append([]string{}, tableHeader...), "Summary")
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return domain.ExportFile{}, fmt.Errorf("write xlsx header: %w", err)
	}
	for idx, doc := range docs {
		row := append(tableRow(doc), doc.Summary)
		cell, err := excelize.CoordinatesToCellName(1, idx+2)
		if err != nil {
			return domain.ExportFile{}, fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return domain.ExportFile{}, fmt.Errorf("write xlsx row %s: %w", doc.ID, err)
		}
	}
	if err := f.SetPanes(xlsxSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return domain.ExportFile{}, fmt.Errorf("freeze header: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return domain.ExportFile{}, fmt.Errorf("write xlsx: %w", err)
	}
	return domain.ExportFile{
		Filename:    exportFilename(now, "xlsx"),
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Content:     buf.Bytes(),
	}, nil
}
