package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kirillkom/invoice-review-assistant/internal/core/domain"
	"github.com/kirillkom/invoice-review-assistant/internal/core/ports"
)

type ExportUseCase struct {
	exporters map[domain.ExportFormat]ports.DocumentExporter
	now       func() time.Time
}

func NewExportUseCase(exporters ...ports.DocumentExporter) *ExportUseCase {
	byFormat := make(map[domain.ExportFormat]ports.DocumentExporter, len(exporters))
	for _, exporter := range exporters {
		byFormat[exporter.Format()] = exporter
	}
	return &ExportUseCase{
		exporters: byFormat,
		now:       time.Now,
	}
}

func (uc *ExportUseCase) Export(_ context.Context, docs []domain.Document, format domain.ExportFormat) (domain.ExportFile, error) {
	key := domain.ExportFormat(strings.ToLower(strings.TrimSpace(string(format))))
	if key == "" {
		key = domain.ExportCSV
	}
	exporter, ok := uc.exporters[key]
	if !ok {
		return domain.ExportFile{}, domain.WrapError(
			domain.ErrUnsupportedFormat,
			"export documents",
			fmt.Errorf("format %q", format),
		)
	}

	file, err := exporter.Export(docs, uc.now())
	if err != nil {
		return domain.ExportFile{}, fmt.Errorf("export %s: %w", key, err)
	}
	return file, nil
}
