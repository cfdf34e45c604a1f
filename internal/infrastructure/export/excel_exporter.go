package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/dinhchung2102/iuh-facility-management/internal/application/port"
)

const sheetName = "Audits"

var headers = []string{"ID", "Subject", "Status", "Assigned Staff", "Deadline", "Overdue", "Created"}

// ExcelExporter writes audit summaries as xlsx workbooks
type ExcelExporter struct {
	outputDir string
	logger    *zap.Logger
}

// NewExcelExporter creates an exporter targeting the given directory
func NewExcelExporter(outputDir string, logger *zap.Logger) (*ExcelExporter, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	return &ExcelExporter{outputDir: outputDir, logger: logger}, nil
}

// Export writes one workbook row per audit and returns the file path
func (e *ExcelExporter) Export(ctx context.Context, rows []port.ExportRow) (string, error) {
	e.logger.Info("Exporting audit summary", zap.Int("rows", len(rows)))

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		e.logger.Warn("Failed to drop default sheet", zap.Error(err))
	}

	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		e.setCell(f, cell, header)
	}

	for i, row := range rows {
		overdue := "no"
		if row.Overdue {
			overdue = "yes"
		}
		values := []interface{}{
			row.AuditID,
			row.Subject,
			row.Status,
			strings.Join(row.StaffNames, ", "),
			row.ExpiresAt,
			overdue,
			row.CreatedAt,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			e.setCell(f, cell, value)
		}
	}

	name := fmt.Sprintf("audit-summary-%s-%s.xlsx",
		time.Now().Format("20060102"), uuid.New().String()[:8])
	outputPath := filepath.Join(e.outputDir, name)

	if err := f.SaveAs(outputPath); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}

	e.logger.Info("Audit summary exported", zap.String("output_path", outputPath))
	return outputPath, nil
}

func (e *ExcelExporter) setCell(f *excelize.File, cell string, value interface{}) {
	if err := f.SetCellValue(sheetName, cell, value); err != nil {
		e.logger.Warn("Failed to set cell value",
			zap.String("cell", cell),
			zap.Error(err))
	}
}

// Verify interface compliance
var _ port.AuditExporter = (*ExcelExporter)(nil)
