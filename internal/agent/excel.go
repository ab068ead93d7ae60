package agent

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"medical-audio-processor/internal/observability/logging"
)

// ExcelStore persists medicine records to an xlsx workbook.
type ExcelStore struct {
	path string
}

// NewExcelStore creates a store writing to the given workbook path.
func NewExcelStore(path string) *ExcelStore {
	return &ExcelStore{path: path}
}

// SaveMedicines writes one row per medicine. The workbook is written to
// a temp file and renamed into place so readers never observe a partial
// file.
func (s *ExcelStore) SaveMedicines(_ context.Context, medicines []string) (string, error) {
	logger := logging.WithComponent("excel")

	if len(medicines) == 0 {
		logger.Info().Msg("No medicines to save")
		return "No medicines to save.", nil
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create medicine dir: %w", err)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetCellValue(sheet, "A1", "Medicine"); err != nil {
		return "", err
	}
	for i, medicine := range medicines {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetCellValue(sheet, cell, sanitizeCell(medicine)); err != nil {
			return "", err
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".medicine-*.xlsx")
	if err != nil {
		return "", err
	}
	tmpPath := tmp.Name()
	tmp.Close()

	if err := f.SaveAs(tmpPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("write workbook: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("replace workbook: %w", err)
	}

	logger.Info().Int("count", len(medicines)).Str("path", s.path).Msg("Saved medicines")
	return fmt.Sprintf("Saved %d medicine records to %s", len(medicines), s.path), nil
}

// sanitizeCell prefixes values that a spreadsheet would interpret as a
// formula, so free LLM text cannot inject one.
func sanitizeCell(value string) string {
	if strings.HasPrefix(value, "=") || strings.HasPrefix(value, "+") ||
		strings.HasPrefix(value, "-") || strings.HasPrefix(value, "@") {
		return "'" + value
	}
	return value
}
