package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/cltpj/cltpj/internal/report"
)

const sheetName = "Simulação"

// WriteXLSX renders the field table into a spreadsheet at path, one row
// per field.
func WriteXLSX(path string, rows []report.FieldRow) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	if err := f.SetCellValue(sheetName, "A1", "Campo"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetCellValue(sheetName, "B1", "Valor"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rows {
		labelCell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		valueCell, err := excelize.CoordinatesToCellName(2, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}

		if err := f.SetCellValue(sheetName, labelCell, row.Label); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
		if err := f.SetCellValue(sheetName, valueCell, row.Value); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.SetColWidth(sheetName, "A", "A", 36); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}
	if err := f.SetColWidth(sheetName, "B", "B", 18); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to write spreadsheet: %w", err)
	}

	return nil
}
