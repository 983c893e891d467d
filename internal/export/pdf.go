// Package export produces downloadable artifacts from a computed result:
// a paginated PDF document and an XLSX spreadsheet, both carrying the same
// field/value table.
package export

import (
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/cltpj/cltpj/internal/report"
)

// WritePDF renders the field table into a PDF document at path.
func WritePDF(path, title string, rows []report.FieldRow) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(title), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 6, tr("Gerado em "+time.Now().Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(110, 8, tr("Campo"), "1", 0, "L", true, 0, "")
	pdf.CellFormat(60, 8, tr("Valor"), "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, row := range rows {
		pdf.CellFormat(110, 8, tr(row.Label), "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 8, tr(row.Value), "1", 1, "R", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}

	return nil
}
