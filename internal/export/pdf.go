package export

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/soniaklein/HRF-Dashboard/internal/model"
)

// reportTitle heads every PDF report.
const reportTitle = "HRF Policy Simulation Report"

// WritePDF renders the history table as a PDF report: a centered title, one
// "column: value" line per populated cell of each row, rows separated by a
// "---" line.
func WritePDF(w io.Writer, rows []model.Row) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(190, 10, reportTitle, "", 1, "C", false, 0, "")

	for _, row := range rows {
		line(pdf, "name", row.Name)
		line(pdf, "timestamp", row.Timestamp.UTC().Format(time.RFC3339))
		for _, m := range model.Metrics {
			if v := row.Cell(m); v != nil {
				line(pdf, string(m), fmt.Sprintf("%g", *v))
			}
		}
		pdf.CellFormat(190, 10, "---", "", 1, "L", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("export: write pdf: %w", err)
	}
	return nil
}

func line(pdf *gofpdf.Fpdf, col, val string) {
	pdf.CellFormat(190, 10, fmt.Sprintf("%s: %s", col, val), "", 1, "L", false, 0, "")
}
