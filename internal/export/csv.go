package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/soniaklein/HRF-Dashboard/internal/model"
)

// columns is the fixed CSV column order: metadata first, then the metric set
// in its canonical order.
func columns() []string {
	cols := []string{"name", "timestamp"}
	for _, m := range model.Metrics {
		cols = append(cols, string(m))
	}
	return cols
}

// WriteCSV renders the history table as an RFC 4180 CSV report. Metric cells
// the intervention did not touch are written blank.
func WriteCSV(w io.Writer, rows []model.Row) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(columns()); err != nil {
		return fmt.Errorf("export: write csv header: %w", err)
	}

	for _, row := range rows {
		record := []string{row.Name, row.Timestamp.UTC().Format(time.RFC3339)}
		for _, m := range model.Metrics {
			record = append(record, formatCell(row.Cell(m)))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("export: write csv row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export: flush csv: %w", err)
	}
	return nil
}

// formatCell renders one optional metric value; nil means the intervention
// did not touch the metric and renders blank.
func formatCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}
