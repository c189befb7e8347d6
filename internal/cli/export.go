package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/soniaklein/HRF-Dashboard/internal/export"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export <template>...",
	Short: "Simulate templates and write a CSV or PDF report",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := runSimulation(args)
		if err != nil {
			return err
		}

		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()

		switch exportFormat {
		case "csv":
			err = export.WriteCSV(f, result.History)
		case "pdf":
			err = export.WritePDF(f, result.History)
		default:
			return fmt.Errorf("unknown format %q (csv | pdf)", exportFormat)
		}
		if err != nil {
			return err
		}

		fmt.Printf("wrote %s report to %s\n", exportFormat, exportOut)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "report format: csv | pdf")
	exportCmd.Flags().StringVar(&exportOut, "out", "hrf_report.csv", "output file path")
}
