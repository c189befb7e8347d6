package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/soniaklein/HRF-Dashboard/internal/config"
)

var (
	cfgPath string
	cfg     *config.Config

	rootCmd = &cobra.Command{
		Use:   "hrf",
		Short: "HRF: homeostatic resilience policy simulation",
		Long: `HRF simulates policy interventions against a homeostatic resilience
model: named templates describe impacts on tracked metrics, and the model
derives SDG alignment scores and stability thresholds from the accumulated
state.

Run the dashboard backend:
  hrf serve

Evaluate templates headlessly:
  hrf simulate "Green Housing & Jobs"`,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "path to config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(templatesCmd)
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
}
