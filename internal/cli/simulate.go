package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/soniaklein/HRF-Dashboard/internal/model"
	"github.com/soniaklein/HRF-Dashboard/internal/templates"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <template>...",
	Short: "Apply templates to a fresh model and print the evaluation",
	Long: `Simulate applies the named templates in order to a fresh model and prints
the resulting system state, homeostasis report, SDG alignment scores and
history table as JSON — the headless equivalent of one dashboard session.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := runSimulation(args)
		if err != nil {
			return err
		}
		return printJSON(result)
	},
}

// simulationResult is the JSON document simulate and export operate on.
type simulationResult struct {
	State        map[model.Metric]float64         `json:"system_state"`
	Homeostasis  map[string]model.ThresholdReport `json:"homeostasis"`
	SDGAlignment map[string]float64               `json:"sdg_alignment"`
	History      []model.Row                      `json:"history"`
}

// runSimulation applies each named template in order to a fresh model.
func runSimulation(names []string) (*simulationResult, error) {
	store, err := templates.NewStore(cfg.Templates.Path)
	if err != nil {
		return nil, err
	}

	m := model.NewWith(cfg.Thresholds, nil)
	for _, name := range names {
		impacts, ok := store.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown template %q", name)
		}
		m.Apply(name, impacts, time.Now())
	}

	return &simulationResult{
		State:        m.State(),
		Homeostasis:  m.AssessHomeostasis(),
		SDGAlignment: m.SDGAlignment(),
		History:      m.HistoryTable(),
	}, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
