package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soniaklein/HRF-Dashboard/internal/templates"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Inspect intervention templates",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all templates (builtin and saved)",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := templates.NewStore(cfg.Templates.Path)
		if err != nil {
			return err
		}
		for _, name := range store.Names() {
			fmt.Println(name)
		}
		return nil
	},
}

var templatesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print one template's impact set as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := templates.NewStore(cfg.Templates.Path)
		if err != nil {
			return err
		}
		impacts, ok := store.Get(args[0])
		if !ok {
			return fmt.Errorf("unknown template %q", args[0])
		}
		return printJSON(impacts)
	},
}

func init() {
	templatesCmd.AddCommand(templatesListCmd)
	templatesCmd.AddCommand(templatesShowCmd)
}
