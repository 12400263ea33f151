package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vsinha/kitchen/pkg/infrastructure/config"
)

func newSeedCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load a CSV scenario into the configured database",
		Long:  "seed reads products.csv, stock.csv, recipes.csv and recipe_ingredients.csv from --scenario and upserts them into the configured database.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.scenario == "" {
				return fmt.Errorf("--scenario is required")
			}
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if cfg.Database.Driver == "memory" {
				return fmt.Errorf("seed needs a database; database.driver is memory")
			}

			k, err := openKitchenWith(cmd.Context(), cfg, opts.scenario)
			if err != nil {
				return err
			}
			defer k.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "✅ Scenario %s loaded into %s\n", opts.scenario, cfg.Database.Driver)
			return nil
		},
	}
}
