package commands

import (
	"github.com/spf13/cobra"
)

func newFixLinksCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "fix-links",
		Short: "Link recipe lines without a product to the catalog product of the same name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := opts.user()
			if err != nil {
				return err
			}
			return withKitchen(cmd.Context(), opts, func(k *kitchen) error {
				report, err := k.maintenanceService().FixDanglingIngredientLinks(cmd.Context(), user)
				if err != nil {
					return err
				}
				return opts.render(cmd, report)
			})
		},
	}
}

func newCleanupDuplicatesCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup-duplicates",
		Short: "Delete empty recipes that duplicate the name of another recipe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := opts.user()
			if err != nil {
				return err
			}
			return withKitchen(cmd.Context(), opts, func(k *kitchen) error {
				report, err := k.maintenanceService().CleanupDuplicateRecipes(cmd.Context(), user)
				if err != nil {
					return err
				}
				return opts.render(cmd, report)
			})
		},
	}
}
