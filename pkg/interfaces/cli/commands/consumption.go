package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/vsinha/kitchen/pkg/application/dto"
)

// inputFlags are the declaration flags shared by preview and confirm
type inputFlags struct {
	recipeID string
	portions string
	kind     string
	date     string
	name     string
	notes    string
	batchID  string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.recipeID, "recipe", "", "Recipe id")
	cmd.Flags().StringVar(&f.portions, "portions", "", "Number of portions, decimals allowed")
	cmd.Flags().StringVar(&f.kind, "type", "sale", "Consumption type: sale or loss")
	cmd.Flags().StringVar(&f.date, "date", "", "Consumption date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&f.name, "name", "", "Consumption name")
	cmd.Flags().StringVar(&f.notes, "notes", "", "Free-form notes")
	cmd.Flags().StringVar(&f.batchID, "batch", "", "Batch id grouping this consumption with others")
	cmd.MarkFlagRequired("recipe")
	cmd.MarkFlagRequired("portions")
}

func (f *inputFlags) input() (dto.ConsumptionInput, error) {
	portions, err := decimal.NewFromString(f.portions)
	if err != nil {
		return dto.ConsumptionInput{}, fmt.Errorf("invalid --portions %q", f.portions)
	}
	return dto.ConsumptionInput{
		RecipeID:        f.recipeID,
		Portions:        portions,
		ConsumptionType: f.kind,
		ConsumptionDate: f.date,
		Name:            f.name,
		Notes:           f.notes,
		BatchID:         f.batchID,
	}, nil
}

func newPreviewCommand(opts *rootOptions) *cobra.Command {
	flags := &inputFlags{}
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the stock impact of a consumption without recording it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := opts.user()
			if err != nil {
				return err
			}
			in, err := flags.input()
			if err != nil {
				return err
			}
			return withKitchen(cmd.Context(), opts, func(k *kitchen) error {
				preview, err := k.consumptionService().Preview(cmd.Context(), user, in)
				if err != nil {
					return err
				}
				return opts.render(cmd, preview)
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newConfirmCommand(opts *rootOptions) *cobra.Command {
	flags := &inputFlags{}
	cmd := &cobra.Command{
		Use:   "confirm",
		Short: "Record a consumption and deduct its ingredients from stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := opts.user()
			if err != nil {
				return err
			}
			in, err := flags.input()
			if err != nil {
				return err
			}
			return withKitchen(cmd.Context(), opts, func(k *kitchen) error {
				result, err := k.consumptionService().Confirm(cmd.Context(), user, in)
				if err != nil {
					return err
				}
				return opts.render(cmd, result)
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newBatchCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "batch FILE",
		Short: "Confirm every consumption of a JSON file as one validation",
		Long:  "batch reads a JSON array of {recipe_id, portions, consumption_type, consumption_date, ...} and confirms them in order under one batch id.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := opts.user()
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			var inputs []dto.ConsumptionInput
			if err := json.Unmarshal(data, &inputs); err != nil {
				return fmt.Errorf("failed to parse %s: %w", args[0], err)
			}

			return withKitchen(cmd.Context(), opts, func(k *kitchen) error {
				result, err := k.consumptionService().ConfirmBatch(cmd.Context(), user, inputs)
				if err != nil {
					return err
				}
				return opts.render(cmd, result)
			})
		},
	}
}

func newRenameCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rename CONSUMPTION_ID NAME",
		Short: "Rename a recorded consumption",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := opts.user()
			if err != nil {
				return err
			}
			return withKitchen(cmd.Context(), opts, func(k *kitchen) error {
				view, err := k.consumptionService().RenameConsumption(cmd.Context(), user, args[0], args[1])
				if err != nil {
					return err
				}
				return opts.render(cmd, view)
			})
		},
	}
}

func newConsumptionsCommand(opts *rootOptions) *cobra.Command {
	var q dto.ListQuery
	cmd := &cobra.Command{
		Use:   "consumptions",
		Short: "List recorded consumptions, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := opts.user()
			if err != nil {
				return err
			}
			return withKitchen(cmd.Context(), opts, func(k *kitchen) error {
				consumptions, err := k.consumptionService().ListConsumptions(cmd.Context(), user, q)
				if err != nil {
					return err
				}
				return opts.render(cmd, consumptions)
			})
		},
	}
	cmd.Flags().StringVar(&q.StartDate, "start-date", "", "Earliest consumption date YYYY-MM-DD")
	cmd.Flags().StringVar(&q.EndDate, "end-date", "", "Latest consumption date YYYY-MM-DD")
	cmd.Flags().StringVar(&q.Type, "type", "", "Only sale or loss")
	cmd.Flags().IntVar(&q.Limit, "limit", 0, "Maximum number of consumptions (default 50)")
	return cmd
}

func newSummaryCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Summarize the latest validation",
		Long:  "summary recaps the latest consumption, or every consumption of its batch: dishes per recipe and total quantity per product.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := opts.user()
			if err != nil {
				return err
			}
			return withKitchen(cmd.Context(), opts, func(k *kitchen) error {
				summary, err := k.consumptionService().Summarize(cmd.Context(), user)
				if err != nil {
					return err
				}
				return opts.render(cmd, summary)
			})
		},
	}
}
