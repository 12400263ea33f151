package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vsinha/kitchen/pkg/interfaces/cli/output"
)

// rootOptions are the flags shared by every command
type rootOptions struct {
	configPath string
	scenario   string
	userID     string
	format     string
	outputFile string
	verbose    bool
}

// NewRootCommand builds the kitchen command tree
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "kitchen",
		Short:         "kitchen turns declared dish sales and losses into stock deductions",
		Long:          "kitchen previews and records recipe consumptions, deducts the ingredients from stock, and summarizes the latest validation.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to YAML config file")
	flags.StringVar(&opts.scenario, "scenario", "", "Scenario directory of CSV files; runs on an in-memory store seeded from it")
	flags.StringVar(&opts.userID, "user", os.Getenv("KITCHEN_USER"), "User owning the recipes and stock (default $KITCHEN_USER)")
	flags.StringVar(&opts.format, "format", "text", "Output format: text, json (summary also xlsx, svg)")
	flags.StringVar(&opts.outputFile, "output", "", "Write the result to this file instead of stdout")
	flags.BoolVar(&opts.verbose, "verbose", false, "Enable verbose output")

	root.AddCommand(
		newServeCommand(opts),
		newSeedCommand(opts),
		newPreviewCommand(opts),
		newConfirmCommand(opts),
		newBatchCommand(opts),
		newRenameCommand(opts),
		newConsumptionsCommand(opts),
		newSummaryCommand(opts),
		newFixLinksCommand(opts),
		newCleanupDuplicatesCommand(opts),
	)
	return root
}

// Execute runs the command tree and exits non-zero on failure
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (o *rootOptions) user() (string, error) {
	user := strings.TrimSpace(o.userID)
	if user == "" {
		return "", fmt.Errorf("--user is required (or set KITCHEN_USER)")
	}
	return user, nil
}

func (o *rootOptions) render(cmd *cobra.Command, result interface{}) error {
	return output.Generate(cmd.OutOrStdout(), result, output.Config{
		Format:     o.format,
		OutputFile: o.outputFile,
		Verbose:    o.verbose,
	})
}

// withKitchen opens the backend for the duration of run
func withKitchen(ctx context.Context, opts *rootOptions, run func(*kitchen) error) error {
	k, err := openKitchen(ctx, opts)
	if err != nil {
		return err
	}
	defer k.Close()
	return run(k)
}
