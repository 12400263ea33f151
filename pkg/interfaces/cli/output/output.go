package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vsinha/kitchen/pkg/application/dto"
)

// Config holds configuration for output generation
type Config struct {
	Format string
	// OutputFile receives the result instead of the writer; required for xlsx
	OutputFile string
	Verbose    bool
}

// Generate renders result in the configured format
func Generate(w io.Writer, result interface{}, config Config) error {
	switch config.Format {
	case "", "text":
		return generateTextOutput(w, result, config)
	case "json":
		return generateJSONOutput(w, result, config)
	case "xlsx":
		summary, ok := result.(*dto.Summary)
		if !ok {
			return fmt.Errorf("xlsx output is only available for the summary")
		}
		if config.OutputFile == "" {
			return fmt.Errorf("--output is required for xlsx format")
		}
		if err := ensureDir(config.OutputFile); err != nil {
			return err
		}
		if err := WriteSummaryXLSX(config.OutputFile, summary); err != nil {
			return fmt.Errorf("failed to write xlsx file: %w", err)
		}
		if config.Verbose {
			fmt.Fprintf(w, "💾 Summary saved to: %s\n", config.OutputFile)
		}
		return nil
	case "svg":
		summary, ok := result.(*dto.Summary)
		if !ok {
			return fmt.Errorf("svg output is only available for the summary")
		}
		return writeTo(w, config, []byte(NewImpactChart(summary).GenerateSVG(summary)))
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateJSONOutput creates indented JSON output
func generateJSONOutput(w io.Writer, result interface{}, config Config) error {
	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return writeTo(w, config, append(jsonData, '\n'))
}

func writeTo(w io.Writer, config Config, data []byte) error {
	if config.OutputFile == "" {
		_, err := w.Write(data)
		return err
	}

	if err := ensureDir(config.OutputFile); err != nil {
		return err
	}
	if err := os.WriteFile(config.OutputFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", config.OutputFile, err)
	}
	if config.Verbose {
		fmt.Fprintf(w, "💾 Results saved to: %s\n", config.OutputFile)
	}
	return nil
}

func ensureDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

// generateTextOutput creates human-readable text output
func generateTextOutput(w io.Writer, result interface{}, config Config) error {
	var b strings.Builder

	switch r := result.(type) {
	case *dto.Preview:
		writePreview(&b, r)
	case *dto.ConfirmResult:
		writeConfirm(&b, r)
	case *dto.BatchResult:
		writeBatch(&b, r)
	case *dto.ConsumptionView:
		fmt.Fprintf(&b, "✏️  %s renamed to %q\n", r.ID, r.Name)
	case []dto.ConsumptionDetails:
		writeConsumptions(&b, r)
	case *dto.Summary:
		writeSummary(&b, r)
	case *dto.FixLinksReport:
		writeFixLinks(&b, r)
	case *dto.CleanupReport:
		writeCleanup(&b, r)
	default:
		return fmt.Errorf("no text rendering for %T", result)
	}

	return writeTo(w, config, []byte(b.String()))
}

func writePreview(b *strings.Builder, p *dto.Preview) {
	fmt.Fprintf(b, "🔎 Preview: %s x %s (%s, %s)\n", formatQty(p.Portions), p.RecipeName, p.ConsumptionType, p.ConsumptionDate)
	fmt.Fprintf(b, "=====================\n\n")

	if len(p.CalculatedImpacts) == 0 {
		fmt.Fprintf(b, "No ingredient lines.\n")
		return
	}

	fmt.Fprintf(b, "%-24s %-10s %-10s %-10s %-8s %-10s\n",
		"Ingredient", "Needed", "In Stock", "After", "Unit", "Status")
	fmt.Fprintf(b, "%-24s %-10s %-10s %-10s %-8s %-10s\n",
		"------------------------", "----------", "----------", "----------", "--------", "----------")
	for _, impact := range p.CalculatedImpacts {
		status := "ok"
		switch {
		case !impact.Matched:
			status = "unmatched"
		case !impact.IsSufficient:
			status = "SHORT"
		}
		fmt.Fprintf(b, "%-24s %-10s %-10s %-10s %-8s %-10s\n",
			impact.IngredientName,
			formatQty(impact.QuantityNeeded),
			formatQty(impact.CurrentStock),
			formatQty(impact.StockAfter),
			impact.Unit,
			status)
	}

	if p.HasInsufficientStock {
		fmt.Fprintf(b, "\n⚠️  Insufficient stock for at least one ingredient\n")
	}
}

func writeConfirm(b *strings.Builder, r *dto.ConfirmResult) {
	fmt.Fprintf(b, "✅ Consumption %s recorded: %s x %s (%s, %s)\n",
		r.ID, formatQty(r.Portions), r.Recipe.Name, r.ConsumptionType, r.ConsumptionDate)
	if r.Name != "" {
		fmt.Fprintf(b, "Name: %s\n", r.Name)
	}
	if r.BatchID != "" {
		fmt.Fprintf(b, "Batch: %s\n", r.BatchID)
	}
	fmt.Fprintln(b)

	if len(r.Impacts) > 0 {
		fmt.Fprintf(b, "📦 Stock Deductions:\n")
		fmt.Fprintf(b, "%-24s %-10s %-10s %-10s %-8s\n", "Ingredient", "Consumed", "Before", "After", "Unit")
		fmt.Fprintf(b, "%-24s %-10s %-10s %-10s %-8s\n",
			"------------------------", "----------", "----------", "----------", "--------")
		for _, impact := range r.Impacts {
			fmt.Fprintf(b, "%-24s %-10s %-10s %-10s %-8s\n",
				impact.IngredientName,
				formatQty(impact.QuantityConsumed),
				formatQty(impact.StockBefore),
				formatQty(impact.StockAfter),
				impact.Unit)
		}
		fmt.Fprintln(b)
	}

	if len(r.Skipped) > 0 {
		fmt.Fprintf(b, "⚠️  Skipped Lines:\n")
		for _, line := range r.Skipped {
			if line.Error != "" {
				fmt.Fprintf(b, "  %s: %s (%s)\n", line.IngredientName, line.Reason, line.Error)
			} else {
				fmt.Fprintf(b, "  %s: %s\n", line.IngredientName, line.Reason)
			}
		}
	}
}

func writeBatch(b *strings.Builder, r *dto.BatchResult) {
	fmt.Fprintf(b, "📋 Batch %s: %d succeeded, %d failed\n\n", r.BatchID, r.Succeeded, r.Failed)
	for i := range r.Consumptions {
		writeConfirm(b, &r.Consumptions[i])
		fmt.Fprintln(b)
	}
	for _, e := range r.Errors {
		fmt.Fprintf(b, "❌ %s\n", e)
	}
}

func writeConsumptions(b *strings.Builder, consumptions []dto.ConsumptionDetails) {
	if len(consumptions) == 0 {
		fmt.Fprintf(b, "No consumptions recorded.\n")
		return
	}

	fmt.Fprintf(b, "%-12s %-6s %-24s %-8s %-8s %-36s\n", "Date", "Type", "Recipe", "Portions", "Impacts", "Name")
	fmt.Fprintf(b, "%-12s %-6s %-24s %-8s %-8s %-36s\n",
		"------------", "------", "------------------------", "--------", "--------", "------------------------------------")
	for _, c := range consumptions {
		fmt.Fprintf(b, "%-12s %-6s %-24s %-8s %-8d %-36s\n",
			c.ConsumptionDate,
			c.ConsumptionType,
			c.Recipe.Name,
			formatQty(c.Portions),
			len(c.Impacts),
			c.Name)
	}
}

func writeSummary(b *strings.Builder, s *dto.Summary) {
	fmt.Fprintf(b, "📊 %s\n", s.Period)
	fmt.Fprintf(b, "======================\n\n")
	fmt.Fprintf(b, "Consumptions: %d\n", s.TotalConsumptions)
	fmt.Fprintf(b, "Dishes: %s\n", formatQty(s.TotalDishes))
	if s.BatchID != "" {
		fmt.Fprintf(b, "Batch: %s\n", s.BatchID)
	}
	fmt.Fprintln(b)

	if len(s.RecipeSummary) > 0 {
		fmt.Fprintf(b, "🍽️  Recipes:\n")
		for _, r := range s.RecipeSummary {
			fmt.Fprintf(b, "  %-30s %s\n", r.RecipeName, formatQty(r.Portions))
		}
		fmt.Fprintln(b)
	}

	if len(s.ProductImpacts) > 0 {
		fmt.Fprintf(b, "📦 Products Consumed:\n")
		fmt.Fprintf(b, "%-24s %-12s %-8s %-6s\n", "Product", "Quantity", "Unit", "Uses")
		fmt.Fprintf(b, "%-24s %-12s %-8s %-6s\n", "------------------------", "------------", "--------", "------")
		for _, p := range s.ProductImpacts {
			fmt.Fprintf(b, "%-24s %-12s %-8s %-6d\n", p.ProductName, formatQty(p.TotalQuantity), p.Unit, len(p.Consumptions))
		}
	}
}

func writeFixLinks(b *strings.Builder, r *dto.FixLinksReport) {
	fmt.Fprintf(b, "🔗 Ingredient links: %d fixed, %d missing, %d ambiguous, %d failed\n",
		r.Fixed, r.Missing, r.Ambiguous, r.Failed)
	if len(r.MissingIngredients) > 0 {
		fmt.Fprintf(b, "\nNo catalog product for:\n")
		for _, m := range r.MissingIngredients {
			fmt.Fprintf(b, "  %s (%s)\n", m.Name, m.Unit)
		}
	}
}

func writeCleanup(b *strings.Builder, r *dto.CleanupReport) {
	fmt.Fprintf(b, "🧹 Duplicate names: %d, recipes deleted: %d\n", r.DuplicatesFound, r.RecipesDeleted)
	for _, id := range r.DeletedIDs {
		fmt.Fprintf(b, "  - %s\n", id)
	}
}

func formatQty(q float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.3f", q), "0"), ".")
}
