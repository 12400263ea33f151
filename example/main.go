package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"github.com/vsinha/kitchen/pkg/application/dto"
	"github.com/vsinha/kitchen/pkg/application/services/consumption"
	"github.com/vsinha/kitchen/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/kitchen/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/kitchen/pkg/interfaces/cli/output"
)

const user = "user-1"

func main() {
	if err := run(context.Background(), os.Stdout, "scenarios/bistro", output.Config{}); err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
}

// run plays an evening service against the scenario in dir
func run(ctx context.Context, w io.Writer, dir string, outputConfig output.Config) error {
	// Create repositories
	products := memory.NewProductRepository(0)
	stock := memory.NewStockRepository()
	recipes := memory.NewRecipeRepository(0)
	consumptions := memory.NewConsumptionRepository()

	// Load the bistro kitchen
	scenario, err := csv.NewLoader().LoadScenario(dir)
	if err != nil {
		return fmt.Errorf("failed to load scenario: %w", err)
	}
	if err := csv.Seed(ctx, scenario, products, stock, recipes); err != nil {
		return fmt.Errorf("failed to seed: %w", err)
	}

	engine := consumption.NewService(recipes, stock, consumptions, consumption.DefaultEngineConfig())

	// Evening service: 3 pizzas and 2 salads
	service := []dto.ConsumptionInput{
		{RecipeID: "R-PIZZA", Portions: decimal.NewFromInt(3), ConsumptionType: "sale"},
		{RecipeID: "R-SALADE", Portions: decimal.NewFromInt(2), ConsumptionType: "sale"},
	}

	fmt.Fprintln(w, "🍕 Previewing the evening service...")
	for _, in := range service {
		preview, err := engine.Preview(ctx, user, in)
		if err != nil {
			return fmt.Errorf("preview failed: %w", err)
		}
		if err := output.Generate(w, preview, outputConfig); err != nil {
			return fmt.Errorf("output failed: %w", err)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "✅ Validating the evening service...")
	batch, err := engine.ConfirmBatch(ctx, user, service)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if err := output.Generate(w, batch, outputConfig); err != nil {
		return fmt.Errorf("output failed: %w", err)
	}

	summary, err := engine.Summarize(ctx, user)
	if err != nil {
		return fmt.Errorf("summary failed: %w", err)
	}
	if err := output.Generate(w, summary, outputConfig); err != nil {
		return fmt.Errorf("output failed: %w", err)
	}
	return nil
}
