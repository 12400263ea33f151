package testing

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vsinha/kitchen/pkg/domain/entities"
	"github.com/vsinha/kitchen/pkg/infrastructure/repositories/memory"
)

// TestUser owns every fixture built here
const TestUser = "user-1"

// BaseTime is the creation time of the first fixture recipe
var BaseTime = time.Date(2025, 3, 14, 18, 0, 0, 0, time.UTC)

// Kitchen bundles the in-memory repositories of a seeded test restaurant
type Kitchen struct {
	Recipes      *memory.RecipeRepository
	Stock        *memory.StockRepository
	Products     *memory.ProductRepository
	Consumptions *memory.ConsumptionRepository

	recipeCount int
}

// Line describes a recipe ingredient line for AddRecipe
type Line struct {
	Name      string
	Quantity  string
	Unit      string
	ProductID string
}

// NewKitchen creates empty repositories
func NewKitchen() *Kitchen {
	return &Kitchen{
		Recipes:      memory.NewRecipeRepository(10),
		Stock:        memory.NewStockRepository(),
		Products:     memory.NewProductRepository(10),
		Consumptions: memory.NewConsumptionRepository(),
	}
}

// AddProduct registers a catalog product
func (k *Kitchen) AddProduct(id, name, unit string) *entities.Product {
	product, err := entities.NewProduct(id, name, unit, "")
	if err != nil {
		panic(err)
	}
	if err := k.Products.SaveProduct(context.Background(), product); err != nil {
		panic(err)
	}
	return product
}

// AddStock gives TestUser an on-hand quantity of product
func (k *Kitchen) AddStock(id string, product *entities.Product, quantity string) *entities.StockRecord {
	record, err := entities.NewStockRecord(id, TestUser, *product, decimal.RequireFromString(quantity), BaseTime)
	if err != nil {
		panic(err)
	}
	if err := k.Stock.SaveStock(context.Background(), record); err != nil {
		panic(err)
	}
	return record
}

// AddRecipe stores a recipe of TestUser. Recipes are created one hour apart
// in call order.
func (k *Kitchen) AddRecipe(id, name string, servings int, lines ...Line) *entities.Recipe {
	createdAt := BaseTime.Add(time.Duration(k.recipeCount) * time.Hour)
	k.recipeCount++

	recipe, err := entities.NewRecipe(id, TestUser, name, "", servings, createdAt)
	if err != nil {
		panic(err)
	}
	for i, l := range lines {
		line, err := entities.NewRecipeIngredient(fmt.Sprintf("%s-L%d", id, i+1), id, l.Name, decimal.RequireFromString(l.Quantity), l.Unit, l.ProductID)
		if err != nil {
			panic(err)
		}
		recipe.Ingredients = append(recipe.Ingredients, *line)
	}
	if err := k.Recipes.SaveRecipe(context.Background(), recipe); err != nil {
		panic(err)
	}
	return recipe
}

// StockQuantity returns the stored quantity of one stock record
func (k *Kitchen) StockQuantity(stockID string) decimal.Decimal {
	records, _ := k.Stock.ListStock(context.Background(), TestUser)
	for _, record := range records {
		if record.ID == stockID {
			return record.Quantity
		}
	}
	panic("unknown stock " + stockID)
}

// BuildPizzaKitchen seeds a single-serving pizza using 0.12 kg of
// mozzarella, with mozzarellaStock kg of mozzarella on hand.
func BuildPizzaKitchen(mozzarellaStock string) *Kitchen {
	k := NewKitchen()

	mozzarella := k.AddProduct("P-MOZZA", "Mozzarella", "kg")
	k.AddProduct("P-TOMATE", "Tomate", "kg")
	k.AddProduct("P-BASILIC", "Basilic", "botte")

	k.AddStock("S-MOZZA", mozzarella, mozzarellaStock)

	k.AddRecipe("R-PIZZA", "Pizza", 1,
		Line{Name: "Mozzarella", Quantity: "0.12", Unit: "kg"},
	)
	return k
}

// BuildBistroKitchen extends the pizza kitchen with 1 kg of mozzarella, 3 kg
// of tomatoes, and a four-serving salad sharing the mozzarella. The salad's
// basil has no stock record.
func BuildBistroKitchen() *Kitchen {
	k := BuildPizzaKitchen("1.0")

	tomato := &entities.Product{ID: "P-TOMATE", Name: "Tomate", Unit: "kg"}
	k.AddStock("S-TOMATE", tomato, "3")

	k.AddRecipe("R-SALADE", "Salade caprese", 4,
		Line{Name: "mozzarella", Quantity: "0.4", Unit: "kg"},
		Line{Name: "Tomate", Quantity: "1", Unit: "kg"},
		Line{Name: "Basilic", Quantity: "1", Unit: "botte"},
	)
	return k
}
