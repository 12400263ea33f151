package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vsinha/kitchen/pkg/domain/entities"
	"github.com/vsinha/kitchen/pkg/domain/repositories"
)

// Scenario file names inside a scenario directory
const (
	ProductsFile          = "products.csv"
	StockFile             = "stock.csv"
	RecipesFile           = "recipes.csv"
	RecipeIngredientsFile = "recipe_ingredients.csv"
)

// Scenario is a kitchen loaded from CSV: catalog, stock and recipes
type Scenario struct {
	Products []*entities.Product
	Stock    []*entities.StockRecord
	Recipes  []*entities.Recipe
}

// Loader handles loading kitchen data from CSV files
type Loader struct {
	now func() time.Time
}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{now: time.Now}
}

// LoadScenario reads the four scenario files of dir. Stock and ingredient
// lines must refer to rows loaded before them.
func (l *Loader) LoadScenario(dir string) (*Scenario, error) {
	products, err := l.LoadProducts(filepath.Join(dir, ProductsFile))
	if err != nil {
		return nil, err
	}
	stock, err := l.LoadStock(filepath.Join(dir, StockFile), products)
	if err != nil {
		return nil, err
	}
	recipes, err := l.LoadRecipes(filepath.Join(dir, RecipesFile))
	if err != nil {
		return nil, err
	}
	if err := l.LoadRecipeIngredients(filepath.Join(dir, RecipeIngredientsFile), recipes); err != nil {
		return nil, err
	}

	return &Scenario{Products: products, Stock: stock, Recipes: recipes}, nil
}

// LoadProducts loads the product catalog from a CSV file
func (l *Loader) LoadProducts(filename string) ([]*entities.Product, error) {
	expectedHeader := []string{"id", "name", "unit", "category", "low_stock_threshold"}
	records, err := readRecords(filename, "products", expectedHeader)
	if err != nil {
		return nil, err
	}

	var products []*entities.Product
	for i, record := range records {
		product, err := entities.NewProduct(record[0], record[1], record[2], record[3])
		if err != nil {
			return nil, fmt.Errorf("products CSV row %d: %w", i+2, err)
		}
		if threshold := strings.TrimSpace(record[4]); threshold != "" {
			value, err := decimal.NewFromString(threshold)
			if err != nil {
				return nil, fmt.Errorf("products CSV row %d: invalid low_stock_threshold %q", i+2, threshold)
			}
			product.LowStockThreshold = &value
		}
		products = append(products, product)
	}

	return products, nil
}

// LoadStock loads stock records from a CSV file. Each row must name a
// product from the given catalog.
func (l *Loader) LoadStock(filename string, products []*entities.Product) ([]*entities.StockRecord, error) {
	expectedHeader := []string{"id", "user_id", "product_id", "quantity"}
	records, err := readRecords(filename, "stock", expectedHeader)
	if err != nil {
		return nil, err
	}

	catalog := make(map[string]*entities.Product, len(products))
	for _, p := range products {
		catalog[p.ID] = p
	}

	var stock []*entities.StockRecord
	for i, record := range records {
		product, ok := catalog[record[2]]
		if !ok {
			return nil, fmt.Errorf("stock CSV row %d: unknown product %s", i+2, record[2])
		}
		quantity, err := decimal.NewFromString(strings.TrimSpace(record[3]))
		if err != nil {
			return nil, fmt.Errorf("stock CSV row %d: invalid quantity %q", i+2, record[3])
		}
		if quantity.IsNegative() {
			return nil, fmt.Errorf("stock CSV row %d: quantity cannot be negative, got %s", i+2, quantity)
		}

		rec, err := entities.NewStockRecord(record[0], record[1], *product, quantity, l.now())
		if err != nil {
			return nil, fmt.Errorf("stock CSV row %d: %w", i+2, err)
		}
		stock = append(stock, rec)
	}

	return stock, nil
}

// LoadRecipes loads recipe headers from a CSV file. An empty created_at
// spaces recipes one minute apart in file order.
func (l *Loader) LoadRecipes(filename string) ([]*entities.Recipe, error) {
	expectedHeader := []string{"id", "user_id", "name", "description", "servings", "created_at"}
	records, err := readRecords(filename, "recipes", expectedHeader)
	if err != nil {
		return nil, err
	}

	base := l.now().UTC().Truncate(time.Second)
	var recipes []*entities.Recipe
	for i, record := range records {
		servings, err := strconv.Atoi(strings.TrimSpace(record[4]))
		if err != nil {
			return nil, fmt.Errorf("recipes CSV row %d: invalid servings %q", i+2, record[4])
		}

		createdAt := base.Add(time.Duration(i) * time.Minute)
		if raw := strings.TrimSpace(record[5]); raw != "" {
			createdAt, err = time.Parse(time.RFC3339, raw)
			if err != nil {
				return nil, fmt.Errorf("invalid created_at format in row %d: %s (expected RFC3339)", i+2, raw)
			}
		}

		recipe, err := entities.NewRecipe(record[0], record[1], record[2], record[3], servings, createdAt)
		if err != nil {
			return nil, fmt.Errorf("recipes CSV row %d: %w", i+2, err)
		}
		recipes = append(recipes, recipe)
	}

	return recipes, nil
}

// LoadRecipeIngredients attaches ingredient lines to the given recipes in
// file order. The file may hold only a header.
func (l *Loader) LoadRecipeIngredients(filename string, recipes []*entities.Recipe) error {
	expectedHeader := []string{"id", "recipe_id", "ingredient_name", "quantity", "unit", "product_id"}
	records, err := readRecords(filename, "recipe ingredients", expectedHeader)
	if err != nil {
		return err
	}

	byID := make(map[string]*entities.Recipe, len(recipes))
	for _, r := range recipes {
		byID[r.ID] = r
	}

	for i, record := range records {
		recipe, ok := byID[record[1]]
		if !ok {
			return fmt.Errorf("recipe ingredients CSV row %d: unknown recipe %s", i+2, record[1])
		}
		quantity, err := decimal.NewFromString(strings.TrimSpace(record[3]))
		if err != nil {
			return fmt.Errorf("recipe ingredients CSV row %d: invalid quantity %q", i+2, record[3])
		}

		line, err := entities.NewRecipeIngredient(record[0], record[1], record[2], quantity, record[4], record[5])
		if err != nil {
			return fmt.Errorf("recipe ingredients CSV row %d: %w", i+2, err)
		}
		recipe.Ingredients = append(recipe.Ingredients, *line)
	}

	return nil
}

// Seed writes a scenario through the repositories, catalog first
func Seed(ctx context.Context, scenario *Scenario, products repositories.ProductRepository, stock repositories.StockRepository, recipes repositories.RecipeRepository) error {
	for _, p := range scenario.Products {
		if err := products.SaveProduct(ctx, p); err != nil {
			return fmt.Errorf("seed product %s: %w", p.ID, err)
		}
	}
	for _, s := range scenario.Stock {
		if err := stock.SaveStock(ctx, s); err != nil {
			return fmt.Errorf("seed stock %s: %w", s.ID, err)
		}
	}
	for _, r := range scenario.Recipes {
		if err := recipes.SaveRecipe(ctx, r); err != nil {
			return fmt.Errorf("seed recipe %s: %w", r.ID, err)
		}
	}
	return nil
}

// readRecords opens a CSV file, checks its header and returns the data rows
func readRecords(filename, kind string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", kind, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", kind, err)
	}

	if len(records) < 1 {
		return nil, fmt.Errorf("%s CSV must have a header", kind)
	}

	header := records[0]
	if !validateHeader(header, expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", kind, expectedHeader, header)
	}

	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", kind, i+2, len(expectedHeader), len(record))
		}
	}

	return records[1:], nil
}

// validateHeader checks if the CSV header matches expected format
func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range actual {
		if strings.TrimSpace(strings.ToLower(col)) != expected[i] {
			return false
		}
	}

	return true
}
