package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RecipeIngredient is one ingredient line of a recipe. Quantity is expressed
// for the recipe's full Servings.
type RecipeIngredient struct {
	ID             string
	RecipeID       string
	IngredientName string
	Quantity       decimal.Decimal
	Unit           string
	ProductID      string // weak catalog reference, empty when unknown
}

// HasProduct reports whether the line carries a catalog reference
func (l RecipeIngredient) HasProduct() bool {
	return strings.TrimSpace(l.ProductID) != ""
}

// NewRecipeIngredient creates a validated RecipeIngredient
func NewRecipeIngredient(id, recipeID, name string, quantity decimal.Decimal, unit, productID string) (*RecipeIngredient, error) {
	if id == "" {
		return nil, fmt.Errorf("ingredient line id cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("ingredient name cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, fmt.Errorf("ingredient quantity cannot be negative, got %s", quantity)
	}

	return &RecipeIngredient{
		ID:             id,
		RecipeID:       recipeID,
		IngredientName: name,
		Quantity:       quantity,
		Unit:           unit,
		ProductID:      strings.TrimSpace(productID),
	}, nil
}

// Recipe represents a dish and the ingredient lines it is made from
type Recipe struct {
	ID          string
	UserID      string
	Name        string
	Description string
	Servings    int
	CreatedAt   time.Time
	Ingredients []RecipeIngredient
}

// NewRecipe creates a validated Recipe without ingredient lines
func NewRecipe(id, userID, name, description string, servings int, createdAt time.Time) (*Recipe, error) {
	if id == "" {
		return nil, fmt.Errorf("recipe id cannot be empty")
	}
	if userID == "" {
		return nil, fmt.Errorf("recipe user id cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("recipe name cannot be empty")
	}
	if servings < 1 {
		return nil, fmt.Errorf("servings must be at least 1, got %d", servings)
	}

	return &Recipe{
		ID:          id,
		UserID:      userID,
		Name:        name,
		Description: description,
		Servings:    servings,
		CreatedAt:   createdAt,
	}, nil
}

// Yield returns the servings the ingredient quantities are written for.
// Stored rows predating the servings constraint may hold zero.
func (r *Recipe) Yield() int {
	if r.Servings < 1 {
		return 1
	}
	return r.Servings
}
