package services

import (
	"github.com/shopspring/decimal"
	"github.com/vsinha/kitchen/pkg/domain/entities"
)

// DisplayPlaces is the number of decimals shown for any quantity leaving the engine
const DisplayPlaces = 2

// Scale returns the absolute quantity of an ingredient needed for the
// requested portions, given the quantity written for the recipe's servings.
// Non-positive servings count as one. The result is not rounded.
func Scale(lineQuantity decimal.Decimal, recipeServings int, requestedPortions decimal.Decimal) decimal.Decimal {
	servings := recipeServings
	if servings < 1 {
		servings = 1
	}
	return lineQuantity.Mul(requestedPortions).Div(decimal.NewFromInt(int64(servings)))
}

// ScaleLine scales one ingredient line of recipe
func ScaleLine(recipe *entities.Recipe, line entities.RecipeIngredient, portions decimal.Decimal) decimal.Decimal {
	return Scale(line.Quantity, recipe.Yield(), portions)
}

// RoundDisplay rounds a quantity for presentation
func RoundDisplay(q decimal.Decimal) decimal.Decimal {
	return q.Round(DisplayPlaces)
}
