package services

import (
	"github.com/shopspring/decimal"
	"github.com/vsinha/kitchen/pkg/domain/entities"
)

// CalculateImpact projects the effect of consuming portions of a recipe on a
// single ingredient line. stockBefore is zero when the line has no stock.
// StockAfter is left unclamped; use Impact.Clamped before persisting.
func CalculateImpact(line entities.RecipeIngredient, servings int, portions, stockBefore decimal.Decimal) entities.Impact {
	needed := Scale(line.Quantity, servings, portions)
	after := stockBefore.Sub(needed)

	return entities.Impact{
		IngredientName: line.IngredientName,
		Unit:           line.Unit,
		ProductID:      line.ProductID,
		QuantityNeeded: needed,
		StockBefore:    stockBefore,
		StockAfter:     after,
		IsSufficient:   !after.IsNegative(),
	}
}

// CalculateMatchedImpact is CalculateImpact for a line resolved to a stock
// record; identity fields come from the record.
func CalculateMatchedImpact(line entities.RecipeIngredient, servings int, portions decimal.Decimal, stock *entities.StockRecord, stockBefore decimal.Decimal) entities.Impact {
	impact := CalculateImpact(line, servings, portions, stockBefore)
	impact.StockID = stock.ID
	impact.ProductID = stock.ProductID
	if stock.Unit != "" {
		impact.Unit = stock.Unit
	}
	return impact
}
