package events

import (
	"github.com/shopspring/decimal"
)

const (
	ConsumptionConfirmedEvent = "consumption.confirmed"
	ConsumptionRenamedEvent   = "consumption.renamed"
	StockDeductedEvent        = "stock.deducted"
	IngredientSkippedEvent    = "ingredient.skipped"
)

// AllConsumptionEvents lists every event type the engine emits
var AllConsumptionEvents = []string{
	ConsumptionConfirmedEvent,
	ConsumptionRenamedEvent,
	StockDeductedEvent,
	IngredientSkippedEvent,
}

type ConsumptionConfirmed struct {
	ConsumptionID string          `json:"consumption_id"`
	UserID        string          `json:"user_id"`
	RecipeID      string          `json:"recipe_id"`
	Type          string          `json:"consumption_type"`
	Portions      decimal.Decimal `json:"portions"`
	BatchID       string          `json:"batch_id,omitempty"`
	Applied       int             `json:"applied"`
	Skipped       int             `json:"skipped"`
}

type ConsumptionRenamed struct {
	ConsumptionID string `json:"consumption_id"`
	OldName       string `json:"old_name"`
	NewName       string `json:"new_name"`
}

type StockDeducted struct {
	ConsumptionID  string          `json:"consumption_id"`
	StockID        string          `json:"stock_id"`
	IngredientName string          `json:"ingredient_name"`
	Quantity       decimal.Decimal `json:"quantity"`
	StockBefore    decimal.Decimal `json:"stock_before"`
	StockAfter     decimal.Decimal `json:"stock_after"`
	Insufficient   bool            `json:"insufficient"`
}

type IngredientSkipped struct {
	ConsumptionID  string `json:"consumption_id"`
	IngredientName string `json:"ingredient_name"`
	Reason         string `json:"reason"`
}
