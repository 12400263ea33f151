package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// Impact is the effect of one consumption on one ingredient.
// StockAfter is the unclamped projection; IsSufficient is judged against it.
type Impact struct {
	IngredientName string
	Unit           string
	StockID        string
	ProductID      string
	QuantityNeeded decimal.Decimal
	StockBefore    decimal.Decimal
	StockAfter     decimal.Decimal
	IsSufficient   bool
}

// Clamped returns the impact as it is persisted: StockAfter floored at zero.
// IsSufficient keeps the value computed on the projection.
func (i Impact) Clamped() Impact {
	if i.StockAfter.IsNegative() {
		i.StockAfter = decimal.Zero
	}
	return i
}

// ImpactRecord is the persisted side record of an applied impact
type ImpactRecord struct {
	ID               string
	ConsumptionID    string
	StockID          string
	ProductID        string
	IngredientName   string
	Unit             string
	QuantityConsumed decimal.Decimal
	StockBefore      decimal.Decimal
	StockAfter       decimal.Decimal
	CreatedAt        time.Time
}

// LineSkipReason classifies why a recipe line produced no applied impact
type LineSkipReason int

const (
	SkipUnmatched LineSkipReason = iota
	SkipStockUpdate
	SkipImpactRecord
)

// String method for LineSkipReason enum
func (r LineSkipReason) String() string {
	switch r {
	case SkipUnmatched:
		return "unmatched_ingredient"
	case SkipStockUpdate:
		return "stock_update_failed"
	case SkipImpactRecord:
		return "impact_record_failed"
	default:
		return "unknown"
	}
}

// LineError describes a recipe line that Confirm could not fully apply.
// SkipImpactRecord lines still had their stock deducted.
type LineError struct {
	LineID         string
	IngredientName string
	Reason         LineSkipReason
	Err            error
}

func (e LineError) Error() string {
	if e.Err == nil {
		return e.IngredientName + ": " + e.Reason.String()
	}
	return e.IngredientName + ": " + e.Reason.String() + ": " + e.Err.Error()
}

func (e LineError) Unwrap() error {
	return e.Err
}
