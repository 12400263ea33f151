package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vsinha/kitchen/pkg/domain/entities"
)

// ConsumptionInput is one {recipe, portions, type, date} declaration as sent
// by the client for preview or confirmation
type ConsumptionInput struct {
	RecipeID        string          `json:"recipe_id"`
	Portions        decimal.Decimal `json:"portions"`
	ConsumptionType string          `json:"consumption_type"`
	ConsumptionDate string          `json:"consumption_date,omitempty"`
	Name            string          `json:"name,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	BatchID         string          `json:"batch_id,omitempty"`
}

// CalculatedImpact is one projected ingredient line of a preview
type CalculatedImpact struct {
	IngredientName string  `json:"ingredient_name"`
	ProductID      string  `json:"ingredient_id,omitempty"`
	StockID        string  `json:"stock_id,omitempty"`
	Unit           string  `json:"unit"`
	QuantityNeeded float64 `json:"quantity_needed"`
	CurrentStock   float64 `json:"current_stock"`
	StockAfter     float64 `json:"stock_after"`
	IsSufficient   bool    `json:"is_sufficient"`
	Matched        bool    `json:"matched"`
	MatchedBy      string  `json:"matched_by"`
}

// Preview is the non-mutating projection of a consumption
type Preview struct {
	RecipeID             string             `json:"recipe_id"`
	RecipeName           string             `json:"recipe_name"`
	RecipeDescription    string             `json:"recipe_description,omitempty"`
	ConsumptionType      string             `json:"consumption_type"`
	Portions             float64            `json:"portions"`
	ConsumptionDate      string             `json:"consumption_date"`
	CalculatedImpacts    []CalculatedImpact `json:"calculated_impacts"`
	HasInsufficientStock bool               `json:"has_insufficient_stock"`

	// Impacts holds the unrounded projections behind CalculatedImpacts
	Impacts []entities.Impact `json:"-"`
}

// ConsumptionView is the wire form of a stored consumption
type ConsumptionView struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	RecipeID        string    `json:"recipe_id"`
	ConsumptionType string    `json:"consumption_type"`
	Portions        float64   `json:"portions"`
	ConsumptionDate string    `json:"consumption_date"`
	Name            string    `json:"name,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	BatchID         string    `json:"batch_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewConsumptionView converts a stored consumption for the wire
func NewConsumptionView(c *entities.Consumption) ConsumptionView {
	return ConsumptionView{
		ID:              c.ID,
		UserID:          c.UserID,
		RecipeID:        c.RecipeID,
		ConsumptionType: c.Type.String(),
		Portions:        c.Portions.InexactFloat64(),
		ConsumptionDate: c.ConsumptionDate.Format(entities.DateLayout),
		Name:            c.Name,
		Notes:           c.Notes,
		BatchID:         c.BatchID,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// RecipeRef carries the display fields of the consumed recipe
type RecipeRef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// AppliedImpact is an ingredient line whose deduction was persisted
type AppliedImpact struct {
	ID               string  `json:"id,omitempty"`
	IngredientName   string  `json:"ingredient_name"`
	Unit             string  `json:"unit"`
	StockID          string  `json:"stock_id,omitempty"`
	ProductID        string  `json:"ingredient_id,omitempty"`
	QuantityConsumed float64 `json:"quantity_consumed"`
	StockBefore      float64 `json:"stock_before"`
	StockAfter       float64 `json:"stock_after"`
}

// SkippedLine is a recipe line that produced no applied impact
type SkippedLine struct {
	IngredientName string `json:"ingredient_name"`
	Reason         string `json:"reason"`
	Error          string `json:"error,omitempty"`
}

// ConfirmResult is the committed consumption with the impacts that were applied
type ConfirmResult struct {
	ConsumptionView
	Recipe  RecipeRef       `json:"recipe"`
	Impacts []AppliedImpact `json:"impacts"`
	Skipped []SkippedLine   `json:"skipped"`

	// Applied and LineErrors are the domain values behind Impacts and Skipped
	Applied    []entities.Impact    `json:"-"`
	LineErrors []entities.LineError `json:"-"`
}

// ConsumptionDetails is a listed consumption with its persisted impact records
type ConsumptionDetails struct {
	ConsumptionView
	Recipe  RecipeRef       `json:"recipe"`
	Impacts []AppliedImpact `json:"impacts"`
}

// ListQuery holds the raw filters of a consumption listing
type ListQuery struct {
	StartDate string
	EndDate   string
	Type      string
	Limit     int
}

// BatchResult reports a grouped validation of several declarations
type BatchResult struct {
	BatchID      string          `json:"batch_id"`
	Succeeded    int             `json:"succeeded"`
	Failed       int             `json:"failed"`
	Consumptions []ConfirmResult `json:"consumptions"`
	Errors       []string        `json:"errors"`
}
