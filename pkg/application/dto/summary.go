package dto

import "time"

// ContributingConsumption is one consumption's share of a product impact
type ContributingConsumption struct {
	ConsumptionID   string    `json:"consumptionId"`
	ConsumptionName string    `json:"consumptionName"`
	RecipeName      string    `json:"recipeName"`
	Portions        float64   `json:"portions"`
	Quantity        float64   `json:"quantity"`
	Date            time.Time `json:"date"`
}

// ProductImpact is the total draw-down of one normalized ingredient name
type ProductImpact struct {
	ProductName   string                    `json:"productName"`
	TotalQuantity float64                   `json:"totalQuantity"`
	Unit          string                    `json:"unit"`
	Consumptions  []ContributingConsumption `json:"consumptions"`
}

// RecipePortions tallies the portions declared for one recipe
type RecipePortions struct {
	RecipeID   string  `json:"recipeId"`
	RecipeName string  `json:"recipeName"`
	Portions   float64 `json:"portions"`
}

// Summary recaps the latest validation
type Summary struct {
	Period            string           `json:"period"`
	BatchID           string           `json:"batchId,omitempty"`
	TotalConsumptions int              `json:"totalConsumptions"`
	TotalDishes       float64          `json:"totalDishes"`
	RecipeSummary     []RecipePortions `json:"recipeSummary"`
	ProductImpacts    []ProductImpact  `json:"productImpacts"`
}
