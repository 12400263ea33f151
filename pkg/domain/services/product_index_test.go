package services

import (
	"testing"

	"github.com/vsinha/kitchen/pkg/domain/entities"
)

func TestProductIndex_Match(t *testing.T) {
	idx := NewProductIndex([]*entities.Product{
		{ID: "P1", Name: "Tomate", Unit: "kg"},
		{ID: "P2", Name: "Crème", Unit: "l"},
		{ID: "P3", Name: "crème ", Unit: "kg"},
		{ID: "P4", Name: "Sel", Unit: "g"},
		{ID: "P5", Name: "Sel", Unit: "kg"},
	})

	tests := []struct {
		name     string
		line     entities.RecipeIngredient
		expected LinkOutcome
		product  string
	}{
		{"single candidate any unit", entities.RecipeIngredient{IngredientName: " TOMATE", Unit: "g"}, LinkFound, "P1"},
		{"unit match among several", entities.RecipeIngredient{IngredientName: "Crème", Unit: "kg"}, LinkFound, "P3"},
		{"several without unit match", entities.RecipeIngredient{IngredientName: "sel", Unit: "pincée"}, LinkAmbiguous, ""},
		{"no candidate", entities.RecipeIngredient{IngredientName: "Basilic", Unit: "botte"}, LinkMissing, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product, outcome := idx.Match(tt.line)
			if outcome != tt.expected {
				t.Fatalf("Expected %s, got %s", tt.expected, outcome)
			}
			if tt.product == "" && product != nil {
				t.Errorf("Expected no product, got %s", product.ID)
			}
			if tt.product != "" && (product == nil || product.ID != tt.product) {
				t.Errorf("Expected product %s, got %+v", tt.product, product)
			}
		})
	}
}
