package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/vsinha/kitchen/pkg/domain/entities"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestScale(t *testing.T) {
	tests := []struct {
		name     string
		quantity string
		servings int
		portions string
		expected string
	}{
		{"single serving", "0.12", 1, "3", "0.36"},
		{"four servings", "1", 4, "2", "0.5"},
		{"fractional portions", "0.3", 2, "1.5", "0.225"},
		{"zero quantity", "0", 3, "5", "0"},
		{"zero servings defaults to one", "0.12", 0, "3", "0.36"},
		{"negative servings defaults to one", "2", -4, "1", "2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Scale(d(tt.quantity), tt.servings, d(tt.portions))
			if !got.Equal(d(tt.expected)) {
				t.Errorf("Scale(%s, %d, %s) = %s, want %s", tt.quantity, tt.servings, tt.portions, got, tt.expected)
			}
		})
	}
}

func TestScale_MatchesFormula(t *testing.T) {
	tolerance := d("0.000001")
	quantities := []string{"0", "0.12", "1", "2.5", "0.333", "10"}
	servings := []int{1, 2, 3, 7, 12}
	portions := []string{"0.5", "1", "3", "11", "2.25"}

	for _, q := range quantities {
		for _, s := range servings {
			for _, p := range portions {
				got := Scale(d(q), s, d(p))
				want := d(q).Div(decimal.NewFromInt(int64(s))).Mul(d(p))
				if got.Sub(want).Abs().GreaterThan(tolerance) {
					t.Errorf("Scale(%s, %d, %s) = %s, formula gives %s", q, s, p, got, want)
				}
			}
		}
	}
}

func TestScale_ZeroServingsEqualsOne(t *testing.T) {
	for _, p := range []string{"0.5", "1", "3", "17"} {
		if !Scale(d("0.75"), 0, d(p)).Equal(Scale(d("0.75"), 1, d(p))) {
			t.Errorf("Expected zero servings to scale like one serving for %s portions", p)
		}
	}
}

func TestScaleLine(t *testing.T) {
	recipe := &entities.Recipe{Servings: 4}
	line := entities.RecipeIngredient{IngredientName: "Farine", Quantity: d("1"), Unit: "kg"}

	if got := ScaleLine(recipe, line, d("6")); !got.Equal(d("1.5")) {
		t.Errorf("Expected 1.5, got %s", got)
	}
}

func TestRoundDisplay(t *testing.T) {
	if got := RoundDisplay(d("0.125")); !got.Equal(d("0.13")) {
		t.Errorf("Expected 0.13, got %s", got)
	}
	if got := RoundDisplay(d("-0.164")); !got.Equal(d("-0.16")) {
		t.Errorf("Expected -0.16, got %s", got)
	}
}
