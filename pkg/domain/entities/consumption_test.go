package entities

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseConsumptionType(t *testing.T) {
	tests := []struct {
		in      string
		want    ConsumptionType
		wantErr bool
	}{
		{"sale", Sale, false},
		{"LOSS", Loss, false},
		{" sale ", Sale, false},
		{"", 0, true},
		{"gift", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseConsumptionType(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("ParseConsumptionType(%q): expected ErrInvalidInput, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseConsumptionType(%q): unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseConsumptionType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConsumption_Validation(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 30, 0, 0, time.UTC)

	c, err := NewConsumption("C1", "user-1", "R1", Sale, decimal.NewFromInt(3), now, now)
	if err != nil {
		t.Fatalf("Expected valid consumption creation to succeed: %v", err)
	}
	if c.InBatch() {
		t.Error("Expected standalone consumption")
	}
	if !c.CreatedAt.Equal(c.UpdatedAt) {
		t.Error("Expected updated_at to start at created_at")
	}

	_, err = NewConsumption("C1", "user-1", "R1", Sale, decimal.Zero, now, now)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for zero portions, got %v", err)
	}

	_, err = NewConsumption("C1", "user-1", "", Sale, decimal.NewFromInt(1), now, now)
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for missing recipe, got %v", err)
	}
}

func TestDefaultConsumptionName(t *testing.T) {
	at := time.Date(2025, 3, 14, 19, 5, 42, 0, time.UTC)

	if got := DefaultConsumptionName(LocaleFR, at); got != "Consommation du 14/03/2025 à 19:05" {
		t.Errorf("Unexpected french name %q", got)
	}
	if got := DefaultConsumptionName(LocaleEN, at); got != "Consumption of 2025-03-14 at 19:05" {
		t.Errorf("Unexpected english name %q", got)
	}

	sameSecond := at.Add(300 * time.Millisecond)
	if DefaultConsumptionName(LocaleFR, at) != DefaultConsumptionName(LocaleFR, sameSecond) {
		t.Error("Expected equal names within the same second")
	}
}

func TestConsumption_DisplayName(t *testing.T) {
	at := time.Date(2025, 3, 14, 19, 5, 0, 0, time.UTC)
	c := &Consumption{CreatedAt: at}

	if got := c.DisplayName(LocaleEN); got != "Consumption of 2025-03-14 at 19:05" {
		t.Errorf("Expected default name, got %q", got)
	}

	c.Name = "Service du soir"
	if got := c.DisplayName(LocaleEN); got != "Service du soir" {
		t.Errorf("Expected stored name, got %q", got)
	}
}

func TestImpact_Clamped(t *testing.T) {
	impact := Impact{
		QuantityNeeded: decimal.RequireFromString("0.36"),
		StockBefore:    decimal.RequireFromString("0.2"),
		StockAfter:     decimal.RequireFromString("-0.16"),
		IsSufficient:   false,
	}

	clamped := impact.Clamped()
	if !clamped.StockAfter.IsZero() {
		t.Errorf("Expected clamped stock 0, got %s", clamped.StockAfter)
	}
	if clamped.IsSufficient {
		t.Error("Expected sufficiency to stay false after clamping")
	}
	if !impact.StockAfter.Equal(decimal.RequireFromString("-0.16")) {
		t.Error("Expected Clamped to leave the receiver untouched")
	}

	positive := Impact{StockAfter: decimal.RequireFromString("0.64")}.Clamped()
	if !positive.StockAfter.Equal(decimal.RequireFromString("0.64")) {
		t.Errorf("Expected positive stock unchanged, got %s", positive.StockAfter)
	}
}

func TestLineError_Unwrap(t *testing.T) {
	lineErr := LineError{IngredientName: "Tomate", Reason: SkipStockUpdate, Err: ErrStaleStock}
	if !errors.Is(lineErr, ErrStaleStock) {
		t.Error("Expected LineError to unwrap to its cause")
	}
	if lineErr.Error() != "Tomate: stock_update_failed: "+ErrStaleStock.Error() {
		t.Errorf("Unexpected message %q", lineErr.Error())
	}

	unmatched := LineError{IngredientName: "Basilic", Reason: SkipUnmatched}
	if unmatched.Error() != "Basilic: unmatched_ingredient" {
		t.Errorf("Unexpected message %q", unmatched.Error())
	}
}
