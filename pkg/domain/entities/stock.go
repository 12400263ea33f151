package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry that stock records and recipe lines refer to
type Product struct {
	ID                string
	Name              string
	Unit              string
	Category          string
	LowStockThreshold *decimal.Decimal
}

// NewProduct creates a validated Product
func NewProduct(id, name, unit, category string) (*Product, error) {
	if id == "" {
		return nil, fmt.Errorf("product id cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("product name cannot be empty")
	}

	return &Product{
		ID:       id,
		Name:     name,
		Unit:     unit,
		Category: category,
	}, nil
}

// StockRecord is a user's on-hand quantity of one catalog product.
// ProductName and Unit are joined from the product when the record is read.
type StockRecord struct {
	ID          string
	UserID      string
	ProductID   string
	ProductName string
	Unit        string
	Quantity    decimal.Decimal
	Version     int64
	UpdatedAt   time.Time
}

// NewStockRecord creates a validated StockRecord
func NewStockRecord(id, userID string, product Product, quantity decimal.Decimal, updatedAt time.Time) (*StockRecord, error) {
	if id == "" {
		return nil, fmt.Errorf("stock id cannot be empty")
	}
	if userID == "" {
		return nil, fmt.Errorf("stock user id cannot be empty")
	}
	if product.ID == "" {
		return nil, fmt.Errorf("stock product id cannot be empty")
	}

	return &StockRecord{
		ID:          id,
		UserID:      userID,
		ProductID:   product.ID,
		ProductName: product.Name,
		Unit:        product.Unit,
		Quantity:    quantity,
		Version:     1,
		UpdatedAt:   updatedAt,
	}, nil
}

// Key returns the normalized product name the record is looked up by
func (s *StockRecord) Key() string {
	return NormalizeName(s.ProductName)
}
