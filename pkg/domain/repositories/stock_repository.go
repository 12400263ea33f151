package repositories

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/vsinha/kitchen/pkg/domain/entities"
)

// StockRepository provides access to a user's inventory records
type StockRepository interface {
	ListStock(ctx context.Context, userID string) ([]*entities.StockRecord, error)
	SaveStock(ctx context.Context, record *entities.StockRecord) error

	// UpdateQuantity overwrites the quantity of one record and returns its new
	// version. A positive expectedVersion turns the write into a compare-and-swap
	// that fails with entities.ErrStaleStock when the record moved on.
	UpdateQuantity(ctx context.Context, userID, stockID string, quantity decimal.Decimal, expectedVersion int64) (int64, error)
}

// ProductRepository provides access to the shared product catalog
type ProductRepository interface {
	ListProducts(ctx context.Context) ([]*entities.Product, error)
	SaveProduct(ctx context.Context, product *entities.Product) error
}
