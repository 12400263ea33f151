package sqlstore

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vsinha/kitchen/pkg/domain/entities"
	"github.com/vsinha/kitchen/pkg/domain/repositories"
)

// ProductRepository stores the product catalog in SQL
type ProductRepository struct {
	db *DB
}

func NewProductRepository(db *DB) *ProductRepository {
	return &ProductRepository{db: db}
}

var _ repositories.ProductRepository = (*ProductRepository)(nil)

func (r *ProductRepository) ListProducts(ctx context.Context) ([]*entities.Product, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, unit, category, low_stock_threshold
FROM products
ORDER BY LOWER(name), id`)
	if err != nil {
		return nil, wrap("list products", err)
	}
	defer rows.Close()

	products := make([]*entities.Product, 0)
	for rows.Next() {
		var p entities.Product
		var threshold decimal.NullDecimal
		if err := rows.Scan(&p.ID, &p.Name, &p.Unit, &p.Category, &threshold); err != nil {
			return nil, wrap("scan product", err)
		}
		if threshold.Valid {
			t := threshold.Decimal
			p.LowStockThreshold = &t
		}
		products = append(products, &p)
	}
	return products, wrap("list products", rows.Err())
}

func (r *ProductRepository) SaveProduct(ctx context.Context, product *entities.Product) error {
	if product == nil || product.ID == "" {
		return fmt.Errorf("%w: product id cannot be empty", entities.ErrInvalidInput)
	}

	var threshold decimal.NullDecimal
	if product.LowStockThreshold != nil {
		threshold = decimal.NewNullDecimal(*product.LowStockThreshold)
	}

	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
INSERT INTO products (id, name, unit, category, low_stock_threshold)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
  name = excluded.name,
  unit = excluded.unit,
  category = excluded.category,
  low_stock_threshold = excluded.low_stock_threshold`),
		product.ID, product.Name, product.Unit, product.Category, threshold)
	return wrap("save product", err)
}
