package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vsinha/kitchen/pkg/domain/entities"
	"github.com/vsinha/kitchen/pkg/domain/repositories"
)

// StockRepository stores inventory records in SQL
type StockRepository struct {
	db  *DB
	now func() time.Time
}

func NewStockRepository(db *DB) *StockRepository {
	return &StockRepository{db: db, now: time.Now}
}

var _ repositories.StockRepository = (*StockRepository)(nil)

// ListStock returns the user's stock joined with the catalog names and units
func (r *StockRepository) ListStock(ctx context.Context, userID string) ([]*entities.StockRecord, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
SELECT s.id, s.user_id, s.product_id, p.name, p.unit, s.quantity, s.version, s.updated_at
FROM stock s
JOIN products p ON p.id = s.product_id
WHERE s.user_id = ?
ORDER BY s.id`), userID)
	if err != nil {
		return nil, wrap("list stock", err)
	}
	defer rows.Close()

	records := make([]*entities.StockRecord, 0)
	for rows.Next() {
		var s entities.StockRecord
		if err := rows.Scan(&s.ID, &s.UserID, &s.ProductID, &s.ProductName, &s.Unit, &s.Quantity, &s.Version, &s.UpdatedAt); err != nil {
			return nil, wrap("scan stock", err)
		}
		records = append(records, &s)
	}
	return records, wrap("list stock", rows.Err())
}

func (r *StockRepository) SaveStock(ctx context.Context, record *entities.StockRecord) error {
	if record == nil || record.ID == "" {
		return fmt.Errorf("%w: stock id cannot be empty", entities.ErrInvalidInput)
	}
	version := record.Version
	if version < 1 {
		version = 1
	}
	updatedAt := record.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = r.now()
	}

	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
INSERT INTO stock (id, user_id, product_id, quantity, version, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
  user_id = excluded.user_id,
  product_id = excluded.product_id,
  quantity = excluded.quantity,
  version = excluded.version,
  updated_at = excluded.updated_at`),
		record.ID, record.UserID, record.ProductID, record.Quantity, version, updatedAt.UTC())
	return wrap("save stock", err)
}

func (r *StockRepository) UpdateQuantity(ctx context.Context, userID, stockID string, quantity decimal.Decimal, expectedVersion int64) (int64, error) {
	query := `
UPDATE stock SET quantity = ?, version = version + 1, updated_at = ?
WHERE id = ? AND user_id = ?`
	args := []any{quantity, r.now().UTC(), stockID, userID}
	if expectedVersion > 0 {
		query += ` AND version = ?`
		args = append(args, expectedVersion)
	}
	query += ` RETURNING version`

	var version int64
	err := r.db.QueryRowContext(ctx, r.db.Rebind(query), args...).Scan(&version)
	if err == nil {
		return version, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, wrap("update stock", err)
	}

	// nothing updated: either the row is not ours or it moved on
	var current int64
	err = r.db.QueryRowContext(ctx, r.db.Rebind(`SELECT version FROM stock WHERE id = ? AND user_id = ?`), stockID, userID).Scan(&current)
	if err != nil {
		return 0, wrap(fmt.Sprintf("stock %s", stockID), err)
	}
	return 0, fmt.Errorf("stock %s at version %d, expected %d: %w", stockID, current, expectedVersion, entities.ErrStaleStock)
}
