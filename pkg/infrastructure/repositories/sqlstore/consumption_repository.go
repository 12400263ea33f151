package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vsinha/kitchen/pkg/domain/entities"
	"github.com/vsinha/kitchen/pkg/domain/repositories"
)

// ConsumptionRepository stores consumptions and their impact records in SQL
type ConsumptionRepository struct {
	db *DB
}

func NewConsumptionRepository(db *DB) *ConsumptionRepository {
	return &ConsumptionRepository{db: db}
}

var _ repositories.ConsumptionRepository = (*ConsumptionRepository)(nil)

const consumptionColumns = `id, user_id, recipe_id, consumption_type, portions, consumption_date, name, notes, batch_id, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConsumption(row rowScanner) (*entities.Consumption, error) {
	var c entities.Consumption
	var kind, date string
	var name, notes, batchID sql.NullString
	if err := row.Scan(&c.ID, &c.UserID, &c.RecipeID, &kind, &c.Portions, &date, &name, &notes, &batchID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}

	parsedKind, err := entities.ParseConsumptionType(kind)
	if err != nil {
		return nil, fmt.Errorf("consumption %s: %w", c.ID, err)
	}
	parsedDate, err := time.Parse(entities.DateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("consumption %s: bad consumption_date %q: %w", c.ID, date, err)
	}

	c.Type = parsedKind
	c.ConsumptionDate = parsedDate
	c.Name = name.String
	c.Notes = notes.String
	c.BatchID = batchID.String
	return &c, nil
}

func (r *ConsumptionRepository) queryConsumptions(ctx context.Context, op, query string, args ...any) ([]*entities.Consumption, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	result := make([]*entities.Consumption, 0)
	for rows.Next() {
		c, err := scanConsumption(rows)
		if err != nil {
			return nil, wrap(op, err)
		}
		result = append(result, c)
	}
	return result, wrap(op, rows.Err())
}

func (r *ConsumptionRepository) CreateConsumption(ctx context.Context, c *entities.Consumption) error {
	if c == nil || c.ID == "" {
		return fmt.Errorf("%w: consumption id cannot be empty", entities.ErrInvalidInput)
	}

	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
INSERT INTO consumptions (`+consumptionColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		c.ID, c.UserID, c.RecipeID, c.Type.String(), c.Portions, c.ConsumptionDate.Format(entities.DateLayout),
		nullable(c.Name), nullable(c.Notes), nullable(c.BatchID), c.CreatedAt.UTC(), c.UpdatedAt.UTC())
	return wrap("create consumption", err)
}

func (r *ConsumptionRepository) GetConsumption(ctx context.Context, userID, consumptionID string) (*entities.Consumption, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`
SELECT `+consumptionColumns+` FROM consumptions WHERE id = ? AND user_id = ?`), consumptionID, userID)
	c, err := scanConsumption(row)
	if err != nil {
		return nil, wrap(fmt.Sprintf("consumption %s", consumptionID), err)
	}
	return c, nil
}

func (r *ConsumptionRepository) RenameConsumption(ctx context.Context, userID, consumptionID, name string, updatedAt time.Time) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`
UPDATE consumptions SET name = ?, updated_at = ? WHERE id = ? AND user_id = ?`),
		nullable(name), updatedAt.UTC(), consumptionID, userID)
	if err != nil {
		return wrap("rename consumption", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return wrap("rename consumption", err)
	}
	if affected == 0 {
		return fmt.Errorf("consumption %s: %w", consumptionID, entities.ErrNotFound)
	}
	return nil
}

func (r *ConsumptionRepository) LatestConsumption(ctx context.Context, userID string) (*entities.Consumption, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`
SELECT `+consumptionColumns+` FROM consumptions
WHERE user_id = ?
ORDER BY created_at DESC, id DESC
LIMIT 1`), userID)
	c, err := scanConsumption(row)
	if err != nil {
		return nil, wrap("latest consumption", err)
	}
	return c, nil
}

func (r *ConsumptionRepository) ListByBatch(ctx context.Context, userID, batchID string) ([]*entities.Consumption, error) {
	if batchID == "" {
		return []*entities.Consumption{}, nil
	}
	return r.queryConsumptions(ctx, "list batch", `
SELECT `+consumptionColumns+` FROM consumptions
WHERE user_id = ? AND batch_id = ?
ORDER BY created_at DESC, id DESC`, userID, batchID)
}

func (r *ConsumptionRepository) ListConsumptions(ctx context.Context, userID string, filter entities.ConsumptionFilter) ([]*entities.Consumption, error) {
	query := `SELECT ` + consumptionColumns + ` FROM consumptions WHERE user_id = ?`
	args := []any{userID}

	if !filter.StartDate.IsZero() {
		query += ` AND consumption_date >= ?`
		args = append(args, filter.StartDate.Format(entities.DateLayout))
	}
	if !filter.EndDate.IsZero() {
		query += ` AND consumption_date <= ?`
		args = append(args, filter.EndDate.Format(entities.DateLayout))
	}
	if filter.Type != nil {
		query += ` AND consumption_type = ?`
		args = append(args, filter.Type.String())
	}
	query += ` ORDER BY consumption_date DESC, created_at DESC, id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	return r.queryConsumptions(ctx, "list consumptions", query, args...)
}

func (r *ConsumptionRepository) RecordImpact(ctx context.Context, rec *entities.ImpactRecord) error {
	if rec == nil || rec.ConsumptionID == "" {
		return fmt.Errorf("%w: impact record needs a consumption", entities.ErrInvalidInput)
	}

	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
INSERT INTO consumption_ingredient_impacts
  (id, consumption_id, stock_id, product_id, ingredient_name, unit, quantity_consumed, stock_before, stock_after, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		rec.ID, rec.ConsumptionID, rec.StockID, rec.ProductID, rec.IngredientName, rec.Unit,
		rec.QuantityConsumed, rec.StockBefore, rec.StockAfter, rec.CreatedAt.UTC())
	return wrap("record impact", err)
}

func (r *ConsumptionRepository) ListImpacts(ctx context.Context, consumptionID string) ([]*entities.ImpactRecord, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
SELECT id, consumption_id, stock_id, product_id, ingredient_name, unit, quantity_consumed, stock_before, stock_after, created_at
FROM consumption_ingredient_impacts
WHERE consumption_id = ?
ORDER BY created_at, id`), consumptionID)
	if err != nil {
		return nil, wrap("list impacts", err)
	}
	defer rows.Close()

	records := make([]*entities.ImpactRecord, 0)
	for rows.Next() {
		var rec entities.ImpactRecord
		if err := rows.Scan(&rec.ID, &rec.ConsumptionID, &rec.StockID, &rec.ProductID, &rec.IngredientName, &rec.Unit,
			&rec.QuantityConsumed, &rec.StockBefore, &rec.StockAfter, &rec.CreatedAt); err != nil {
			return nil, wrap("scan impact", err)
		}
		records = append(records, &rec)
	}
	return records, wrap("list impacts", rows.Err())
}
