package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
)

type migration struct {
	version int
	name    string
	sql     string
}

var migrations = []migration{
	{
		version: 1,
		name:    "catalog_and_stock",
		sql: `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  unit TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL DEFAULT '',
  low_stock_threshold NUMERIC(18,6)
);

CREATE TABLE IF NOT EXISTS stock (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL REFERENCES products(id),
  quantity NUMERIC(18,6) NOT NULL,
  version BIGINT NOT NULL DEFAULT 1,
  updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_stock_user_id ON stock(user_id);
`,
	},
	{
		version: 2,
		name:    "recipes",
		sql: `
CREATE TABLE IF NOT EXISTS recipes (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  servings INTEGER NOT NULL DEFAULT 1,
  created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_recipes_user_id ON recipes(user_id);

CREATE TABLE IF NOT EXISTS recipe_ingredients (
  id TEXT PRIMARY KEY,
  recipe_id TEXT NOT NULL REFERENCES recipes(id) ON DELETE CASCADE,
  position INTEGER NOT NULL,
  ingredient_name TEXT NOT NULL,
  quantity NUMERIC(18,6) NOT NULL CHECK(quantity >= 0),
  unit TEXT NOT NULL DEFAULT '',
  product_id TEXT
);

CREATE INDEX IF NOT EXISTS idx_recipe_ingredients_recipe_id ON recipe_ingredients(recipe_id);
`,
	},
	{
		version: 3,
		name:    "consumptions",
		sql: `
CREATE TABLE IF NOT EXISTS consumptions (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  recipe_id TEXT NOT NULL,
  consumption_type TEXT NOT NULL CHECK(consumption_type IN ('sale', 'loss')),
  portions NUMERIC(18,6) NOT NULL CHECK(portions > 0),
  consumption_date TEXT NOT NULL,
  name TEXT,
  notes TEXT,
  batch_id TEXT,
  created_at TIMESTAMP NOT NULL,
  updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_consumptions_user_created ON consumptions(user_id, created_at);
CREATE INDEX IF NOT EXISTS idx_consumptions_batch_id ON consumptions(batch_id);

CREATE TABLE IF NOT EXISTS consumption_ingredient_impacts (
  id TEXT PRIMARY KEY,
  consumption_id TEXT NOT NULL REFERENCES consumptions(id),
  stock_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  ingredient_name TEXT NOT NULL,
  unit TEXT NOT NULL DEFAULT '',
  quantity_consumed NUMERIC(18,6) NOT NULL,
  stock_before NUMERIC(18,6) NOT NULL,
  stock_after NUMERIC(18,6) NOT NULL,
  created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_impacts_consumption_id ON consumption_ingredient_impacts(consumption_id);
`,
	},
}

// ApplyMigrations brings the schema to the latest version. Applied versions
// are recorded in schema_migrations and skipped on later runs.
func ApplyMigrations(ctx context.Context, db *DB) error {
	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var exists int
		err := db.QueryRowContext(ctx, db.Rebind(`SELECT 1 FROM schema_migrations WHERE version = ?`), m.version).Scan(&exists)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("check migration version %d: %w", m.version, err)
		}

		err = db.inTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, m.sql); err != nil {
				return fmt.Errorf("apply migration version %d (%s): %w", m.version, m.name, err)
			}
			if _, err := tx.ExecContext(ctx, db.Rebind(`INSERT INTO schema_migrations(version, name) VALUES(?, ?)`), m.version, m.name); err != nil {
				return fmt.Errorf("record migration version %d: %w", m.version, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}
