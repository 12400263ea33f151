package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vsinha/kitchen/pkg/domain/entities"
	"github.com/vsinha/kitchen/pkg/domain/repositories"
)

// RecipeRepository stores recipes and their ingredient lines in SQL
type RecipeRepository struct {
	db *DB
}

func NewRecipeRepository(db *DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

var _ repositories.RecipeRepository = (*RecipeRepository)(nil)

const ingredientColumns = `ri.id, ri.recipe_id, ri.ingredient_name, ri.quantity, ri.unit, ri.product_id`

func scanIngredient(rows *sql.Rows) (entities.RecipeIngredient, error) {
	var line entities.RecipeIngredient
	var productID sql.NullString
	err := rows.Scan(&line.ID, &line.RecipeID, &line.IngredientName, &line.Quantity, &line.Unit, &productID)
	line.ProductID = productID.String
	return line, err
}

func (r *RecipeRepository) GetRecipe(ctx context.Context, userID, recipeID string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	err := r.db.QueryRowContext(ctx, r.db.Rebind(`
SELECT id, user_id, name, description, servings, created_at
FROM recipes
WHERE id = ? AND user_id = ?`), recipeID, userID).
		Scan(&recipe.ID, &recipe.UserID, &recipe.Name, &recipe.Description, &recipe.Servings, &recipe.CreatedAt)
	if err != nil {
		return nil, wrap(fmt.Sprintf("recipe %s", recipeID), err)
	}

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
SELECT `+ingredientColumns+`
FROM recipe_ingredients ri
WHERE ri.recipe_id = ?
ORDER BY ri.position`), recipeID)
	if err != nil {
		return nil, wrap("list recipe ingredients", err)
	}
	defer rows.Close()

	for rows.Next() {
		line, err := scanIngredient(rows)
		if err != nil {
			return nil, wrap("scan recipe ingredient", err)
		}
		recipe.Ingredients = append(recipe.Ingredients, line)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list recipe ingredients", err)
	}
	return &recipe, nil
}

// ListRecipes returns the user's recipes with their lines, oldest first
func (r *RecipeRepository) ListRecipes(ctx context.Context, userID string) ([]*entities.Recipe, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(`
SELECT id, user_id, name, description, servings, created_at
FROM recipes
WHERE user_id = ?
ORDER BY created_at, id`), userID)
	if err != nil {
		return nil, wrap("list recipes", err)
	}

	recipes := make([]*entities.Recipe, 0)
	byID := make(map[string]*entities.Recipe)
	for rows.Next() {
		var recipe entities.Recipe
		if err := rows.Scan(&recipe.ID, &recipe.UserID, &recipe.Name, &recipe.Description, &recipe.Servings, &recipe.CreatedAt); err != nil {
			rows.Close()
			return nil, wrap("scan recipe", err)
		}
		recipes = append(recipes, &recipe)
		byID[recipe.ID] = &recipe
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, wrap("list recipes", err)
	}

	lines, err := r.db.QueryContext(ctx, r.db.Rebind(`
SELECT `+ingredientColumns+`
FROM recipe_ingredients ri
JOIN recipes r ON r.id = ri.recipe_id
WHERE r.user_id = ?
ORDER BY ri.recipe_id, ri.position`), userID)
	if err != nil {
		return nil, wrap("list recipe ingredients", err)
	}
	defer lines.Close()

	for lines.Next() {
		line, err := scanIngredient(lines)
		if err != nil {
			return nil, wrap("scan recipe ingredient", err)
		}
		if recipe, ok := byID[line.RecipeID]; ok {
			recipe.Ingredients = append(recipe.Ingredients, line)
		}
	}
	return recipes, wrap("list recipe ingredients", lines.Err())
}

// SaveRecipe upserts the recipe and replaces all of its lines
func (r *RecipeRepository) SaveRecipe(ctx context.Context, recipe *entities.Recipe) error {
	if recipe == nil || recipe.ID == "" {
		return fmt.Errorf("%w: recipe id cannot be empty", entities.ErrInvalidInput)
	}

	return r.db.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, r.db.Rebind(`
INSERT INTO recipes (id, user_id, name, description, servings, created_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
  name = excluded.name,
  description = excluded.description,
  servings = excluded.servings`),
			recipe.ID, recipe.UserID, recipe.Name, recipe.Description, recipe.Servings, recipe.CreatedAt.UTC())
		if err != nil {
			return wrap("save recipe", err)
		}

		if _, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM recipe_ingredients WHERE recipe_id = ?`), recipe.ID); err != nil {
			return wrap("clear recipe ingredients", err)
		}

		insert := r.db.Rebind(`
INSERT INTO recipe_ingredients (id, recipe_id, position, ingredient_name, quantity, unit, product_id)
VALUES (?, ?, ?, ?, ?, ?, ?)`)
		for i, line := range recipe.Ingredients {
			if _, err := tx.ExecContext(ctx, insert, line.ID, recipe.ID, i, line.IngredientName, line.Quantity, line.Unit, nullable(line.ProductID)); err != nil {
				return wrap(fmt.Sprintf("save ingredient %s", line.IngredientName), err)
			}
		}
		return nil
	})
}

func (r *RecipeRepository) LinkIngredient(ctx context.Context, userID, lineID, productID string) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`
UPDATE recipe_ingredients SET product_id = ?
WHERE id = ? AND recipe_id IN (SELECT id FROM recipes WHERE user_id = ?)`),
		nullable(productID), lineID, userID)
	if err != nil {
		return wrap("link ingredient", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return wrap("link ingredient", err)
	}
	if affected == 0 {
		return fmt.Errorf("ingredient line %s: %w", lineID, entities.ErrNotFound)
	}
	return nil
}

// DeleteRecipes removes the user's recipes with the given ids and their lines
func (r *RecipeRepository) DeleteRecipes(ctx context.Context, userID string, recipeIDs []string) error {
	if len(recipeIDs) == 0 {
		return nil
	}

	args := make([]any, 0, len(recipeIDs)+1)
	args = append(args, userID)
	for _, id := range recipeIDs {
		args = append(args, id)
	}
	owned := `SELECT id FROM recipes WHERE user_id = ? AND id IN (` + placeholders(len(recipeIDs)) + `)`

	return r.db.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM recipe_ingredients WHERE recipe_id IN (`+owned+`)`), args...); err != nil {
			return wrap("delete recipe ingredients", err)
		}
		if _, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM recipes WHERE id IN (`+owned+`)`), args...); err != nil {
			return wrap("delete recipes", err)
		}
		return nil
	})
}
