package repositories

import (
	"context"

	"github.com/vsinha/kitchen/pkg/domain/entities"
)

// RecipeRepository provides access to a user's recipes and their ingredient lines
type RecipeRepository interface {
	// GetRecipe returns the recipe with its lines, or entities.ErrNotFound when
	// it does not exist or belongs to another user.
	GetRecipe(ctx context.Context, userID, recipeID string) (*entities.Recipe, error)
	ListRecipes(ctx context.Context, userID string) ([]*entities.Recipe, error)
	SaveRecipe(ctx context.Context, recipe *entities.Recipe) error
	LinkIngredient(ctx context.Context, userID, lineID, productID string) error
	DeleteRecipes(ctx context.Context, userID string, recipeIDs []string) error
}
