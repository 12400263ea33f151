package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vsinha/kitchen/pkg/domain/entities"
	"github.com/vsinha/kitchen/pkg/domain/repositories"
)

// RecipeRepository provides in-memory recipe storage
type RecipeRepository struct {
	mu      sync.RWMutex
	recipes map[string]entities.Recipe
}

// NewRecipeRepository creates a new in-memory recipe repository
func NewRecipeRepository(expectedRecipes int) *RecipeRepository {
	return &RecipeRepository{
		recipes: make(map[string]entities.Recipe, expectedRecipes),
	}
}

// Verify interface compliance
var _ repositories.RecipeRepository = (*RecipeRepository)(nil)

// LoadRecipes loads recipes into the repository
func (r *RecipeRepository) LoadRecipes(recipes []*entities.Recipe) error {
	for _, recipe := range recipes {
		if err := r.SaveRecipe(context.Background(), recipe); err != nil {
			return err
		}
	}
	return nil
}

func (r *RecipeRepository) GetRecipe(ctx context.Context, userID, recipeID string) (*entities.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recipe, exists := r.recipes[recipeID]
	if !exists || recipe.UserID != userID {
		return nil, fmt.Errorf("recipe %s: %w", recipeID, entities.ErrNotFound)
	}
	return copyRecipe(recipe), nil
}

// ListRecipes returns the user's recipes, oldest first
func (r *RecipeRepository) ListRecipes(ctx context.Context, userID string) ([]*entities.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recipes := make([]*entities.Recipe, 0)
	for _, recipe := range r.recipes {
		if recipe.UserID == userID {
			recipes = append(recipes, copyRecipe(recipe))
		}
	}
	sort.Slice(recipes, func(i, j int) bool {
		if !recipes[i].CreatedAt.Equal(recipes[j].CreatedAt) {
			return recipes[i].CreatedAt.Before(recipes[j].CreatedAt)
		}
		return recipes[i].ID < recipes[j].ID
	})
	return recipes, nil
}

// SaveRecipe inserts or replaces a recipe together with its lines
func (r *RecipeRepository) SaveRecipe(ctx context.Context, recipe *entities.Recipe) error {
	if recipe == nil || recipe.ID == "" {
		return fmt.Errorf("%w: recipe id cannot be empty", entities.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.recipes[recipe.ID] = *copyRecipe(*recipe)
	return nil
}

// LinkIngredient sets the product reference of one recipe line
func (r *RecipeRepository) LinkIngredient(ctx context.Context, userID, lineID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, recipe := range r.recipes {
		if recipe.UserID != userID {
			continue
		}
		for i := range recipe.Ingredients {
			if recipe.Ingredients[i].ID == lineID {
				recipe.Ingredients[i].ProductID = productID
				r.recipes[id] = recipe
				return nil
			}
		}
	}
	return fmt.Errorf("ingredient line %s: %w", lineID, entities.ErrNotFound)
}

// DeleteRecipes removes the user's recipes with the given ids; unknown ids are ignored
func (r *RecipeRepository) DeleteRecipes(ctx context.Context, userID string, recipeIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range recipeIDs {
		if recipe, exists := r.recipes[id]; exists && recipe.UserID == userID {
			delete(r.recipes, id)
		}
	}
	return nil
}

func copyRecipe(recipe entities.Recipe) *entities.Recipe {
	recipe.Ingredients = append([]entities.RecipeIngredient(nil), recipe.Ingredients...)
	return &recipe
}
