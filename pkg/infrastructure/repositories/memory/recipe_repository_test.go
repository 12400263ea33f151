package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vsinha/kitchen/pkg/domain/entities"
)

func testRecipe(id, userID, name string, createdAt time.Time, lines ...string) *entities.Recipe {
	recipe := &entities.Recipe{ID: id, UserID: userID, Name: name, Servings: 1, CreatedAt: createdAt}
	for i, line := range lines {
		recipe.Ingredients = append(recipe.Ingredients, entities.RecipeIngredient{
			ID:             id + "-L" + string(rune('1'+i)),
			RecipeID:       id,
			IngredientName: line,
			Quantity:       decimal.NewFromInt(1),
			Unit:           "kg",
		})
	}
	return recipe
}

func TestRecipeRepository_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewRecipeRepository(4)

	if err := repo.SaveRecipe(ctx, testRecipe("R1", "user-1", "Pizza", time.Now(), "Tomate", "Mozzarella")); err != nil {
		t.Fatalf("Failed to save recipe: %v", err)
	}

	recipe, err := repo.GetRecipe(ctx, "user-1", "R1")
	if err != nil {
		t.Fatalf("Failed to get recipe: %v", err)
	}
	if len(recipe.Ingredients) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(recipe.Ingredients))
	}

	recipe.Ingredients[0].IngredientName = "changed"
	again, _ := repo.GetRecipe(ctx, "user-1", "R1")
	if again.Ingredients[0].IngredientName != "Tomate" {
		t.Error("Expected stored recipe to be isolated from returned copies")
	}

	if _, err := repo.GetRecipe(ctx, "user-2", "R1"); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for another user, got %v", err)
	}
	if _, err := repo.GetRecipe(ctx, "user-1", "R9"); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown recipe, got %v", err)
	}
}

func TestRecipeRepository_LinkAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewRecipeRepository(4)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	repo.LoadRecipes([]*entities.Recipe{
		testRecipe("R2", "user-1", "Salade", base.Add(time.Hour), "Laitue"),
		testRecipe("R1", "user-1", "Pizza", base, "Tomate"),
		testRecipe("R3", "user-2", "Soupe", base),
	})

	if err := repo.LinkIngredient(ctx, "user-1", "R1-L1", "P1"); err != nil {
		t.Fatalf("Failed to link ingredient: %v", err)
	}
	recipe, _ := repo.GetRecipe(ctx, "user-1", "R1")
	if recipe.Ingredients[0].ProductID != "P1" {
		t.Errorf("Expected line linked to P1, got %q", recipe.Ingredients[0].ProductID)
	}
	if err := repo.LinkIngredient(ctx, "user-2", "R1-L1", "P1"); !errors.Is(err, entities.ErrNotFound) {
		t.Errorf("Expected ErrNotFound linking another user's line, got %v", err)
	}

	recipes, _ := repo.ListRecipes(ctx, "user-1")
	if len(recipes) != 2 || recipes[0].ID != "R1" || recipes[1].ID != "R2" {
		t.Fatalf("Expected R1, R2 oldest first, got %d recipes", len(recipes))
	}

	repo.DeleteRecipes(ctx, "user-1", []string{"R2", "R3", "missing"})
	recipes, _ = repo.ListRecipes(ctx, "user-1")
	if len(recipes) != 1 {
		t.Errorf("Expected 1 recipe left for user-1, got %d", len(recipes))
	}
	if _, err := repo.GetRecipe(ctx, "user-2", "R3"); err != nil {
		t.Errorf("Expected user-2 recipe untouched, got %v", err)
	}
}
