package services

import (
	"testing"
	"time"

	"github.com/vsinha/kitchen/pkg/domain/entities"
)

func recipeWithLines(id, name string, lines int, createdAt time.Time) *entities.Recipe {
	recipe := &entities.Recipe{ID: id, Name: name, Servings: 1, CreatedAt: createdAt}
	for i := 0; i < lines; i++ {
		recipe.Ingredients = append(recipe.Ingredients, entities.RecipeIngredient{IngredientName: "x", Quantity: d("1")})
	}
	return recipe
}

func TestFindDuplicateRecipes(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	recipes := []*entities.Recipe{
		recipeWithLines("R1", "Pizza", 0, base),
		recipeWithLines("R2", " pizza ", 3, base.Add(time.Hour)),
		recipeWithLines("R3", "PIZZA", 0, base.Add(2*time.Hour)),
		recipeWithLines("R4", "Pizza", 2, base.Add(3*time.Hour)),
		recipeWithLines("R5", "Salade", 1, base),
	}

	groups := FindDuplicateRecipes(recipes)
	if len(groups) != 1 {
		t.Fatalf("Expected one duplicate group, got %d", len(groups))
	}

	group := groups[0]
	if group.Name != "pizza" {
		t.Errorf("Expected group pizza, got %q", group.Name)
	}
	if group.Keep.ID != "R2" {
		t.Errorf("Expected to keep R2 (most lines), got %s", group.Keep.ID)
	}
	if len(group.Delete) != 2 || group.Delete[0].ID != "R1" || group.Delete[1].ID != "R3" {
		t.Errorf("Expected to delete R1 and R3, got %v", ids(group.Delete))
	}
	if len(group.Retained) != 1 || group.Retained[0].ID != "R4" {
		t.Errorf("Expected to retain R4, got %v", ids(group.Retained))
	}
}

func TestFindDuplicateRecipes_TieKeepsOldest(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	groups := FindDuplicateRecipes([]*entities.Recipe{
		recipeWithLines("NEW", "Soupe", 0, base.Add(time.Hour)),
		recipeWithLines("OLD", "soupe", 0, base),
	})

	if len(groups) != 1 {
		t.Fatalf("Expected one group, got %d", len(groups))
	}
	if groups[0].Keep.ID != "OLD" {
		t.Errorf("Expected oldest recipe kept, got %s", groups[0].Keep.ID)
	}
	if len(groups[0].Delete) != 1 || groups[0].Delete[0].ID != "NEW" {
		t.Errorf("Expected NEW deleted, got %v", ids(groups[0].Delete))
	}
}

func ids(recipes []*entities.Recipe) []string {
	out := make([]string, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, r.ID)
	}
	return out
}
