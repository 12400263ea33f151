package maintenance

import (
	"context"
	"fmt"

	"github.com/vsinha/kitchen/pkg/application/dto"
	"github.com/vsinha/kitchen/pkg/domain/entities"
	"github.com/vsinha/kitchen/pkg/domain/repositories"
	"github.com/vsinha/kitchen/pkg/domain/services"
	"go.uber.org/zap"
)

// Service repairs recipe data the consumption engine relies on
type Service struct {
	recipes  repositories.RecipeRepository
	products repositories.ProductRepository
	logger   *zap.Logger
}

// NewService creates a maintenance service. A nil logger discards output.
func NewService(recipes repositories.RecipeRepository, products repositories.ProductRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{recipes: recipes, products: products, logger: logger}
}

// FixDanglingIngredientLinks points every recipe line that has no product
// reference at the catalog product with the same normalized name.
func (s *Service) FixDanglingIngredientLinks(ctx context.Context, userID string) (*dto.FixLinksReport, error) {
	recipes, err := s.recipes.ListRecipes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w: %w", entities.ErrPersistence, err)
	}
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w: %w", entities.ErrPersistence, err)
	}

	catalog := services.NewProductIndex(products)
	report := &dto.FixLinksReport{MissingIngredients: make([]dto.MissingIngredient, 0)}
	seenMissing := make(map[dto.MissingIngredient]bool)

	for _, recipe := range recipes {
		for _, line := range recipe.Ingredients {
			if line.HasProduct() {
				continue
			}

			product, outcome := catalog.Match(line)
			switch outcome {
			case services.LinkMissing:
				report.Missing++
				missing := dto.MissingIngredient{Name: line.IngredientName, Unit: line.Unit}
				if !seenMissing[missing] {
					seenMissing[missing] = true
					report.MissingIngredients = append(report.MissingIngredients, missing)
				}
			case services.LinkAmbiguous:
				report.Ambiguous++
				s.logger.Warn("ambiguous product match",
					zap.String("recipe_id", recipe.ID),
					zap.String("ingredient", line.IngredientName),
					zap.String("unit", line.Unit))
			case services.LinkFound:
				if err := s.recipes.LinkIngredient(ctx, userID, line.ID, product.ID); err != nil {
					report.Failed++
					s.logger.Error("failed to link ingredient",
						zap.String("line_id", line.ID),
						zap.String("product_id", product.ID),
						zap.Error(err))
					continue
				}
				report.Fixed++
			}
		}
	}

	s.logger.Info("ingredient links repaired",
		zap.String("user_id", userID),
		zap.Int("fixed", report.Fixed),
		zap.Int("missing", report.Missing),
		zap.Int("ambiguous", report.Ambiguous),
		zap.Int("failed", report.Failed))

	return report, nil
}

// CleanupDuplicateRecipes removes empty copies of recipes that share a
// normalized name. A copy that has ingredient lines is never removed.
func (s *Service) CleanupDuplicateRecipes(ctx context.Context, userID string) (*dto.CleanupReport, error) {
	recipes, err := s.recipes.ListRecipes(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w: %w", entities.ErrPersistence, err)
	}

	groups := services.FindDuplicateRecipes(recipes)
	report := &dto.CleanupReport{DuplicatesFound: len(groups), DeletedIDs: make([]string, 0)}

	for _, group := range groups {
		for _, recipe := range group.Delete {
			report.DeletedIDs = append(report.DeletedIDs, recipe.ID)
		}
		if len(group.Retained) > 0 {
			s.logger.Info("duplicate recipes with ingredients kept",
				zap.String("name", group.Name),
				zap.String("kept_id", group.Keep.ID),
				zap.Int("retained", len(group.Retained)))
		}
	}

	if len(report.DeletedIDs) > 0 {
		if err := s.recipes.DeleteRecipes(ctx, userID, report.DeletedIDs); err != nil {
			return nil, fmt.Errorf("delete duplicate recipes: %w: %w", entities.ErrPersistence, err)
		}
	}
	report.RecipesDeleted = len(report.DeletedIDs)

	s.logger.Info("duplicate recipes cleaned",
		zap.String("user_id", userID),
		zap.Int("duplicates", report.DuplicatesFound),
		zap.Int("deleted", report.RecipesDeleted))

	return report, nil
}
