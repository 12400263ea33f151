package consumption

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/vsinha/kitchen/pkg/application/dto"
	"github.com/vsinha/kitchen/pkg/domain/entities"
	"github.com/vsinha/kitchen/pkg/domain/services"
	"go.uber.org/zap"
)

// Preview projects the effect of a consumption on the user's stock without
// writing anything. Every recipe line is reported; lines with no stock record
// project from zero and are marked unmatched.
func (s *Service) Preview(ctx context.Context, userID string, in dto.ConsumptionInput) (*dto.Preview, error) {
	req, err := s.parseInput(userID, in, s.clock())
	if err != nil {
		return nil, err
	}

	recipe, err := s.loadRecipe(ctx, userID, req.recipeID)
	if err != nil {
		return nil, err
	}

	records, err := s.stock.ListStock(ctx, userID)
	if err != nil {
		return nil, classify("read stock", err)
	}
	index := services.NewStockIndex(records)
	book := newLedger()

	preview := &dto.Preview{
		RecipeID:          recipe.ID,
		RecipeName:        recipe.Name,
		RecipeDescription: recipe.Description,
		ConsumptionType:   req.kind.String(),
		Portions:          req.portions.InexactFloat64(),
		ConsumptionDate:   req.date.Format(entities.DateLayout),
		CalculatedImpacts: make([]dto.CalculatedImpact, 0, len(recipe.Ingredients)),
		Impacts:           make([]entities.Impact, 0, len(recipe.Ingredients)),
	}

	for _, line := range recipe.Ingredients {
		resolution := index.Resolve(line)

		var impact entities.Impact
		if resolution.Matched() {
			impact = services.CalculateMatchedImpact(line, recipe.Yield(), req.portions, resolution.Stock, book.level(resolution.Stock))
			book.commit(resolution.Stock.ID, impact.Clamped().StockAfter, 0)
		} else {
			impact = services.CalculateImpact(line, recipe.Yield(), req.portions, decimal.Zero)
		}

		preview.Impacts = append(preview.Impacts, impact)
		preview.CalculatedImpacts = append(preview.CalculatedImpacts, dto.CalculatedImpact{
			IngredientName: impact.IngredientName,
			ProductID:      impact.ProductID,
			StockID:        impact.StockID,
			Unit:           impact.Unit,
			QuantityNeeded: display(impact.QuantityNeeded),
			CurrentStock:   display(impact.StockBefore),
			StockAfter:     display(impact.StockAfter),
			IsSufficient:   impact.IsSufficient,
			Matched:        resolution.Matched(),
			MatchedBy:      resolution.Kind.String(),
		})
		if !impact.IsSufficient {
			preview.HasInsufficientStock = true
		}
	}

	s.logger.Debug("previewed consumption",
		zap.String("user_id", userID),
		zap.String("recipe_id", recipe.ID),
		zap.String("portions", req.portions.String()),
		zap.Bool("insufficient", preview.HasInsufficientStock))

	return preview, nil
}
