package consumption

import (
	"context"
	"strings"

	"github.com/vsinha/kitchen/pkg/application/dto"
	"github.com/vsinha/kitchen/pkg/domain/entities"
	"github.com/vsinha/kitchen/pkg/domain/services"
	"github.com/vsinha/kitchen/pkg/infrastructure/events"
	"go.uber.org/zap"
)

// Confirm records a consumption and deducts its ingredients from stock.
//
// The consumption row is written first; if that fails nothing else happens.
// Lines are then applied one by one. A line that cannot be resolved, whose
// stock write fails, or whose impact record cannot be stored is reported in
// Skipped and does not fail the call. There is no rollback of lines already
// applied.
func (s *Service) Confirm(ctx context.Context, userID string, in dto.ConsumptionInput) (*dto.ConfirmResult, error) {
	now := s.clock()
	req, err := s.parseInput(userID, in, now)
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

	consumption, err := entities.NewConsumption(s.newID(), userID, recipe.ID, req.kind, req.portions, req.date, now)
	if err != nil {
		return nil, err
	}
	consumption.Name = strings.TrimSpace(in.Name)
	if consumption.Name == "" {
		consumption.Name = entities.DefaultConsumptionName(s.config.Locale, now)
	}
	consumption.Notes = strings.TrimSpace(in.Notes)
	consumption.BatchID = strings.TrimSpace(in.BatchID)

	if err := s.consumptions.CreateConsumption(ctx, consumption); err != nil {
		s.logger.Error("failed to create consumption",
			zap.String("user_id", userID),
			zap.String("recipe_id", recipe.ID),
			zap.Error(err))
		return nil, classify("create consumption", err)
	}

	log := s.logger.With(zap.String("consumption_id", consumption.ID), zap.String("recipe_id", recipe.ID))
	result := &dto.ConfirmResult{
		ConsumptionView: dto.NewConsumptionView(consumption),
		Recipe:          dto.RecipeRef{ID: recipe.ID, Name: recipe.Name, Description: recipe.Description},
		Impacts:         make([]dto.AppliedImpact, 0, len(recipe.Ingredients)),
		Skipped:         make([]dto.SkippedLine, 0),
		Applied:         make([]entities.Impact, 0, len(recipe.Ingredients)),
		LineErrors:      make([]entities.LineError, 0),
	}
	book := newLedger()

	for _, line := range recipe.Ingredients {
		resolution := index.Resolve(line)
		if !resolution.Matched() {
			log.Warn("ingredient not found in stock", zap.String("ingredient", line.IngredientName))
			s.skip(result, consumption.ID, entities.LineError{LineID: line.ID, IngredientName: line.IngredientName, Reason: entities.SkipUnmatched})
			continue
		}

		stock := resolution.Stock
		impact := services.CalculateMatchedImpact(line, recipe.Yield(), req.portions, stock, book.level(stock)).Clamped()

		var expected int64
		if s.config.OptimisticLocking {
			expected = book.version(stock)
		}
		version, err := s.stock.UpdateQuantity(ctx, userID, stock.ID, impact.StockAfter, expected)
		if err != nil {
			log.Error("failed to update stock",
				zap.String("ingredient", line.IngredientName),
				zap.String("stock_id", stock.ID),
				zap.Error(err))
			s.skip(result, consumption.ID, entities.LineError{LineID: line.ID, IngredientName: line.IngredientName, Reason: entities.SkipStockUpdate, Err: err})
			continue
		}
		book.commit(stock.ID, impact.StockAfter, version)

		record := &entities.ImpactRecord{
			ID:               s.newID(),
			ConsumptionID:    consumption.ID,
			StockID:          impact.StockID,
			ProductID:        impact.ProductID,
			IngredientName:   impact.IngredientName,
			Unit:             impact.Unit,
			QuantityConsumed: impact.QuantityNeeded,
			StockBefore:      impact.StockBefore,
			StockAfter:       impact.StockAfter,
			CreatedAt:        now,
		}
		if err := s.consumptions.RecordImpact(ctx, record); err != nil {
			log.Error("failed to record impact",
				zap.String("ingredient", line.IngredientName),
				zap.Error(err))
			s.skip(result, consumption.ID, entities.LineError{LineID: line.ID, IngredientName: line.IngredientName, Reason: entities.SkipImpactRecord, Err: err})
			record.ID = ""
		}

		result.Applied = append(result.Applied, impact)
		result.Impacts = append(result.Impacts, appliedView(record))
		s.publish(events.StockDeductedEvent, consumption.ID, events.StockDeducted{
			ConsumptionID:  consumption.ID,
			StockID:        stock.ID,
			IngredientName: impact.IngredientName,
			Quantity:       impact.QuantityNeeded,
			StockBefore:    impact.StockBefore,
			StockAfter:     impact.StockAfter,
			Insufficient:   !impact.IsSufficient,
		})
	}

	s.publish(events.ConsumptionConfirmedEvent, consumption.ID, events.ConsumptionConfirmed{
		ConsumptionID: consumption.ID,
		UserID:        userID,
		RecipeID:      recipe.ID,
		Type:          consumption.Type.String(),
		Portions:      consumption.Portions,
		BatchID:       consumption.BatchID,
		Applied:       len(result.Applied),
		Skipped:       len(result.LineErrors),
	})

	log.Info("consumption confirmed",
		zap.String("batch_id", consumption.BatchID),
		zap.Int("applied", len(result.Applied)),
		zap.Int("skipped", len(result.LineErrors)))

	return result, nil
}

func (s *Service) skip(result *dto.ConfirmResult, consumptionID string, lineErr entities.LineError) {
	result.LineErrors = append(result.LineErrors, lineErr)

	skipped := dto.SkippedLine{IngredientName: lineErr.IngredientName, Reason: lineErr.Reason.String()}
	if lineErr.Err != nil {
		skipped.Error = lineErr.Err.Error()
	}
	result.Skipped = append(result.Skipped, skipped)

	s.publish(events.IngredientSkippedEvent, consumptionID, events.IngredientSkipped{
		ConsumptionID:  consumptionID,
		IngredientName: lineErr.IngredientName,
		Reason:         lineErr.Reason.String(),
	})
}

func appliedView(record *entities.ImpactRecord) dto.AppliedImpact {
	return dto.AppliedImpact{
		ID:               record.ID,
		IngredientName:   record.IngredientName,
		Unit:             record.Unit,
		StockID:          record.StockID,
		ProductID:        record.ProductID,
		QuantityConsumed: display(record.QuantityConsumed),
		StockBefore:      display(record.StockBefore),
		StockAfter:       display(record.StockAfter),
	}
}
