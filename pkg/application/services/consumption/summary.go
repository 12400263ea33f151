package consumption

import (
	"context"
	"errors"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/vsinha/kitchen/pkg/application/dto"
	"github.com/vsinha/kitchen/pkg/domain/entities"
	"github.com/vsinha/kitchen/pkg/domain/services"
)

// periodLabel names what a summary covers
func periodLabel(locale entities.Locale, empty bool) string {
	switch {
	case locale == entities.LocaleFR && empty:
		return "Dernière consommation"
	case locale == entities.LocaleFR:
		return "Dernière validation"
	case empty:
		return "Latest consumption"
	default:
		return "Latest validation"
	}
}

type productTotal struct {
	key      string
	name     string
	unit     string
	total    decimal.Decimal
	portions []dto.ContributingConsumption
}

type recipeTotal struct {
	id       string
	name     string
	portions decimal.Decimal
}

// Summarize recaps the latest validation: every consumption sharing the
// batch of the most recent one, or that consumption alone. Quantities are
// recomputed from the current recipes rather than read from impact records.
func (s *Service) Summarize(ctx context.Context, userID string) (*dto.Summary, error) {
	latest, err := s.consumptions.LatestConsumption(ctx, userID)
	if errors.Is(err, entities.ErrNotFound) {
		return &dto.Summary{
			Period:         periodLabel(s.config.Locale, true),
			RecipeSummary:  []dto.RecipePortions{},
			ProductImpacts: []dto.ProductImpact{},
		}, nil
	}
	if err != nil {
		return nil, classify("load latest consumption", err)
	}

	group := []*entities.Consumption{latest}
	if latest.InBatch() {
		batch, err := s.consumptions.ListByBatch(ctx, userID, latest.BatchID)
		if err != nil {
			return nil, classify("load batch", err)
		}
		if len(batch) > 0 {
			group = batch
		}
	}

	recipes := newRecipeCache(s, userID)
	products := make(map[string]*productTotal)
	productOrder := make([]*productTotal, 0)
	recipeTotals := make(map[string]*recipeTotal)
	recipeOrder := make([]*recipeTotal, 0)
	dishes := decimal.Zero

	for _, c := range group {
		recipe, err := recipes.get(ctx, c.RecipeID)
		if err != nil {
			return nil, err
		}
		if recipe == nil {
			continue
		}

		tally, ok := recipeTotals[recipe.ID]
		if !ok {
			tally = &recipeTotal{id: recipe.ID, name: recipe.Name}
			recipeTotals[recipe.ID] = tally
			recipeOrder = append(recipeOrder, tally)
		}
		tally.portions = tally.portions.Add(c.Portions)
		dishes = dishes.Add(c.Portions)

		for _, line := range recipe.Ingredients {
			key := entities.NormalizeName(line.IngredientName)
			quantity := services.ScaleLine(recipe, line, c.Portions)

			total, ok := products[key]
			if !ok {
				total = &productTotal{key: key, name: line.IngredientName, unit: line.Unit}
				products[key] = total
				productOrder = append(productOrder, total)
			}
			total.total = total.total.Add(quantity)
			total.portions = append(total.portions, dto.ContributingConsumption{
				ConsumptionID:   c.ID,
				ConsumptionName: c.DisplayName(s.config.Locale),
				RecipeName:      recipe.Name,
				Portions:        c.Portions.InexactFloat64(),
				Quantity:        display(quantity),
				Date:            c.CreatedAt,
			})
		}
	}

	sort.SliceStable(productOrder, func(i, j int) bool {
		if cmp := productOrder[i].total.Cmp(productOrder[j].total); cmp != 0 {
			return cmp > 0
		}
		return productOrder[i].key < productOrder[j].key
	})

	summary := &dto.Summary{
		Period:            periodLabel(s.config.Locale, false),
		BatchID:           latest.BatchID,
		TotalConsumptions: len(group),
		TotalDishes:       dishes.InexactFloat64(),
		RecipeSummary:     make([]dto.RecipePortions, 0, len(recipeOrder)),
		ProductImpacts:    make([]dto.ProductImpact, 0, len(productOrder)),
	}
	for _, tally := range recipeOrder {
		summary.RecipeSummary = append(summary.RecipeSummary, dto.RecipePortions{
			RecipeID:   tally.id,
			RecipeName: tally.name,
			Portions:   tally.portions.InexactFloat64(),
		})
	}
	for _, total := range productOrder {
		sort.SliceStable(total.portions, func(i, j int) bool {
			return total.portions[i].Date.After(total.portions[j].Date)
		})
		summary.ProductImpacts = append(summary.ProductImpacts, dto.ProductImpact{
			ProductName:   total.name,
			TotalQuantity: display(total.total),
			Unit:          total.unit,
			Consumptions:  total.portions,
		})
	}
	return summary, nil
}
