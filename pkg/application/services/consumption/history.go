package consumption

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vsinha/kitchen/pkg/application/dto"
	"github.com/vsinha/kitchen/pkg/domain/entities"
	"github.com/vsinha/kitchen/pkg/infrastructure/events"
	"go.uber.org/zap"
)

// RenameConsumption changes the name of a stored consumption. Nothing else
// about a consumption can change once it is recorded.
func (s *Service) RenameConsumption(ctx context.Context, userID, consumptionID, name string) (*dto.ConsumptionView, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", entities.ErrInvalidInput)
	}

	existing, err := s.consumptions.GetConsumption(ctx, userID, consumptionID)
	if err != nil {
		return nil, classify("load consumption", err)
	}

	now := s.clock()
	if err := s.consumptions.RenameConsumption(ctx, userID, consumptionID, name, now); err != nil {
		return nil, classify("rename consumption", err)
	}

	s.publish(events.ConsumptionRenamedEvent, consumptionID, events.ConsumptionRenamed{
		ConsumptionID: consumptionID,
		OldName:       existing.Name,
		NewName:       name,
	})
	s.logger.Info("consumption renamed", zap.String("consumption_id", consumptionID))

	existing.Name = name
	existing.UpdatedAt = now
	view := dto.NewConsumptionView(existing)
	return &view, nil
}

// ListConsumptions returns the user's consumptions, newest consumption date
// first, each with its recipe and the impact records written when it was
// confirmed.
func (s *Service) ListConsumptions(ctx context.Context, userID string, q dto.ListQuery) ([]dto.ConsumptionDetails, error) {
	filter, err := s.parseFilter(q)
	if err != nil {
		return nil, err
	}

	consumptions, err := s.consumptions.ListConsumptions(ctx, userID, filter)
	if err != nil {
		return nil, classify("list consumptions", err)
	}

	recipes := newRecipeCache(s, userID)
	details := make([]dto.ConsumptionDetails, 0, len(consumptions))
	for _, c := range consumptions {
		item := dto.ConsumptionDetails{
			ConsumptionView: dto.NewConsumptionView(c),
			Recipe:          dto.RecipeRef{ID: c.RecipeID},
			Impacts:         make([]dto.AppliedImpact, 0),
		}

		recipe, err := recipes.get(ctx, c.RecipeID)
		if err != nil {
			return nil, err
		}
		if recipe != nil {
			item.Recipe.Name = recipe.Name
			item.Recipe.Description = recipe.Description
		}

		records, err := s.consumptions.ListImpacts(ctx, c.ID)
		if err != nil {
			return nil, classify("list impacts", err)
		}
		for _, record := range records {
			item.Impacts = append(item.Impacts, appliedView(record))
		}

		details = append(details, item)
	}
	return details, nil
}

func (s *Service) parseFilter(q dto.ListQuery) (entities.ConsumptionFilter, error) {
	var filter entities.ConsumptionFilter

	if strings.TrimSpace(q.StartDate) != "" {
		start, err := parseDate(q.StartDate, time.Time{})
		if err != nil {
			return filter, err
		}
		filter.StartDate = start
	}
	if strings.TrimSpace(q.EndDate) != "" {
		end, err := parseDate(q.EndDate, time.Time{})
		if err != nil {
			return filter, err
		}
		filter.EndDate = end
	}
	if !filter.StartDate.IsZero() && !filter.EndDate.IsZero() && filter.EndDate.Before(filter.StartDate) {
		return filter, fmt.Errorf("%w: end_date is before start_date", entities.ErrInvalidInput)
	}

	if strings.TrimSpace(q.Type) != "" {
		kind, err := entities.ParseConsumptionType(q.Type)
		if err != nil {
			return filter, err
		}
		filter.Type = &kind
	}

	switch {
	case q.Limit < 0:
		return filter, fmt.Errorf("%w: limit cannot be negative", entities.ErrInvalidInput)
	case q.Limit == 0:
		filter.Limit = s.config.DefaultListLimit
	case q.Limit > s.config.MaxListLimit:
		filter.Limit = s.config.MaxListLimit
	default:
		filter.Limit = q.Limit
	}
	return filter, nil
}

// recipeCache loads each recipe at most once per request. A deleted recipe
// is cached as nil.
type recipeCache struct {
	service *Service
	userID  string
	loaded  map[string]*entities.Recipe
}

func newRecipeCache(s *Service, userID string) *recipeCache {
	return &recipeCache{service: s, userID: userID, loaded: make(map[string]*entities.Recipe)}
}

func (c *recipeCache) get(ctx context.Context, recipeID string) (*entities.Recipe, error) {
	if recipe, ok := c.loaded[recipeID]; ok {
		return recipe, nil
	}
	recipe, err := c.service.recipes.GetRecipe(ctx, c.userID, recipeID)
	if errors.Is(err, entities.ErrNotFound) {
		c.loaded[recipeID] = nil
		return nil, nil
	}
	if err != nil {
		return nil, classify("load recipe", err)
	}
	c.loaded[recipeID] = recipe
	return recipe, nil
}
