package consumption

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vsinha/kitchen/pkg/application/dto"
	"github.com/vsinha/kitchen/pkg/domain/entities"
	"github.com/vsinha/kitchen/pkg/domain/repositories"
	"github.com/vsinha/kitchen/pkg/domain/services"
	"github.com/vsinha/kitchen/pkg/infrastructure/events"
	"go.uber.org/zap"
)

// EngineConfig holds the tunables of the consumption engine
type EngineConfig struct {
	// Locale selects the language of default consumption names and summary labels
	Locale entities.Locale
	// OptimisticLocking makes stock writes compare-and-swap on the version read
	OptimisticLocking bool
	// DefaultListLimit applies when a listing asks for no limit
	DefaultListLimit int
	// MaxListLimit caps any listing
	MaxListLimit int
}

// DefaultEngineConfig returns the configuration used when none is given
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Locale:            entities.LocaleFR,
		OptimisticLocking: false,
		DefaultListLimit:  50,
		MaxListLimit:      500,
	}
}

// Service runs the preview/confirm workflow and the read models built on it
type Service struct {
	config       EngineConfig
	recipes      repositories.RecipeRepository
	stock        repositories.StockRepository
	consumptions repositories.ConsumptionRepository

	events events.EventStore
	logger *zap.Logger
	clock  func() time.Time
	newID  func() string
}

// Option customizes a Service
type Option func(*Service)

// WithEventStore publishes domain events to store
func WithEventStore(store events.EventStore) Option {
	return func(s *Service) { s.events = store }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// WithIDGenerator replaces the UUID generator used for new rows and batches
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// NewService creates a consumption service over the given repositories
func NewService(
	recipes repositories.RecipeRepository,
	stock repositories.StockRepository,
	consumptions repositories.ConsumptionRepository,
	config EngineConfig,
	opts ...Option,
) *Service {
	defaults := DefaultEngineConfig()
	if config.Locale == "" {
		config.Locale = defaults.Locale
	}
	if config.DefaultListLimit <= 0 {
		config.DefaultListLimit = defaults.DefaultListLimit
	}
	if config.MaxListLimit <= 0 {
		config.MaxListLimit = defaults.MaxListLimit
	}

	s := &Service{
		config:       config,
		recipes:      recipes,
		stock:        stock,
		consumptions: consumptions,
		logger:       zap.NewNop(),
		clock:        time.Now,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// request is a validated ConsumptionInput
type request struct {
	recipeID string
	portions decimal.Decimal
	kind     entities.ConsumptionType
	date     time.Time
}

func (s *Service) parseInput(userID string, in dto.ConsumptionInput, now time.Time) (request, error) {
	if strings.TrimSpace(userID) == "" {
		return request{}, fmt.Errorf("%w: user id is required", entities.ErrInvalidInput)
	}

	req := request{recipeID: strings.TrimSpace(in.RecipeID), portions: in.Portions}
	if req.recipeID == "" {
		return request{}, fmt.Errorf("%w: recipe_id is required", entities.ErrInvalidInput)
	}
	if !req.portions.IsPositive() {
		return request{}, fmt.Errorf("%w: portions must be positive, got %s", entities.ErrInvalidInput, req.portions)
	}

	kind, err := entities.ParseConsumptionType(in.ConsumptionType)
	if err != nil {
		return request{}, err
	}
	req.kind = kind

	date, err := parseDate(in.ConsumptionDate, now)
	if err != nil {
		return request{}, err
	}
	req.date = date
	return req, nil
}

// parseDate reads a YYYY-MM-DD date; an empty value means the day of now
func parseDate(value string, now time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	date, err := time.Parse(entities.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: consumption_date must be YYYY-MM-DD, got %q", entities.ErrInvalidInput, value)
	}
	return date, nil
}

// loadRecipe fetches a recipe, keeping ErrNotFound visible to callers
func (s *Service) loadRecipe(ctx context.Context, userID, recipeID string) (*entities.Recipe, error) {
	recipe, err := s.recipes.GetRecipe(ctx, userID, recipeID)
	if err != nil {
		return nil, classify("load recipe", err)
	}
	return recipe, nil
}

// classify wraps a repository error, tagging anything that is not already a
// domain error as a persistence failure.
func classify(op string, err error) error {
	switch {
	case errors.Is(err, entities.ErrNotFound),
		errors.Is(err, entities.ErrInvalidInput),
		errors.Is(err, entities.ErrStaleStock),
		errors.Is(err, entities.ErrPersistence):
		return fmt.Errorf("%s: %w", op, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, entities.ErrPersistence, err)
	}
}

func (s *Service) publish(eventType, streamID string, data interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.AppendEvent(streamID, events.NewEvent(eventType, streamID, data, s.clock())); err != nil {
		s.logger.Warn("failed to append event", zap.String("event_type", eventType), zap.Error(err))
	}
}

func display(q decimal.Decimal) float64 {
	return services.RoundDisplay(q).InexactFloat64()
}
