package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vsinha/kitchen/pkg/domain/entities"
	"github.com/vsinha/kitchen/pkg/domain/repositories"
)

// ConsumptionRepository provides in-memory storage of consumptions and impact records
type ConsumptionRepository struct {
	mu           sync.RWMutex
	consumptions []entities.Consumption
	byID         map[string]int
	impacts      map[string][]entities.ImpactRecord
}

// NewConsumptionRepository creates a new in-memory consumption repository
func NewConsumptionRepository() *ConsumptionRepository {
	return &ConsumptionRepository{
		consumptions: []entities.Consumption{},
		byID:         make(map[string]int),
		impacts:      make(map[string][]entities.ImpactRecord),
	}
}

// Verify interface compliance
var _ repositories.ConsumptionRepository = (*ConsumptionRepository)(nil)

func (r *ConsumptionRepository) CreateConsumption(ctx context.Context, consumption *entities.Consumption) error {
	if consumption == nil || consumption.ID == "" {
		return fmt.Errorf("%w: consumption id cannot be empty", entities.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[consumption.ID]; exists {
		return fmt.Errorf("%w: consumption %s already exists", entities.ErrInvalidInput, consumption.ID)
	}
	r.byID[consumption.ID] = len(r.consumptions)
	r.consumptions = append(r.consumptions, *consumption)
	return nil
}

func (r *ConsumptionRepository) GetConsumption(ctx context.Context, userID, consumptionID string) (*entities.Consumption, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.byID[consumptionID]
	if !exists || r.consumptions[index].UserID != userID {
		return nil, fmt.Errorf("consumption %s: %w", consumptionID, entities.ErrNotFound)
	}
	c := r.consumptions[index]
	return &c, nil
}

func (r *ConsumptionRepository) RenameConsumption(ctx context.Context, userID, consumptionID, name string, updatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	index, exists := r.byID[consumptionID]
	if !exists || r.consumptions[index].UserID != userID {
		return fmt.Errorf("consumption %s: %w", consumptionID, entities.ErrNotFound)
	}
	r.consumptions[index].Name = name
	r.consumptions[index].UpdatedAt = updatedAt
	return nil
}

// LatestConsumption returns the user's most recently created consumption.
// Equal timestamps resolve to the later insert.
func (r *ConsumptionRepository) LatestConsumption(ctx context.Context, userID string) (*entities.Consumption, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	latest := -1
	for i := range r.consumptions {
		if r.consumptions[i].UserID != userID {
			continue
		}
		if latest < 0 || !r.consumptions[i].CreatedAt.Before(r.consumptions[latest].CreatedAt) {
			latest = i
		}
	}
	if latest < 0 {
		return nil, fmt.Errorf("no consumption for user %s: %w", userID, entities.ErrNotFound)
	}
	c := r.consumptions[latest]
	return &c, nil
}

// ListByBatch returns the consumptions of one batch, newest first
func (r *ConsumptionRepository) ListByBatch(ctx context.Context, userID, batchID string) ([]*entities.Consumption, error) {
	return r.collect(userID, func(c *entities.Consumption) bool {
		return batchID != "" && c.BatchID == batchID
	}, byCreatedDesc), nil
}

// ListConsumptions returns the consumptions matching filter, newest consumption date first
func (r *ConsumptionRepository) ListConsumptions(ctx context.Context, userID string, filter entities.ConsumptionFilter) ([]*entities.Consumption, error) {
	result := r.collect(userID, func(c *entities.Consumption) bool {
		if !filter.StartDate.IsZero() && c.ConsumptionDate.Before(filter.StartDate) {
			return false
		}
		if !filter.EndDate.IsZero() && c.ConsumptionDate.After(filter.EndDate) {
			return false
		}
		return filter.Type == nil || c.Type == *filter.Type
	}, func(a, b *entities.Consumption) bool {
		if !a.ConsumptionDate.Equal(b.ConsumptionDate) {
			return a.ConsumptionDate.After(b.ConsumptionDate)
		}
		return byCreatedDesc(a, b)
	})

	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (r *ConsumptionRepository) RecordImpact(ctx context.Context, record *entities.ImpactRecord) error {
	if record == nil || record.ConsumptionID == "" {
		return fmt.Errorf("%w: impact record needs a consumption", entities.ErrInvalidInput)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[record.ConsumptionID]; !exists {
		return fmt.Errorf("consumption %s: %w", record.ConsumptionID, entities.ErrNotFound)
	}
	r.impacts[record.ConsumptionID] = append(r.impacts[record.ConsumptionID], *record)
	return nil
}

// ListImpacts returns the impact records of a consumption in write order
func (r *ConsumptionRepository) ListImpacts(ctx context.Context, consumptionID string) ([]*entities.ImpactRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]*entities.ImpactRecord, 0, len(r.impacts[consumptionID]))
	for _, record := range r.impacts[consumptionID] {
		rec := record
		records = append(records, &rec)
	}
	return records, nil
}

func (r *ConsumptionRepository) collect(userID string, keep func(*entities.Consumption) bool, less func(a, b *entities.Consumption) bool) []*entities.Consumption {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*entities.Consumption, 0)
	for i := len(r.consumptions) - 1; i >= 0; i-- {
		c := r.consumptions[i]
		if c.UserID == userID && keep(&c) {
			result = append(result, &c)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return less(result[i], result[j])
	})
	return result
}

func byCreatedDesc(a, b *entities.Consumption) bool {
	return a.CreatedAt.After(b.CreatedAt)
}
