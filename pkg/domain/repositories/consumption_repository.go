package repositories

import (
	"context"
	"time"

	"github.com/vsinha/kitchen/pkg/domain/entities"
)

// ConsumptionRepository stores consumption declarations and their impact records
type ConsumptionRepository interface {
	CreateConsumption(ctx context.Context, consumption *entities.Consumption) error
	GetConsumption(ctx context.Context, userID, consumptionID string) (*entities.Consumption, error)
	RenameConsumption(ctx context.Context, userID, consumptionID, name string, updatedAt time.Time) error

	// LatestConsumption returns the most recently created consumption of the
	// user, or entities.ErrNotFound when there is none.
	LatestConsumption(ctx context.Context, userID string) (*entities.Consumption, error)
	ListByBatch(ctx context.Context, userID, batchID string) ([]*entities.Consumption, error)
	ListConsumptions(ctx context.Context, userID string, filter entities.ConsumptionFilter) ([]*entities.Consumption, error)

	RecordImpact(ctx context.Context, record *entities.ImpactRecord) error
	ListImpacts(ctx context.Context, consumptionID string) ([]*entities.ImpactRecord, error)
}
