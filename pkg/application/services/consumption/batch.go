package consumption

import (
	"context"
	"fmt"
	"strings"

	"github.com/vsinha/kitchen/pkg/application/dto"
	"github.com/vsinha/kitchen/pkg/domain/entities"
	"go.uber.org/zap"
)

// ConfirmBatch confirms several declarations as one validation. All of them
// share a batch id: the one every input already carries, or a fresh one.
// Inputs are confirmed in order; a failed input does not stop the others.
func (s *Service) ConfirmBatch(ctx context.Context, userID string, inputs []dto.ConsumptionInput) (*dto.BatchResult, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: at least one consumption is required", entities.ErrInvalidInput)
	}

	batchID := sharedBatchID(inputs)
	if batchID == "" {
		batchID = s.newID()
	}

	result := &dto.BatchResult{
		BatchID:      batchID,
		Consumptions: make([]dto.ConfirmResult, 0, len(inputs)),
		Errors:       make([]string, 0),
	}

	for i, in := range inputs {
		in.BatchID = batchID
		confirmed, err := s.Confirm(ctx, userID, in)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("consumption %d (recipe %s): %v", i+1, in.RecipeID, err))
			s.logger.Warn("batch consumption failed",
				zap.String("batch_id", batchID),
				zap.Int("position", i+1),
				zap.Error(err))
			continue
		}
		result.Succeeded++
		result.Consumptions = append(result.Consumptions, *confirmed)
	}

	s.logger.Info("batch confirmed",
		zap.String("batch_id", batchID),
		zap.Int("succeeded", result.Succeeded),
		zap.Int("failed", result.Failed))

	return result, nil
}

func sharedBatchID(inputs []dto.ConsumptionInput) string {
	first := strings.TrimSpace(inputs[0].BatchID)
	for _, in := range inputs[1:] {
		if strings.TrimSpace(in.BatchID) != first {
			return ""
		}
	}
	return first
}
