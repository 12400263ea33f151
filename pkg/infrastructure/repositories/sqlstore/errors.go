package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/vsinha/kitchen/pkg/domain/entities"
)

// wrap turns a driver error into a domain error
func wrap(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%s: %w", op, entities.ErrNotFound)
	case isConstraintViolation(err):
		return fmt.Errorf("%s: %w: %v", op, entities.ErrInvalidInput, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, entities.ErrPersistence, err)
	}
}
