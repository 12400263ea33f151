package entities

import "errors"

// Error classes shared by every layer. Callers wrap them with context and
// classify with errors.Is.
var (
	// ErrInvalidInput marks a request rejected before any work was done
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks a missing record, or one owned by another user
	ErrNotFound = errors.New("not found")
	// ErrPersistence marks a failed write that aborts the whole operation
	ErrPersistence = errors.New("persistence error")
	// ErrStaleStock marks a stock write rejected by the version check
	ErrStaleStock = errors.New("stock record changed since it was read")
)
