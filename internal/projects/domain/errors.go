package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("project not found")
	ErrConflict           = errors.New("project id already exists")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrInvalidStatus      = errors.New("invalid project status")
	ErrInvalidPayload     = errors.New("invalid project payload")
	ErrBackendUnavailable = errors.New("storage backend unavailable")
)

// Unavailable wraps a storage I/O failure so callers can still match it with
// errors.Is(err, ErrBackendUnavailable) while keeping the underlying cause.
func Unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrBackendUnavailable, err)
}
