package session

import (
	"errors"
	"fmt"
)

// ErrStorageUnavailable marks a durable storage failure. The in-memory
// session is still authoritative when this is returned.
var ErrStorageUnavailable = errors.New("session storage unavailable")

// ValidationError rejects a commit before anything changes.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, op, err)
}
