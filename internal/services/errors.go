package services

import (
	"errors"
	"fmt"

	"hgl-backend/internal/repositories"
)

// ErrStorageUnavailable is reported when the substrate cannot be read or
// written. The caller should ask the user to retry.
var ErrStorageUnavailable = repositories.ErrStorage

var ErrNotFound = errors.New("not found")

// ValidationError rejects a form before anything is persisted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}
