package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across services and repositories. Controllers map
// these to HTTP statuses; everything else surfaces as a generic 500.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")

	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already in use")
)

// InvalidCategoryError reports a requested category id that is not present in
// the category catalog. The whole operation carrying the id must be rejected.
type InvalidCategoryError struct {
	CategoryID int64
}

func (e *InvalidCategoryError) Error() string {
	return fmt.Sprintf("invalid category: %d", e.CategoryID)
}

// Is makes errors.Is(err, ErrInvalidInput) true for invalid category ids.
func (e *InvalidCategoryError) Is(target error) bool {
	return target == ErrInvalidInput
}
