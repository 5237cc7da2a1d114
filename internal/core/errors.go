package core

import (
	"errors"
	"fmt"

	"summercamp-backend-go/internal/db"
)

// Error taxonomy shared by services, middleware and handlers.
var (
	ErrUnauthorized = errors.New("unauthorized access")
	ErrForbidden    = errors.New("forbidden access")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrInternal     = errors.New("internal server error")

	// ErrCartClearFailed is returned when a payment was stored but its cart
	// items could not be removed. The payment is not rolled back.
	ErrCartClearFailed = errors.New("payment recorded but cart items were not cleared")
)

// storeError classifies an error coming back from a repository.
func storeError(op string, err error) error {
	switch {
	case errors.Is(err, db.ErrInvalidID):
		return fmt.Errorf("%w: %s: %v", ErrValidation, op, err)
	case errors.Is(err, db.ErrNotFound):
		return fmt.Errorf("%w: %s: %v", ErrNotFound, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrInternal, op, err)
}
