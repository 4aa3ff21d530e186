package bookings

import (
	"errors"
	"fmt"
)

var (
	ErrCatalogNotFound = errors.New("catalog item not found or inactive")
	ErrQuotaExceeded   = errors.New("no remaining capacity for this trip")
	ErrNotFound        = errors.New("booking not found")
	ErrForbidden       = errors.New("insufficient permissions")
	ErrInvalidState    = errors.New("invalid booking state")
	ErrValidation      = errors.New("invalid booking data")
)

// InvalidStateError is returned when a transition guard fails. The
// message names the expected state so API clients can surface it
// ("expected status menunggu pembayaran").
type InvalidStateError struct {
	Current  Status
	Expected Status
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("booking is %s, expected status %s", e.Current.Display(), e.Expected.Display())
}

func (e *InvalidStateError) Is(target error) bool {
	return target == ErrInvalidState
}

func newInvalidState(current, expected Status) error {
	return &InvalidStateError{Current: current, Expected: expected}
}

// ValidationError carries a user-facing message for malformed booking data.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
