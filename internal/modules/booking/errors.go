package booking

import (
	"errors"
	"fmt"

	"carbnb/internal/domain"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrCarNotFound       = errors.New("car not found")
	ErrNotFound          = errors.New("booking not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ConflictError carries the range of the record the candidate dates ran
// into, so the client can suggest alternatives.
type ConflictError struct {
	Conflict domain.DateRange
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("dates conflict with an existing reservation %s..%s",
		e.Conflict.Start.Format("2006-01-02"), e.Conflict.End.Format("2006-01-02"))
}
