package review

import "errors"

var (
	ErrValidation      = errors.New("validation error")
	ErrBookingNotFound = errors.New("booking not found")
	ErrForbidden       = errors.New("forbidden")
	ErrNotCompleted    = errors.New("booking not completed")
	ErrAlreadyReviewed = errors.New("booking already reviewed")
)
