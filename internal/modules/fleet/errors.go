package fleet

import "errors"

var (
	ErrValidation       = errors.New("validation error")
	ErrNotFound         = errors.New("car not found")
	ErrLocationNotFound = errors.New("location not found")
	ErrForbidden        = errors.New("forbidden")
)
