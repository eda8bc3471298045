package location

import "errors"

var (
	ErrNotFound = errors.New("location not found")
	ErrHasCars  = errors.New("location still has cars")
)
