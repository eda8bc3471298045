package upload

import "errors"

var (
	ErrEmptyFile       = errors.New("empty file")
	ErrFileTooLarge    = errors.New("file too large")
	ErrInvalidMimeType = errors.New("unsupported file type")
	ErrCarNotFound     = errors.New("car not found")
	ErrImageNotFound   = errors.New("image not found")
	ErrForbidden       = errors.New("forbidden")
)
