package repository

import "errors"

// Sentinel kinds for dataset store errors.
var (
	ErrNotFound    = errors.New("property not found")
	ErrInvalidPage = errors.New("invalid page")
)
