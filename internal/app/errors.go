package service

import "errors"

// Sentinel errors returned by the service.
var (
	ErrInvalidTarget = errors.New("invalid target")
	ErrInvalidPage   = errors.New("invalid page")
)
