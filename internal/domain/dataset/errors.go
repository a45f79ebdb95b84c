package dataset

import "errors"

var (
	// ErrRead is returned when the underlying reader fails mid-stream.
	ErrRead = errors.New("dataset read failed")

	// ErrInvalidRegion is returned for a region whose bounds are inverted or not finite.
	ErrInvalidRegion = errors.New("invalid region")
)
