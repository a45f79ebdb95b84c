package grid

import "errors"

// ErrInvalidCellSize is returned for a non-finite cell size or one below MinCellSize.
var ErrInvalidCellSize = errors.New("invalid grid cell size")
