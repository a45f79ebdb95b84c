package probe

import "errors"

// Sentinel kinds for probe failures.
var (
	ErrUnhealthy    = errors.New("service unhealthy")
	ErrRequest      = errors.New("request failed")
	ErrOrdering     = errors.New("ranking order violated")
	ErrConservation = errors.New("heatmap does not cover the dataset")
)
