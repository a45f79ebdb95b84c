package source

import "errors"

// ErrSourceUnavailable is returned when the dataset resource cannot be opened.
var ErrSourceUnavailable = errors.New("dataset source unavailable")
