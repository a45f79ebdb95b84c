package probe

import "net/http"

// HTTP status code constants.
const (
	StatusOK = http.StatusOK
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// PercentageMultiplier converts ratios to percentages.
const PercentageMultiplier = 100
