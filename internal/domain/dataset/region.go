package dataset

import (
	"fmt"
	"math"
)

// Region is an inclusive lat/lng bounding box.
type Region struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLng float64 `json:"max_lng"`
}

// DefaultRegion covers the area the bundled dataset describes.
func DefaultRegion() Region {
	return Region{MinLat: 50, MaxLat: 55, MinLng: -116, MaxLng: -112}
}

// Contains reports whether the point lies inside the region, edges included.
func (r Region) Contains(lat, lng float64) bool {
	return lat >= r.MinLat && lat <= r.MaxLat && lng >= r.MinLng && lng <= r.MaxLng
}

// Validate rejects inverted or non-finite bounds.
func (r Region) Validate() error {
	for _, v := range []float64{r.MinLat, r.MaxLat, r.MinLng, r.MaxLng} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite bound", ErrInvalidRegion)
		}
	}
	if r.MinLat > r.MaxLat || r.MinLng > r.MaxLng {
		return fmt.Errorf("%w: min exceeds max", ErrInvalidRegion)
	}
	return nil
}
