// Package grid buckets properties into fixed-size lat/lng cells and derives
// per-cell price statistics for heatmap rendering.
package grid

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/arijit3111w/estateai/internal/domain/model"
)

// DefaultCellSize is the cell edge in degrees.
const DefaultCellSize = 0.01

// MinCellSize is the smallest accepted cell edge. Below it cell ids lose
// their corner precision.
const MinCellSize = 1e-6

// maxIndex bounds a quantized coordinate so it converts to int64 and back
// to float64 exactly.
const maxIndex = 1 << 53

// Tier thresholds on a cell's average price.
const (
	LuxuryThreshold    = 1_200_000
	ExpensiveThreshold = 800_000
	MidRangeThreshold  = 600_000
)

const opacityStep = 0.05

type tierStyle struct {
	color       string
	baseOpacity float64
	capOpacity  float64
}

var tierStyles = map[model.ColorClass]tierStyle{ //nolint:gochecknoglobals // fixed palette
	model.ClassAffordable: {color: "#22c55e", baseOpacity: 0.3, capOpacity: 0.7},
	model.ClassMidRange:   {color: "#eab308", baseOpacity: 0.3, capOpacity: 0.7},
	model.ClassExpensive:  {color: "#f97316", baseOpacity: 0.35, capOpacity: 0.75},
	model.ClassLuxury:     {color: "#ef4444", baseOpacity: 0.4, capOpacity: 0.8},
}

// Classify maps an average price to its tier.
func Classify(averagePrice float64) model.ColorClass {
	switch {
	case averagePrice >= LuxuryThreshold:
		return model.ClassLuxury
	case averagePrice >= ExpensiveThreshold:
		return model.ClassExpensive
	case averagePrice >= MidRangeThreshold:
		return model.ClassMidRange
	default:
		return model.ClassAffordable
	}
}

// Color returns the base colour of a tier.
func Color(class model.ColorClass) string {
	return tierStyles[class].color
}

// Opacity grows with the member count up to the tier cap.
func Opacity(class model.ColorClass, count int) float64 {
	st, ok := tierStyles[class]
	if !ok {
		st = tierStyles[model.ClassAffordable]
	}
	return math.Min(st.baseOpacity+float64(count)*opacityStep, st.capOpacity)
}

// key is the pair of floor-quantized cell indices.
type key struct {
	lat, lng int64
}

func quantize(v, cellSize float64) int64 {
	return int64(math.Floor(v / cellSize))
}

// indexable reports whether v/cellSize fits the cell index range.
func indexable(v, cellSize float64) bool {
	return finite(v) && math.Abs(math.Floor(v/cellSize)) < maxIndex
}

// ValidateCellSize rejects sizes that are non-finite or below MinCellSize.
func ValidateCellSize(cellSize float64) error {
	if !(cellSize >= MinCellSize) || math.IsInf(cellSize, 0) {
		return fmt.Errorf("%w: %v (minimum %v)", ErrInvalidCellSize, cellSize, MinCellSize)
	}
	return nil
}

// CellID formats the south-west corner of the cell containing (lat, lng).
func CellID(lat, lng, cellSize float64) string {
	return cellID(key{lat: quantize(lat, cellSize), lng: quantize(lng, cellSize)}, cellSize)
}

func cellID(k key, cellSize float64) string {
	prec := decimals(cellSize)
	return strconv.FormatFloat(float64(k.lat)*cellSize, 'f', prec, 64) + ":" +
		strconv.FormatFloat(float64(k.lng)*cellSize, 'f', prec, 64)
}

// decimals is the number of fractional digits needed to print multiples of cellSize.
func decimals(cellSize float64) int {
	for d := 0; d < 10; d++ {
		scaled := cellSize * math.Pow10(d)
		if math.Abs(scaled-math.Round(scaled)) < 1e-9 {
			return d
		}
	}
	return 10
}

type accumulator struct {
	count int
	sum   float64
	min   float64
	max   float64
}

// Aggregate groups records by cell and returns one GridCell per non-empty
// cell, densest first (ties by cell id). Records whose coordinates are
// non-finite or too large to index at this cell size are ignored. Every call
// returns freshly allocated cells.
func Aggregate(records []model.PropertyRecord, cellSize float64) ([]model.GridCell, error) {
	if err := ValidateCellSize(cellSize); err != nil {
		return nil, err
	}

	groups := make(map[key]*accumulator)
	for _, r := range records {
		if !indexable(r.Latitude, cellSize) || !indexable(r.Longitude, cellSize) {
			continue
		}
		k := key{lat: quantize(r.Latitude, cellSize), lng: quantize(r.Longitude, cellSize)}
		acc, ok := groups[k]
		if !ok {
			acc = &accumulator{min: r.Price, max: r.Price}
			groups[k] = acc
		}
		acc.count++
		acc.sum += r.Price
		acc.min = math.Min(acc.min, r.Price)
		acc.max = math.Max(acc.max, r.Price)
	}

	cells := make([]model.GridCell, 0, len(groups))
	for k, acc := range groups {
		avg := acc.sum / float64(acc.count)
		class := Classify(avg)
		swLat := float64(k.lat) * cellSize
		swLng := float64(k.lng) * cellSize
		cells = append(cells, model.GridCell{
			CellID: cellID(k, cellSize),
			Bounds: model.Bounds{
				SouthWest: model.LatLng{Lat: swLat, Lng: swLng},
				NorthEast: model.LatLng{Lat: swLat + cellSize, Lng: swLng + cellSize},
			},
			PropertyCount: acc.count,
			AveragePrice:  avg,
			MinPrice:      acc.min,
			MaxPrice:      acc.max,
			ColorClass:    class,
			Color:         Color(class),
			Opacity:       Opacity(class, acc.count),
		})
	}

	sort.Slice(cells, func(i, j int) bool {
		if cells[i].PropertyCount != cells[j].PropertyCount {
			return cells[i].PropertyCount > cells[j].PropertyCount
		}
		return cells[i].CellID < cells[j].CellID
	})
	return cells, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
