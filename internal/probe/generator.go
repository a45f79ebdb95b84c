package probe

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand/v2"

	"github.com/arijit3111w/estateai/internal/domain/dataset"
	"github.com/arijit3111w/estateai/internal/domain/model"
	"github.com/google/uuid"
)

// hub is a population centre synthetic listings cluster around.
type hub struct {
	lat, lng  float64
	basePrice float64
}

var hubs = []hub{ //nolint:gochecknoglobals // fixed generator layout
	{lat: 53.5461, lng: -113.4938, basePrice: 450000}, // Edmonton
	{lat: 52.2681, lng: -113.8112, basePrice: 380000}, // Red Deer
	{lat: 51.0447, lng: -114.0719, basePrice: 620000}, // Calgary
	{lat: 53.6316, lng: -113.6236, basePrice: 520000}, // St. Albert
	{lat: 52.5000, lng: -114.2100, basePrice: 700000}, // Sylvan Lake
}

// Generator produces synthetic listings and targets inside a region.
type Generator struct {
	rng    *rand.Rand
	region dataset.Region
}

// NewGenerator creates a generator seeded with seed.
func NewGenerator(seed uint64, region dataset.Region) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), region: region}
}

// Record returns one synthetic listing with a fresh id.
func (g *Generator) Record() model.PropertyRecord {
	h := hubs[g.rng.IntN(len(hubs))]
	lat, lng := g.near(h)
	beds := 1 + g.rng.IntN(6)
	baths := 1 + float64(g.rng.IntN(7))*0.5
	living := math.Round(600 + float64(beds)*350 + g.rng.Float64()*900)
	grade := 5 + g.rng.IntN(7)
	price := math.Round(h.basePrice * (0.6 + g.rng.Float64()*1.4) * (living / 1800))
	built := 1950 + g.rng.IntN(74)

	return model.PropertyRecord{
		ID:                  "GEN-" + uuid.NewString(),
		ListedDate:          fmt.Sprintf("2024-%02d-%02d", 1+g.rng.IntN(12), 1+g.rng.IntN(28)),
		Price:               price,
		Bedrooms:            beds,
		Bathrooms:           baths,
		LivingArea:          living,
		LotArea:             math.Round(living * (1.5 + g.rng.Float64()*3)),
		Floors:              float64(1 + g.rng.IntN(3)),
		Waterfront:          g.rng.IntN(20) == 0,
		Views:               g.rng.IntN(5),
		Condition:           1 + g.rng.IntN(5),
		Grade:               grade,
		AreaExclBasement:    math.Round(living * 0.75),
		BasementArea:        math.Round(living * 0.25),
		BuiltYear:           built,
		RenovationYear:      0,
		PostalCode:          fmt.Sprintf("T%dX", g.rng.IntN(10)),
		Latitude:            lat,
		Longitude:           lng,
		LivingAreaRenov:     living,
		LotAreaRenov:        math.Round(living * 2),
		SchoolsNearby:       g.rng.IntN(6),
		DistanceFromAirport: math.Round(5 + g.rng.Float64()*60),
	}
}

// Target returns a query target drawn from the same distribution as Record.
func (g *Generator) Target() model.TargetFeatureVector {
	r := g.Record()
	return model.TargetFeatureVector{
		Price:      r.Price,
		Bedrooms:   r.Bedrooms,
		Bathrooms:  r.Bathrooms,
		LivingArea: r.LivingArea,
		Grade:      r.Grade,
		Condition:  r.Condition,
		Latitude:   r.Latitude,
		Longitude:  r.Longitude,
	}
}

// WriteDataset writes a header and rows synthetic listings as CSV.
func (g *Generator) WriteDataset(ctx context.Context, w io.Writer, rows int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(dataset.Columns()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < rows; i++ {
		if i%256 == 0 && ctx.Err() != nil {
			return ctx.Err()
		}
		if err := cw.Write(dataset.Row(g.Record())); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func (g *Generator) near(h hub) (float64, float64) {
	lat := h.lat + g.rng.NormFloat64()*0.03
	lng := h.lng + g.rng.NormFloat64()*0.03
	lat = math.Min(math.Max(lat, g.region.MinLat), g.region.MaxLat)
	lng = math.Min(math.Max(lng, g.region.MinLng), g.region.MaxLng)
	return math.Round(lat*1e4) / 1e4, math.Round(lng*1e4) / 1e4
}
