package ranking

import "github.com/arijit3111w/estateai/internal/domain/model"

// Filter narrows a candidate set before aggregation. Zero fields are unset.
type Filter struct {
	MinPrice    float64 `json:"min_price,omitempty"`
	MaxPrice    float64 `json:"max_price,omitempty"`
	MinBedrooms int     `json:"min_bedrooms,omitempty"`
}

// PriceRange keeps records priced within [lo, hi]. hi <= 0 leaves the top open.
func PriceRange(lo, hi float64) Filter {
	return Filter{MinPrice: lo, MaxPrice: hi}
}

// MinBedrooms keeps records with at least n bedrooms.
func MinBedrooms(n int) Filter {
	return Filter{MinBedrooms: n}
}

// IsZero reports whether the filter keeps everything.
func (f Filter) IsZero() bool {
	return f.MinPrice <= 0 && f.MaxPrice <= 0 && f.MinBedrooms <= 0
}

// Match reports whether r passes every set bound.
func (f Filter) Match(r model.PropertyRecord) bool {
	if f.MinPrice > 0 && r.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && r.Price > f.MaxPrice {
		return false
	}
	if f.MinBedrooms > 0 && r.Bedrooms < f.MinBedrooms {
		return false
	}
	return true
}

// Apply returns the matching records in input order. A zero filter returns
// records unchanged.
func (f Filter) Apply(records []model.PropertyRecord) []model.PropertyRecord {
	if f.IsZero() {
		return records
	}
	out := make([]model.PropertyRecord, 0, len(records))
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
