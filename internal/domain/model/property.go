// Package model contains domain models passed between layers.
package model

// PropertyRecord is one validated row of the property dataset.
// Records are immutable once the loader hands them out.
type PropertyRecord struct {
	ID                  string  `json:"id"`
	ListedDate          string  `json:"listed_date,omitempty"`
	Price               float64 `json:"price"`
	Bedrooms            int     `json:"bedrooms"`
	Bathrooms           float64 `json:"bathrooms"`
	LivingArea          float64 `json:"living_area"`
	LotArea             float64 `json:"lot_area"`
	Floors              float64 `json:"floors"`
	Waterfront          bool    `json:"waterfront"`
	Views               int     `json:"views"`
	Condition           int     `json:"condition"`
	Grade               int     `json:"grade"`
	AreaExclBasement    float64 `json:"area_excl_basement"`
	BasementArea        float64 `json:"basement_area"`
	BuiltYear           int     `json:"built_year"`
	RenovationYear      int     `json:"renovation_year"`
	PostalCode          string  `json:"postal_code,omitempty"`
	Latitude            float64 `json:"latitude"`
	Longitude           float64 `json:"longitude"`
	LivingAreaRenov     float64 `json:"living_area_renov"`
	LotAreaRenov        float64 `json:"lot_area_renov"`
	SchoolsNearby       int     `json:"schools_nearby"`
	DistanceFromAirport float64 `json:"distance_from_airport"`
}

// TargetFeatureVector is the query a ranking is computed against.
type TargetFeatureVector struct {
	Price      float64 `json:"price"`
	Bedrooms   int     `json:"bedrooms"`
	Bathrooms  float64 `json:"bathrooms"`
	LivingArea float64 `json:"living_area"`
	Grade      int     `json:"grade"`
	Condition  int     `json:"condition"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
}

// TargetFrom builds a target vector from an existing record.
func TargetFrom(r PropertyRecord) TargetFeatureVector {
	return TargetFeatureVector{
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

// ScoredCandidate is a record annotated by the scorer and, optionally,
// the investment module.
type ScoredCandidate struct {
	PropertyRecord
	Similarity      float64            `json:"similarity"`
	InvestmentScore *float64           `json:"investment_score,omitempty"`
	Investment      *InvestmentMetrics `json:"investment,omitempty"`
}
