// Package scoring computes how closely a candidate property matches a target.
package scoring

import (
	"errors"
	"fmt"
	"math"

	"github.com/arijit3111w/estateai/internal/domain/model"
)

// Normalisation spans: a difference of at least this much floors the
// component at zero.
const (
	bedroomSpan   = 3.0
	bathroomSpan  = 2.0
	gradeSpan     = 5.0
	locationSpan  = 2.0 // degrees, planar
	weightSumEps  = 1e-9
	maxComponents = 6
)

// ErrInvalidWeights is returned when weights are negative or do not sum to one.
var ErrInvalidWeights = errors.New("invalid similarity weights")

// Weights are the component weights of the composite similarity. They must
// be non-negative and sum to 1 so that the composite stays in [0,1].
type Weights struct {
	Price      float64 `koanf:"price" json:"price"`
	Bedrooms   float64 `koanf:"bedrooms" json:"bedrooms"`
	Bathrooms  float64 `koanf:"bathrooms" json:"bathrooms"`
	LivingArea float64 `koanf:"living_area" json:"living_area"`
	Grade      float64 `koanf:"grade" json:"grade"`
	Location   float64 `koanf:"location" json:"location"`
}

// DefaultWeights returns the production weighting.
func DefaultWeights() Weights {
	return Weights{
		Price:      0.40,
		Bedrooms:   0.15,
		Bathrooms:  0.10,
		LivingArea: 0.15,
		Grade:      0.10,
		Location:   0.10,
	}
}

// Validate checks that every weight is finite and non-negative and that the
// weights sum to 1.
func (w Weights) Validate() error {
	all := [maxComponents]float64{w.Price, w.Bedrooms, w.Bathrooms, w.LivingArea, w.Grade, w.Location}
	sum := 0.0
	for _, v := range all {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: negative or non-finite weight %v", ErrInvalidWeights, v)
		}
		sum += v
	}
	if math.Abs(sum-1) > weightSumEps {
		return fmt.Errorf("%w: weights sum to %v, want 1", ErrInvalidWeights, sum)
	}
	return nil
}

// Components holds the per-attribute sub-scores (each in [0,1]) and the
// weighted total.
type Components struct {
	Price      float64 `json:"price"`
	Bedrooms   float64 `json:"bedrooms"`
	Bathrooms  float64 `json:"bathrooms"`
	LivingArea float64 `json:"living_area"`
	Grade      float64 `json:"grade"`
	Location   float64 `json:"location"`
	Total      float64 `json:"total"`
}

// Scorer scores a candidate against a target.
type Scorer interface {
	Score(candidate model.PropertyRecord, target model.TargetFeatureVector) float64
}

// Option applies a configuration option to the SimilarityScorer.
type Option func(*SimilarityScorer)

// WithWeights replaces the default weights. Invalid weights are ignored;
// callers that need to report them should call Validate first.
func WithWeights(w Weights) Option {
	return func(s *SimilarityScorer) {
		if w.Validate() == nil {
			s.weights = w
		}
	}
}

// SimilarityScorer implements Scorer with a fixed-weight sum of normalised
// attribute differences.
type SimilarityScorer struct {
	weights Weights
}

// NewSimilarityScorer creates a scorer with the default weights.
func NewSimilarityScorer(opts ...Option) *SimilarityScorer {
	s := &SimilarityScorer{weights: DefaultWeights()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Weights returns the weights in use.
func (s *SimilarityScorer) Weights() Weights {
	return s.weights
}

// Score returns the composite similarity in [0,1].
func (s *SimilarityScorer) Score(candidate model.PropertyRecord, target model.TargetFeatureVector) float64 {
	return s.Breakdown(candidate, target).Total
}

// Breakdown returns every sub-score along with the weighted total.
func (s *SimilarityScorer) Breakdown(candidate model.PropertyRecord, target model.TargetFeatureVector) Components {
	c := Components{
		Price:      relativeCloseness(candidate.Price, target.Price),
		Bedrooms:   spanCloseness(float64(candidate.Bedrooms-target.Bedrooms), bedroomSpan),
		Bathrooms:  spanCloseness(candidate.Bathrooms-target.Bathrooms, bathroomSpan),
		LivingArea: relativeCloseness(candidate.LivingArea, target.LivingArea),
		Grade:      spanCloseness(float64(candidate.Grade-target.Grade), gradeSpan),
		Location: spanCloseness(
			math.Hypot(candidate.Latitude-target.Latitude, candidate.Longitude-target.Longitude),
			locationSpan,
		),
	}
	w := s.weights
	c.Total = clamp01(c.Price*w.Price +
		c.Bedrooms*w.Bedrooms +
		c.Bathrooms*w.Bathrooms +
		c.LivingArea*w.LivingArea +
		c.Grade*w.Grade +
		c.Location*w.Location)
	return c
}

var defaultScorer = NewSimilarityScorer() //nolint:gochecknoglobals // stateless default

// Score scores with the default weights.
func Score(candidate model.PropertyRecord, target model.TargetFeatureVector) float64 {
	return defaultScorer.Score(candidate, target)
}

// relativeCloseness is 1 - min(|got-want|/want, 1). A non-positive or
// non-finite reference gives 0 rather than dividing by zero.
func relativeCloseness(got, want float64) float64 {
	if !(want > 0) || math.IsInf(want, 0) {
		return 0
	}
	return clamp01(1 - math.Min(math.Abs(got-want)/want, 1))
}

// spanCloseness is 1 - min(|delta|/span, 1).
func spanCloseness(delta, span float64) float64 {
	return clamp01(1 - math.Min(math.Abs(delta)/span, 1))
}

// clamp01 also maps NaN to 0.
func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
