package dataset

import "github.com/arijit3111w/estateai/internal/domain/dedupe"

// DefaultMaxRows caps how many data lines are parsed.
const DefaultMaxRows = 5000

type decodeOptions struct {
	maxRows int
	region  Region
	strict  bool
	deduper dedupe.Deduper
}

// Option configures Decode.
type Option func(*decodeOptions)

// WithMaxRows caps the number of data lines parsed. n <= 0 removes the cap.
func WithMaxRows(n int) Option {
	return func(o *decodeOptions) {
		o.maxRows = n
	}
}

// WithRegion sets the accepted bounding box.
func WithRegion(r Region) Option {
	return func(o *decodeOptions) {
		o.region = r
	}
}

// WithStrict drops rows that needed any fallback value instead of keeping them.
func WithStrict(strict bool) Option {
	return func(o *decodeOptions) {
		o.strict = strict
	}
}

// WithDeduper sets the id tracker used to drop repeated ids. A nil deduper
// disables the check.
func WithDeduper(d dedupe.Deduper) Option {
	return func(o *decodeOptions) {
		o.deduper = d
	}
}
