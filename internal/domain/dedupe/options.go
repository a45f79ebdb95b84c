// Package dedupe tracks identifiers that were already seen.
package dedupe

// Option applies a configuration option to the in-memory deduper.
type Option func(*inMemoryDeduper)

// WithMaxSize bounds the number of remembered IDs.
// If maxSize > 0 the oldest ID is forgotten once the bound is reached.
// If maxSize <= 0 the set is unbounded, which is the default.
func WithMaxSize(maxSize int) Option {
	return func(d *inMemoryDeduper) {
		d.maxSize = maxSize
	}
}
