package repository

import (
	"github.com/arijit3111w/estateai/internal/adapters/source"
	"github.com/arijit3111w/estateai/internal/domain/dataset"
	"github.com/arijit3111w/estateai/internal/domain/dedupe"
	"github.com/arijit3111w/estateai/pkg/logger"
)

// Option applies a configuration option to the CachedStore.
type Option func(*CachedStore)

// WithSource sets where the dataset is read from.
func WithSource(src source.Source) Option {
	return func(s *CachedStore) {
		if src != nil {
			s.src = src
		}
	}
}

// WithDecodeOptions passes loader options (row cap, region, strict mode) to every load.
func WithDecodeOptions(opts ...dataset.Option) Option {
	return func(s *CachedStore) {
		s.decodeOpts = append(s.decodeOpts, opts...)
	}
}

// WithDedupeIDs turns duplicate id suppression on or off.
func WithDedupeIDs(enabled bool) Option {
	return func(s *CachedStore) {
		if enabled {
			s.deduper = dedupe.NewInMemoryDeduper()
		} else {
			s.deduper = nil
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *CachedStore) {
		if l != nil {
			s.log = l
		}
	}
}
