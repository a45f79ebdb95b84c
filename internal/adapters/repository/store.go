// Package repository holds the read-through cache of the property dataset.
package repository

import (
	"context"
	"time"

	"github.com/arijit3111w/estateai/internal/domain/dataset"
	"github.com/arijit3111w/estateai/internal/domain/model"
)

// Store provides read access to the loaded dataset.
type Store interface {
	// All returns every record in dataset order, loading on first use.
	// When the source cannot be read it returns an empty slice and the error.
	All(ctx context.Context) ([]model.PropertyRecord, error)

	// Get returns one record. Returns ErrNotFound if the id is unknown.
	Get(ctx context.Context, id string) (model.PropertyRecord, error)

	// Count returns the number of cached records without triggering a load.
	Count(ctx context.Context) int

	// Reload fetches the dataset again and swaps it in on success.
	Reload(ctx context.Context) (dataset.Report, error)

	// Invalidate drops the cached records; the next read reloads.
	Invalidate()

	// Info describes the cached dataset.
	Info() Info
}

// Info describes the state of the cache.
type Info struct {
	Source    string         `json:"source"`
	Loaded    bool           `json:"loaded"`
	Records   int            `json:"records"`
	LoadedAt  time.Time      `json:"loaded_at,omitempty"`
	Report    dataset.Report `json:"report"`
	LastError string         `json:"last_error,omitempty"`
}
