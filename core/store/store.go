// Package store defines the persistence contracts the prediction engine
// consumes. Observations are append-only; bins are read-only from the
// engine's perspective. Implementations must support the batched reads the
// scheduler relies on so a full-fleet run never degenerates into one query
// per bin.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/ecotrack/binsight/core/model"
)

// ErrBinNotFound indicates the requested bin identifier has no record.
var ErrBinNotFound = errors.New("bin not found")

// BinStore provides read access to bin identity and current fill state.
type BinStore interface {
	// GetBin returns the bin or ErrBinNotFound.
	GetBin(ctx context.Context, binID string) (model.Bin, error)
	// ListBins returns every known bin.
	ListBins(ctx context.Context) ([]model.Bin, error)
	// SetFillLevel updates the bin's current fill state.
	SetFillLevel(ctx context.Context, binID string, fill float64) error
}

// ObservationStore provides the append-only fill-level history.
type ObservationStore interface {
	// Append inserts a new observation. The record is never updated or
	// deleted afterwards; retention is an external policy.
	Append(ctx context.Context, obs model.Observation) error
	// Observations returns a bin's observations with timestamp >= since,
	// ordered by timestamp ascending.
	Observations(ctx context.Context, binID string, since time.Time) ([]model.Observation, error)
	// ObservationsByBin returns the observations of every bin with
	// timestamp >= since in one read, keyed by bin id and ordered by
	// timestamp ascending within each bin.
	ObservationsByBin(ctx context.Context, since time.Time) (map[string][]model.Observation, error)
}

// Store combines both contracts; concrete backends implement it.
type Store interface {
	BinStore
	ObservationStore
}
