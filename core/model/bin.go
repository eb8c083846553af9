package model

import (
	"fmt"
	"math"
	"time"
)

// Bin represents a physical e-waste collection container. The prediction
// engine only reads its identity and current fill state; ownership of the
// full bin lifecycle (location, capacity class, decommissioning) lies with
// the fleet registry.
type Bin struct {
	ID               string  `json:"bin_id"`
	CurrentFillLevel float64 `json:"current_fill_level"` // percentage between 0 and 100
}

// Validate checks that the bin state is usable for prediction.
func (b Bin) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("bin id is required")
	}
	if math.IsNaN(b.CurrentFillLevel) || math.IsInf(b.CurrentFillLevel, 0) {
		return fmt.Errorf("bin %s: fill level is not finite", b.ID)
	}
	if b.CurrentFillLevel < 0 || b.CurrentFillLevel > 100 {
		return fmt.Errorf("bin %s: fill level %.2f outside [0,100]", b.ID, b.CurrentFillLevel)
	}
	return nil
}

// Source identifies what produced a fill-level observation. It is
// informational only and never changes how an observation is weighted.
type Source int

const (
	SourceManual Source = iota
	SourceDeposit
	SourceSensor
	SourceSimulation
)

// String returns the wire representation of the source tag.
func (s Source) String() string {
	switch s {
	case SourceManual:
		return "manual"
	case SourceDeposit:
		return "deposit"
	case SourceSensor:
		return "sensor"
	case SourceSimulation:
		return "simulation"
	default:
		return "unknown"
	}
}

// ParseSource maps a wire tag back to a Source. Unknown tags are rejected so
// typos fail at the boundary instead of being stored.
func ParseSource(s string) (Source, error) {
	switch s {
	case "manual", "":
		return SourceManual, nil
	case "deposit":
		return SourceDeposit, nil
	case "sensor":
		return SourceSensor, nil
	case "simulation":
		return SourceSimulation, nil
	default:
		return 0, fmt.Errorf("unknown observation source %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler so sources serialize as tags.
func (s Source) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Source) UnmarshalText(b []byte) error {
	v, err := ParseSource(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Observation is a timestamped fill-level record for a bin. Observations are
// append-only: they are created when a fill change is recorded and never
// updated or deleted by the engine.
type Observation struct {
	ID        string    `json:"id"`
	BinID     string    `json:"bin_id"`
	FillLevel float64   `json:"fill_level"`
	Timestamp time.Time `json:"timestamp"`
	Source    Source    `json:"source"`
}

// Validate rejects malformed observations at the ingestion boundary so the
// estimator never sees a fill level outside [0,100] or a non-finite value.
func (o Observation) Validate() error {
	if o.BinID == "" {
		return fmt.Errorf("%w: bin id is required", ErrInvalidObservation)
	}
	if math.IsNaN(o.FillLevel) || math.IsInf(o.FillLevel, 0) {
		return fmt.Errorf("%w: fill level is not finite", ErrInvalidObservation)
	}
	if o.FillLevel < 0 || o.FillLevel > 100 {
		return fmt.Errorf("%w: fill level %.2f outside [0,100]", ErrInvalidObservation, o.FillLevel)
	}
	if o.Timestamp.IsZero() {
		return fmt.Errorf("%w: timestamp is required", ErrInvalidObservation)
	}
	return nil
}
