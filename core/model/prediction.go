package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidObservation marks observations rejected at the ingestion
// boundary (fill level outside [0,100], non-finite values, missing fields).
var ErrInvalidObservation = errors.New("invalid observation")

// Confidence is the discrete trust label attached to a prediction.
type Confidence int

const (
	// ConfidenceInsufficientData means fewer than two usable observations
	// were available inside the lookback window. Not an error.
	ConfidenceInsufficientData Confidence = iota
	// ConfidenceStable means the fitted slope is zero or negative: the bin
	// is not trending toward full.
	ConfidenceStable
	// ConfidenceLow covers weak fits (R² ≤ 0.5) and predictions outside the
	// trusted horizon.
	ConfidenceLow
	// ConfidenceMedium covers fits with R² in (0.5, 0.8].
	ConfidenceMedium
	// ConfidenceHigh covers fits with R² above 0.8.
	ConfidenceHigh
)

// String returns the wire tag for the confidence label.
func (c Confidence) String() string {
	switch c {
	case ConfidenceInsufficientData:
		return "insufficient_data"
	case ConfidenceStable:
		return "stable"
	case ConfidenceLow:
		return "low"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceHigh:
		return "high"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Confidence) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Confidence) UnmarshalText(b []byte) error {
	switch string(b) {
	case "insufficient_data":
		*c = ConfidenceInsufficientData
	case "stable":
		*c = ConfidenceStable
	case "low":
		*c = ConfidenceLow
	case "medium":
		*c = ConfidenceMedium
	case "high":
		*c = ConfidenceHigh
	default:
		return fmt.Errorf("unknown confidence %q", string(b))
	}
	return nil
}

// Prediction is the derived forecast for a single bin. It is computed on
// demand and never persisted by the engine. Pointer fields are nil when the
// corresponding value could not be derived; PredictedFullTime is also nil
// when the fitted horizon falls outside the trusted window.
type Prediction struct {
	BinID             string     `json:"bin_id"`
	CurrentFillLevel  float64    `json:"current_fill_level"`
	PredictedFullTime *time.Time `json:"predicted_full_time,omitempty"`
	FillRatePerDay    *float64   `json:"fill_rate_per_day,omitempty"`
	HoursUntilFull    *float64   `json:"hours_until_full,omitempty"`
	DaysUntilFull     *float64   `json:"days_until_full,omitempty"`
	Confidence        Confidence `json:"confidence"`
	RSquared          *float64   `json:"r_squared,omitempty"`
	ObservationCount  int        `json:"observation_count,omitempty"`
	// Reason carries a human-readable note when no usable forecast exists,
	// so callers never have to render a blank entry.
	Reason string `json:"reason,omitempty"`
}

// HasForecast reports whether time-to-full fields are populated.
func (p Prediction) HasForecast() bool { return p.HoursUntilFull != nil }

// CollectionSchedule partitions all known bins into collection urgency tiers.
// The three tiers are mutually exclusive and exhaustive: their lengths
// always sum to TotalBins.
type CollectionSchedule struct {
	Urgent    []Prediction `json:"urgent"`
	Soon      []Prediction `json:"soon"`
	Stable    []Prediction `json:"stable"`
	TotalBins int          `json:"total_bins"`
	Generated time.Time    `json:"generated_at"`
}
