package predict

import (
	"fmt"
	"time"
)

// Config defines the prediction policy.
type Config struct {
	// LookbackDays bounds how far back observations are considered.
	LookbackDays int `json:"lookback_days"`
	// FreshnessThreshold is the maximum age of the newest observation before
	// a synthetic (now, currentFillLevel) point is appended to anchor the
	// fit to present state. Expressed in minutes in configuration files.
	FreshnessThresholdMinutes int `json:"freshness_threshold_minutes"`
	// HighRSquared and MediumRSquared are the confidence cutoffs: a fit with
	// R² above HighRSquared is labelled high, above MediumRSquared medium,
	// anything else low.
	HighRSquared   float64 `json:"high_r_squared"`
	MediumRSquared float64 `json:"medium_r_squared"`
	// HorizonDays caps how far in the future a predicted full time is
	// trusted. Predictions beyond it (or before now) keep their numeric
	// fields but lose the date and are downgraded to low confidence.
	HorizonDays float64 `json:"horizon_days"`
}

// SetDefaults applies the production policy values.
func (c *Config) SetDefaults() {
	if c.LookbackDays == 0 {
		c.LookbackDays = 14
	}
	if c.FreshnessThresholdMinutes == 0 {
		c.FreshnessThresholdMinutes = 60
	}
	if c.HighRSquared == 0 {
		c.HighRSquared = 0.8
	}
	if c.MediumRSquared == 0 {
		c.MediumRSquared = 0.5
	}
	if c.HorizonDays == 0 {
		c.HorizonDays = 365
	}
}

// Validate checks the policy is internally consistent.
func (c Config) Validate() error {
	if c.LookbackDays < 1 {
		return fmt.Errorf("lookback_days must be at least 1")
	}
	if c.FreshnessThresholdMinutes < 0 {
		return fmt.Errorf("freshness_threshold_minutes must not be negative")
	}
	if c.HighRSquared <= c.MediumRSquared {
		return fmt.Errorf("high_r_squared must exceed medium_r_squared")
	}
	if c.HorizonDays <= 0 {
		return fmt.Errorf("horizon_days must be positive")
	}
	return nil
}

// Lookback returns the lookback window as a duration.
func (c Config) Lookback() time.Duration {
	return time.Duration(c.LookbackDays) * 24 * time.Hour
}

// Freshness returns the staleness threshold as a duration.
func (c Config) Freshness() time.Duration {
	return time.Duration(c.FreshnessThresholdMinutes) * time.Minute
}
