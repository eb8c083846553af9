package schedule

import "fmt"

// Config defines the tiering policy and worker pool size.
type Config struct {
	// UrgentHours is the exclusive upper bound of the urgent tier.
	UrgentHours float64 `json:"urgent_hours"`
	// SoonHours is the exclusive upper bound of the soon tier. Bins at or
	// beyond it, and bins with no usable forecast, are stable.
	SoonHours float64 `json:"soon_hours"`
	// Workers bounds how many bins are predicted concurrently.
	Workers int `json:"workers"`
}

// SetDefaults applies the production tier boundaries (48h urgent, 7d soon).
func (c *Config) SetDefaults() {
	if c.UrgentHours == 0 {
		c.UrgentHours = 48
	}
	if c.SoonHours == 0 {
		c.SoonHours = 168
	}
	if c.Workers == 0 {
		c.Workers = 8
	}
}

// Validate checks the tier boundaries are ordered.
func (c Config) Validate() error {
	if c.UrgentHours <= 0 {
		return fmt.Errorf("urgent_hours must be positive")
	}
	if c.SoonHours <= c.UrgentHours {
		return fmt.Errorf("soon_hours must exceed urgent_hours")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	return nil
}
