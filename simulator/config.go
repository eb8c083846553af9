package simulator

import "fmt"

// Config holds parameters for synthetic fleet generation.
type Config struct {
	Enabled bool `json:"enabled"`
	// Bins is the number of bins to generate, IDs bin0001..binNNNN.
	Bins int `json:"bins"`
	// Days of observation history to generate before the current time.
	Days int `json:"days"`
	// IntervalHours between consecutive observations of one bin.
	IntervalHours float64 `json:"interval_hours"`
	// MinRate and MaxRate bound the per-bin fill rate in percent per day.
	MinRate float64 `json:"min_rate"`
	MaxRate float64 `json:"max_rate"`
	// Noise is the amplitude of uniform jitter added to each reading.
	Noise float64 `json:"noise"`
	// Seed makes generation reproducible.
	Seed int64 `json:"seed"`
}

func (c *Config) SetDefaults() {
	if c.Bins == 0 {
		c.Bins = 10
	}
	if c.Days == 0 {
		c.Days = 7
	}
	if c.IntervalHours == 0 {
		c.IntervalHours = 6
	}
	if c.MinRate == 0 {
		c.MinRate = 2
	}
	if c.MaxRate == 0 {
		c.MaxRate = 30
	}
	if c.Seed == 0 {
		c.Seed = 1
	}
}

func (c Config) Validate() error {
	if c.Bins < 0 {
		return fmt.Errorf("bins must be >= 0")
	}
	if c.Days < 0 {
		return fmt.Errorf("days must be >= 0")
	}
	if c.IntervalHours <= 0 {
		return fmt.Errorf("interval_hours must be > 0")
	}
	if c.MinRate < 0 || c.MaxRate < c.MinRate {
		return fmt.Errorf("rates must satisfy 0 <= min_rate <= max_rate")
	}
	if c.Noise < 0 {
		return fmt.Errorf("noise must be >= 0")
	}
	return nil
}
