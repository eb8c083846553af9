package config

import (
	"fmt"

	"github.com/robfig/cron/v3"
)

// JobsConfig controls background jobs run by the service host.
type JobsConfig struct {
	Enabled bool `json:"enabled"`
	// ScheduleCron is the cron spec for periodic collection schedule
	// recomputation.
	ScheduleCron string `json:"schedule_cron"`
}

func (c *JobsConfig) SetDefaults() {
	if c.ScheduleCron == "" {
		c.ScheduleCron = "@every 15m"
	}
}

func (c JobsConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if _, err := cron.ParseStandard(c.ScheduleCron); err != nil {
		return fmt.Errorf("invalid schedule cron %q: %w", c.ScheduleCron, err)
	}
	return nil
}
