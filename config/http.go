package config

import "fmt"

// HTTPConfig controls the REST API listener.
type HTTPConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
}

func (c *HTTPConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

func (c HTTPConfig) Validate() error {
	if c.Enabled && c.Addr == "" {
		return fmt.Errorf("http addr is required")
	}
	return nil
}
