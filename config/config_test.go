package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadYAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
store:
  backend: sqlite
  path: /tmp/bins.db
http:
  enabled: true
  addr: ":9000"
predictor:
  lookback_days: 7
scheduler:
  urgent_hours: 24
metrics:
  prometheus_enabled: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, "/tmp/bins.db", cfg.Store.Path)
	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	assert.Equal(t, 7, cfg.Predictor.LookbackDays)
	assert.Equal(t, 24.0, cfg.Scheduler.UrgentHours)
	assert.True(t, cfg.Metrics.PrometheusEnabled)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.json", `{}`))
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 14, cfg.Predictor.LookbackDays)
	assert.Equal(t, 48.0, cfg.Scheduler.UrgentHours)
	assert.Equal(t, 168.0, cfg.Scheduler.SoonHours)
	assert.Equal(t, "@every 15m", cfg.Jobs.ScheduleCron)
	assert.False(t, cfg.Jobs.Enabled)
	assert.Equal(t, ":9090", cfg.Metrics.PrometheusPort)
}

func TestLoadJobsValidation(t *testing.T) {
	_, err := Load(writeConfig(t, "config.yaml", `jobs:
  enabled: true
  schedule_cron: "not a cron spec"
`))
	assert.Error(t, err)

	// A disabled job never validates its spec.
	cfg, err := Load(writeConfig(t, "config.yaml", `jobs:
  schedule_cron: "not a cron spec"
`))
	require.NoError(t, err)
	assert.False(t, cfg.Jobs.Enabled)
}

func TestLoadMetricsPortDefault(t *testing.T) {
	cfg, err := Load(writeConfig(t, "config.yaml", `metrics:
  prometheus_enabled: true
`))
	require.NoError(t, err)
	assert.True(t, cfg.Metrics.PrometheusEnabled)
	assert.Equal(t, ":9090", cfg.Metrics.PrometheusPort)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("B_STORE__BACKEND", "sqlite")
	t.Setenv("B_STORE__PATH", "/tmp/override.db")
	cfg, err := Load(writeConfig(t, "config.yaml", `store:
  backend: memory
`))
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, "/tmp/override.db", cfg.Store.Path)
}

func TestLoadRejectsBadValues(t *testing.T) {
	_, err := Load(writeConfig(t, "config.yaml", `store:
  backend: postgres
`))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "config.yaml", `scheduler:
  urgent_hours: 200
  soon_hours: 100
`))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "config.toml", ``))
	assert.Error(t, err)
}
