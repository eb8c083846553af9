package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ecotrack/binsight/core/metrics"
	"github.com/ecotrack/binsight/core/predict"
	"github.com/ecotrack/binsight/core/schedule"
	"github.com/ecotrack/binsight/infra/mqtt"
	"github.com/ecotrack/binsight/simulator"
)

type Config struct {
	Store     StoreConfig      `json:"store"`
	HTTP      HTTPConfig       `json:"http"`
	Jobs      JobsConfig       `json:"jobs"`
	MQTT      mqtt.Config      `json:"mqtt"`
	Metrics   metrics.Config   `json:"metrics"`
	Predictor predict.Config   `json:"predictor"`
	Scheduler schedule.Config  `json:"scheduler"`
	Simulator simulator.Config `json:"simulator"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("B_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "b_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Store.SetDefaults()
	cfg.HTTP.SetDefaults()
	cfg.Jobs.SetDefaults()
	cfg.Metrics.SetDefaults()
	cfg.Predictor.SetDefaults()
	cfg.Scheduler.SetDefaults()
	cfg.Simulator.SetDefaults()
	if err := cfg.Store.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.HTTP.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Jobs.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Predictor.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Scheduler.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Simulator.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
