// Package metrics implements the concrete observability sinks: Prometheus
// gauges and counters for scraping and InfluxDB points for long-term
// dashboards. Sinks are assembled from configuration by NewFromConfig.
package metrics

import (
	"fmt"

	coremetrics "github.com/ecotrack/binsight/core/metrics"
)

// NewFromConfig builds the configured sinks. No enabled sink yields a
// NopSink; more than one is combined into a MultiSink.
func NewFromConfig(cfg coremetrics.Config) (coremetrics.Sink, error) {
	var sinks []coremetrics.Sink
	if cfg.PrometheusEnabled {
		sink, err := NewPromSink()
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.InfluxEnabled {
		sinks = append(sinks, NewInfluxSinkWithFallback(cfg.InfluxURL, cfg.InfluxToken, cfg.InfluxOrg, cfg.InfluxBucket))
	}
	switch len(sinks) {
	case 0:
		return coremetrics.NopSink{}, nil
	case 1:
		return sinks[0], nil
	default:
		return coremetrics.NewMultiSink(sinks...), nil
	}
}
