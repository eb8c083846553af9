package metrics

import (
	coremetrics "github.com/ecotrack/binsight/core/metrics"
	"github.com/ecotrack/binsight/core/model"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records engine events as Prometheus metrics.
type PromSink struct {
	observations *prometheus.CounterVec
	predictions  *prometheus.GaugeVec
	tiers        *prometheus.GaugeVec
	runSeconds   prometheus.Histogram
}

// NewPromSink registers the engine metrics on the default Prometheus
// registerer. The metrics server is started separately.
func NewPromSink() (coremetrics.Sink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	observations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "binsight_observations_total",
		Help: "Total number of fill-level observations recorded",
	}, []string{"source"})
	predictions := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "binsight_predictions",
		Help: "Number of bins by prediction confidence in the latest batch",
	}, []string{"confidence"})
	tiers := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "binsight_schedule_tier_bins",
		Help: "Number of bins per urgency tier in the latest schedule",
	}, []string{"tier"})
	runSeconds := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "binsight_schedule_run_seconds",
		Help:    "Duration of collection schedule runs",
		Buckets: prometheus.DefBuckets,
	})

	collectors := map[string]prometheus.Collector{
		"observations": observations,
		"predictions":  predictions,
		"tiers":        tiers,
		"run":          runSeconds,
	}
	for name, c := range collectors {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			switch name {
			case "observations":
				observations = are.ExistingCollector.(*prometheus.CounterVec)
			case "predictions":
				predictions = are.ExistingCollector.(*prometheus.GaugeVec)
			case "tiers":
				tiers = are.ExistingCollector.(*prometheus.GaugeVec)
			case "run":
				runSeconds = are.ExistingCollector.(prometheus.Histogram)
			}
		}
	}

	return &PromSink{
		observations: observations,
		predictions:  predictions,
		tiers:        tiers,
		runSeconds:   runSeconds,
	}, nil
}

// RecordObservation increments the observation counter for its source.
func (s *PromSink) RecordObservation(ev coremetrics.ObservationEvent) error {
	s.observations.WithLabelValues(ev.Observation.Source.String()).Inc()
	return nil
}

// RecordPredictions sets the per-confidence gauges from the latest batch.
func (s *PromSink) RecordPredictions(preds []model.Prediction) error {
	counts := map[string]int{}
	for _, p := range preds {
		counts[p.Confidence.String()]++
	}
	for _, c := range []model.Confidence{
		model.ConfidenceInsufficientData, model.ConfidenceStable,
		model.ConfidenceLow, model.ConfidenceMedium, model.ConfidenceHigh,
	} {
		s.predictions.WithLabelValues(c.String()).Set(float64(counts[c.String()]))
	}
	return nil
}

// RecordScheduleRun sets the tier gauges and observes the run duration.
func (s *PromSink) RecordScheduleRun(ev coremetrics.ScheduleRunEvent) error {
	s.tiers.WithLabelValues("urgent").Set(float64(len(ev.Schedule.Urgent)))
	s.tiers.WithLabelValues("soon").Set(float64(len(ev.Schedule.Soon)))
	s.tiers.WithLabelValues("stable").Set(float64(len(ev.Schedule.Stable)))
	s.runSeconds.Observe(ev.Duration.Seconds())
	return nil
}
