// Package metrics defines the observability contracts of the prediction
// engine. Concrete sinks (Prometheus, InfluxDB) live under infra/metrics;
// multiple sinks can be combined with NewMultiSink.
package metrics

import (
	"time"

	"github.com/ecotrack/binsight/core/model"
)

// ObservationEvent captures a stored fill-level observation.
type ObservationEvent struct {
	Observation model.Observation
	Time        time.Time
}

// ScheduleRunEvent captures the outcome of a full collection schedule run.
type ScheduleRunEvent struct {
	Schedule model.CollectionSchedule
	Duration time.Duration
	Time     time.Time
}

// Sink records engine events for observability purposes.
type Sink interface {
	RecordObservation(ev ObservationEvent) error
	RecordPredictions(preds []model.Prediction) error
	RecordScheduleRun(ev ScheduleRunEvent) error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordObservation(ObservationEvent) error   { return nil }
func (NopSink) RecordPredictions([]model.Prediction) error { return nil }
func (NopSink) RecordScheduleRun(ScheduleRunEvent) error   { return nil }

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordObservation forwards the event to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordObservation(ev ObservationEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordObservation(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordPredictions forwards the predictions to all sinks.
func (m *MultiSink) RecordPredictions(preds []model.Prediction) error {
	for _, s := range m.Sinks {
		if err := s.RecordPredictions(preds); err != nil {
			return err
		}
	}
	return nil
}

// RecordScheduleRun forwards the event to all sinks.
func (m *MultiSink) RecordScheduleRun(ev ScheduleRunEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordScheduleRun(ev); err != nil {
			return err
		}
	}
	return nil
}
