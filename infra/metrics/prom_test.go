package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/ecotrack/binsight/core/metrics"
	"github.com/ecotrack/binsight/core/model"
)

func TestPromSinkRecordObservation(t *testing.T) {
	reg := prometheus.NewRegistry()
	sinkIf, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	sink := sinkIf.(*PromSink)

	obs := model.Observation{BinID: "b1", FillLevel: 40, Timestamp: time.Now(), Source: model.SourceSensor}
	if err := sink.RecordObservation(coremetrics.ObservationEvent{Observation: obs, Time: obs.Timestamp}); err != nil {
		t.Fatalf("record error: %v", err)
	}
	if err := sink.RecordObservation(coremetrics.ObservationEvent{Observation: obs, Time: obs.Timestamp}); err != nil {
		t.Fatalf("record error: %v", err)
	}

	expected := `
# HELP binsight_observations_total Total number of fill-level observations recorded
# TYPE binsight_observations_total counter
binsight_observations_total{source="sensor"} 2
`
	if err := testutil.CollectAndCompare(sink.observations, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
}

func TestPromSinkRecordScheduleRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	sinkIf, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	sink := sinkIf.(*PromSink)

	sched := model.CollectionSchedule{
		Urgent:    []model.Prediction{{BinID: "b1"}},
		Soon:      []model.Prediction{{BinID: "b2"}, {BinID: "b3"}},
		Stable:    []model.Prediction{},
		TotalBins: 3,
	}
	if err := sink.RecordScheduleRun(coremetrics.ScheduleRunEvent{Schedule: sched, Duration: 20 * time.Millisecond}); err != nil {
		t.Fatalf("record error: %v", err)
	}

	expected := `
# HELP binsight_schedule_tier_bins Number of bins per urgency tier in the latest schedule
# TYPE binsight_schedule_tier_bins gauge
binsight_schedule_tier_bins{tier="soon"} 2
binsight_schedule_tier_bins{tier="stable"} 0
binsight_schedule_tier_bins{tier="urgent"} 1
`
	if err := testutil.CollectAndCompare(sink.tiers, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
}

func TestPromSinkRecordPredictions(t *testing.T) {
	reg := prometheus.NewRegistry()
	sinkIf, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	sink := sinkIf.(*PromSink)

	preds := []model.Prediction{
		{BinID: "b1", Confidence: model.ConfidenceHigh},
		{BinID: "b2", Confidence: model.ConfidenceHigh},
		{BinID: "b3", Confidence: model.ConfidenceStable},
	}
	if err := sink.RecordPredictions(preds); err != nil {
		t.Fatalf("record error: %v", err)
	}
	if got := testutil.ToFloat64(sink.predictions.WithLabelValues("high")); got != 2 {
		t.Fatalf("high gauge = %v, want 2", got)
	}
	if got := testutil.ToFloat64(sink.predictions.WithLabelValues("insufficient_data")); got != 0 {
		t.Fatalf("insufficient_data gauge = %v, want 0", got)
	}
}
