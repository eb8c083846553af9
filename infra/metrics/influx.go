package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/ecotrack/binsight/core/metrics"
	"github.com/ecotrack/binsight/core/model"
	"github.com/ecotrack/binsight/infra/logger"
)

// InfluxSink writes engine events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a
// NopSink when the health check fails, so an unreachable instance never
// blocks the engine.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.Sink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// Close shuts the underlying client down.
func (s *InfluxSink) Close() { s.client.Close() }

// RecordObservation writes the observation as a fill_level point.
func (s *InfluxSink) RecordObservation(ev coremetrics.ObservationEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("fill_level").
		AddTag("bin_id", ev.Observation.BinID).
		AddTag("source", ev.Observation.Source.String()).
		AddField("level", round2(ev.Observation.FillLevel)).
		SetTime(ev.Observation.Timestamp)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordPredictions writes one point per bin with the forecast fields that
// are populated.
func (s *InfluxSink) RecordPredictions(preds []model.Prediction) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	now := time.Now()
	for _, pred := range preds {
		p := write.NewPointWithMeasurement("bin_prediction").
			AddTag("bin_id", pred.BinID).
			AddTag("confidence", pred.Confidence.String()).
			AddField("current_fill", round2(pred.CurrentFillLevel)).
			SetTime(now)
		if pred.FillRatePerDay != nil {
			p.AddField("fill_rate_per_day", round2(*pred.FillRatePerDay))
		}
		if pred.HoursUntilFull != nil {
			p.AddField("hours_until_full", round2(*pred.HoursUntilFull))
		}
		if pred.RSquared != nil {
			p.AddField("r_squared", round2(*pred.RSquared))
		}
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// RecordScheduleRun writes the tier sizes and run duration.
func (s *InfluxSink) RecordScheduleRun(ev coremetrics.ScheduleRunEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("schedule_run").
		AddTag("component", "collection_scheduler").
		AddField("urgent", len(ev.Schedule.Urgent)).
		AddField("soon", len(ev.Schedule.Soon)).
		AddField("stable", len(ev.Schedule.Stable)).
		AddField("total_bins", ev.Schedule.TotalBins).
		AddField("duration_ms", ev.Duration.Milliseconds()).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}
