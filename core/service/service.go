// Package service exposes the prediction engine's operations to whatever
// hosts it: HTTP handlers, the CLI or a cron-style job. It owns boundary
// validation and batches store reads so a full-fleet schedule run issues a
// constant number of queries regardless of fleet size.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ecotrack/binsight/core/events"
	"github.com/ecotrack/binsight/core/logger"
	"github.com/ecotrack/binsight/core/metrics"
	"github.com/ecotrack/binsight/core/model"
	"github.com/ecotrack/binsight/core/predict"
	"github.com/ecotrack/binsight/core/schedule"
	"github.com/ecotrack/binsight/core/store"
	"github.com/ecotrack/binsight/internal/eventbus"
)

// Service coordinates the store, predictor and scheduler. It holds no
// mutable state of its own; every operation reads fresh data.
type Service struct {
	store     store.Store
	predictor *predict.Predictor
	scheduler *schedule.Scheduler
	sink      metrics.Sink
	bus       eventbus.EventBus
	log       logger.Logger
	now       func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithClock overrides the time source, used by tests for determinism.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithMetrics attaches a metrics sink.
func WithMetrics(sink metrics.Sink) Option {
	return func(s *Service) { s.sink = sink }
}

// WithEventBus attaches an event bus for ObservationRecorded and
// ScheduleComputed events.
func WithEventBus(bus eventbus.EventBus) Option {
	return func(s *Service) { s.bus = bus }
}

// New creates a Service. A nil log disables diagnostics.
func New(st store.Store, predictor *predict.Predictor, scheduler *schedule.Scheduler, log logger.Logger, opts ...Option) *Service {
	if log == nil {
		log = logger.Nop{}
	}
	s := &Service{
		store:     st,
		predictor: predictor,
		scheduler: scheduler,
		sink:      metrics.NopSink{},
		log:       log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PredictOne computes the fill forecast for a single bin. It returns
// store.ErrBinNotFound when the bin does not exist.
func (s *Service) PredictOne(ctx context.Context, binID string) (model.Prediction, error) {
	bin, err := s.store.GetBin(ctx, binID)
	if err != nil {
		return model.Prediction{}, fmt.Errorf("bin %s: %w", binID, err)
	}
	now := s.now()
	obs, err := s.store.Observations(ctx, binID, now.Add(-s.predictor.Config().Lookback()))
	if err != nil {
		return model.Prediction{}, fmt.Errorf("observations for bin %s: %w", binID, err)
	}
	return s.predictor.Predict(bin, obs, now)
}

// PredictAll computes forecasts for every known bin. A single bin's failure
// does not abort the batch: the failed bin is reported with
// insufficient_data confidence and a reason.
func (s *Service) PredictAll(ctx context.Context) ([]model.Prediction, error) {
	bins, byBin, now, err := s.fetchFleet(ctx)
	if err != nil {
		return nil, err
	}
	preds := make([]model.Prediction, 0, len(bins))
	for _, bin := range bins {
		pred, err := s.predictor.Predict(bin, byBin[bin.ID], now)
		if err != nil {
			s.log.Warnf("bin %s: prediction failed: %v", bin.ID, err)
			pred = model.Prediction{
				BinID:            bin.ID,
				CurrentFillLevel: bin.CurrentFillLevel,
				Confidence:       model.ConfidenceInsufficientData,
				Reason:           err.Error(),
			}
		}
		preds = append(preds, pred)
	}
	if err := s.sink.RecordPredictions(preds); err != nil {
		s.log.Warnf("metrics: record predictions: %v", err)
	}
	return preds, nil
}

// CollectionSchedule partitions the whole fleet into urgency tiers.
func (s *Service) CollectionSchedule(ctx context.Context) (model.CollectionSchedule, error) {
	bins, byBin, now, err := s.fetchFleet(ctx)
	if err != nil {
		return model.CollectionSchedule{}, err
	}
	start := time.Now()
	sched := s.scheduler.Build(bins, byBin, now)
	elapsed := time.Since(start)

	if err := s.sink.RecordScheduleRun(metrics.ScheduleRunEvent{Schedule: sched, Duration: elapsed, Time: now}); err != nil {
		s.log.Warnf("metrics: record schedule run: %v", err)
	}
	if s.bus != nil {
		s.bus.Publish(events.ScheduleComputed{Schedule: sched, Duration: elapsed})
	}
	s.log.Debugw("schedule computed", map[string]any{
		"total":  sched.TotalBins,
		"urgent": len(sched.Urgent),
		"soon":   len(sched.Soon),
		"stable": len(sched.Stable),
	})
	return sched, nil
}

// RecordFillLevel validates and appends a fill-level observation, then
// updates the bin's current state. The observation timestamp is the service
// clock; callers recording historical data go through the store directly.
func (s *Service) RecordFillLevel(ctx context.Context, binID string, fillLevel float64, source model.Source) (model.Observation, error) {
	if _, err := s.store.GetBin(ctx, binID); err != nil {
		return model.Observation{}, fmt.Errorf("bin %s: %w", binID, err)
	}
	obs := model.Observation{
		ID:        uuid.NewString(),
		BinID:     binID,
		FillLevel: fillLevel,
		Timestamp: s.now(),
		Source:    source,
	}
	if err := obs.Validate(); err != nil {
		return model.Observation{}, err
	}
	if err := s.store.Append(ctx, obs); err != nil {
		return model.Observation{}, fmt.Errorf("append observation: %w", err)
	}
	if err := s.store.SetFillLevel(ctx, binID, fillLevel); err != nil {
		return model.Observation{}, fmt.Errorf("update bin %s: %w", binID, err)
	}
	if err := s.sink.RecordObservation(metrics.ObservationEvent{Observation: obs, Time: obs.Timestamp}); err != nil {
		s.log.Warnf("metrics: record observation: %v", err)
	}
	if s.bus != nil {
		s.bus.Publish(events.ObservationRecorded{Observation: obs})
	}
	return obs, nil
}

// fetchFleet loads all bins and their recent observations in two reads,
// never one query per bin.
func (s *Service) fetchFleet(ctx context.Context) ([]model.Bin, map[string][]model.Observation, time.Time, error) {
	now := s.now()
	bins, err := s.store.ListBins(ctx)
	if err != nil {
		return nil, nil, now, fmt.Errorf("list bins: %w", err)
	}
	byBin, err := s.store.ObservationsByBin(ctx, now.Add(-s.predictor.Config().Lookback()))
	if err != nil {
		return nil, nil, now, fmt.Errorf("batch observations: %w", err)
	}
	return bins, byBin, now, nil
}
