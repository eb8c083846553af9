// Package app assembles the engine from configuration: store backend,
// predictor, scheduler, metrics sinks, MQTT ingestion, the REST API and the
// periodic schedule job.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ecotrack/binsight/api/bins"
	"github.com/ecotrack/binsight/config"
	"github.com/ecotrack/binsight/core/predict"
	"github.com/ecotrack/binsight/core/schedule"
	"github.com/ecotrack/binsight/core/service"
	corestore "github.com/ecotrack/binsight/core/store"
	"github.com/ecotrack/binsight/infra/logger"
	"github.com/ecotrack/binsight/infra/metrics"
	"github.com/ecotrack/binsight/infra/mqtt"
	infrastore "github.com/ecotrack/binsight/infra/store"
	"github.com/ecotrack/binsight/internal/eventbus"
	"github.com/ecotrack/binsight/simulator"
)

// Service owns the engine and its host-side plumbing.
type Service struct {
	Core *service.Service

	cfg    *config.Config
	log    logger.Logger
	bus    eventbus.EventBus
	st     corestore.Store
	sqlite *infrastore.SQLiteStore
}

// New creates a Service from the configuration. Network listeners are not
// started here; Run does that.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	var (
		st     corestore.Store
		sqlite *infrastore.SQLiteStore
	)
	switch cfg.Store.Backend {
	case "sqlite":
		s, err := infrastore.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("sqlite store: %w", err)
		}
		st, sqlite = s, s
	default:
		st = corestore.NewMemoryStore()
	}

	predictor, err := predict.New(cfg.Predictor)
	if err != nil {
		return nil, fmt.Errorf("predictor: %w", err)
	}
	scheduler, err := schedule.New(cfg.Scheduler, predictor, logg)
	if err != nil {
		return nil, fmt.Errorf("scheduler: %w", err)
	}
	sink, err := metrics.NewFromConfig(cfg.Metrics)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	bus := eventbus.New()
	core := service.New(st, predictor, scheduler, logg,
		service.WithMetrics(sink),
		service.WithEventBus(bus),
	)
	return &Service{Core: core, cfg: cfg, log: logg, bus: bus, st: st, sqlite: sqlite}, nil
}

// Run starts the configured components and blocks until the context is
// cancelled.
func (s *Service) Run(ctx context.Context) error {
	if s.cfg.Simulator.Enabled {
		if err := s.Seed(ctx); err != nil {
			return err
		}
	}

	if s.cfg.MQTT.Enabled {
		ing, err := mqtt.NewIngestor(s.cfg.MQTT, s.Core)
		if err != nil {
			return fmt.Errorf("mqtt ingestor: %w", err)
		}
		defer ing.Close()
	}

	if s.cfg.Jobs.Enabled {
		c := cron.New()
		if _, err := c.AddFunc(s.cfg.Jobs.ScheduleCron, func() {
			if _, err := s.Core.CollectionSchedule(ctx); err != nil {
				s.log.Errorf("scheduled run: %v", err)
			}
		}); err != nil {
			return fmt.Errorf("schedule job: %w", err)
		}
		c.Start()
		defer c.Stop()
	}

	if s.cfg.HTTP.Enabled {
		srv := &http.Server{Addr: s.cfg.HTTP.Addr, Handler: bins.NewMux(s.Core)}
		go func() {
			s.log.Infof("http api listening on %s", s.cfg.HTTP.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.log.Errorf("http server: %v", err)
			}
		}()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(sctx); err != nil {
				s.log.Errorf("http shutdown: %v", err)
			}
		}()
	}

	if s.cfg.Metrics.PrometheusEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	// One run up front so the first schedule does not wait on the cron tick.
	if _, err := s.Core.CollectionSchedule(ctx); err != nil {
		s.log.Errorf("initial schedule: %v", err)
	}

	<-ctx.Done()
	return nil
}

// Seed populates the store with the synthetic fleet from the simulator
// configuration.
func (s *Service) Seed(ctx context.Context) error {
	target, ok := s.st.(simulator.Store)
	if !ok {
		return fmt.Errorf("store backend %s does not accept seeding", s.cfg.Store.Backend)
	}
	sim := simulator.New(s.cfg.Simulator, s.log)
	if err := sim.Seed(ctx, target, time.Now()); err != nil {
		return fmt.Errorf("simulator seed: %w", err)
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.sqlite != nil {
		return s.sqlite.Close()
	}
	return nil
}
