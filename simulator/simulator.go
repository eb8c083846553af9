// Package simulator seeds a store with a synthetic bin fleet and a plausible
// fill history, so the prediction engine can be exercised without live
// sensors. Generation is deterministic for a given seed.
package simulator

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/ecotrack/binsight/core/logger"
	"github.com/ecotrack/binsight/core/model"
)

// Store is the write surface the simulator needs.
type Store interface {
	PutBin(ctx context.Context, bin model.Bin) error
	Append(ctx context.Context, obs model.Observation) error
}

// Simulator generates bins bin0001..binNNNN, each with a constant fill rate
// drawn from [MinRate, MaxRate] plus uniform jitter.
type Simulator struct {
	cfg Config
	rng *rand.Rand
	log logger.Logger
}

func New(cfg Config, log logger.Logger) *Simulator {
	if log == nil {
		log = logger.Nop{}
	}
	return &Simulator{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed)), log: log}
}

// Seed writes the generated fleet and its history ending at now.
func (s *Simulator) Seed(ctx context.Context, st Store, now time.Time) error {
	interval := time.Duration(s.cfg.IntervalHours * float64(time.Hour))
	horizon := time.Duration(s.cfg.Days) * 24 * time.Hour
	var written int
	for i := 0; i < s.cfg.Bins; i++ {
		id := fmt.Sprintf("bin%04d", i+1)
		rate := s.cfg.MinRate + s.rng.Float64()*(s.cfg.MaxRate-s.cfg.MinRate)
		base := s.rng.Float64() * 20

		var fill float64
		for ts := now.Add(-horizon); !ts.After(now); ts = ts.Add(interval) {
			elapsedDays := ts.Sub(now.Add(-horizon)).Hours() / 24
			fill = clamp(base + rate*elapsedDays + s.jitter())
			obs := model.Observation{
				ID:        uuid.NewString(),
				BinID:     id,
				FillLevel: fill,
				Timestamp: ts,
				Source:    model.SourceSimulation,
			}
			if err := st.Append(ctx, obs); err != nil {
				return fmt.Errorf("append observation for %s: %w", id, err)
			}
			written++
		}
		if err := st.PutBin(ctx, model.Bin{ID: id, CurrentFillLevel: fill}); err != nil {
			return fmt.Errorf("put bin %s: %w", id, err)
		}
	}
	s.log.Infof("simulator seeded %d bins, %d observations", s.cfg.Bins, written)
	return nil
}

func (s *Simulator) jitter() float64 {
	if s.cfg.Noise == 0 {
		return 0
	}
	return (s.rng.Float64()*2 - 1) * s.cfg.Noise
}

func clamp(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}
