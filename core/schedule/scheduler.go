package schedule

import (
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/ecotrack/binsight/core/logger"
	"github.com/ecotrack/binsight/core/model"
	"github.com/ecotrack/binsight/core/predict"
)

// Scheduler runs the fill predictor over a fleet of bins and buckets the
// results by urgency.
type Scheduler struct {
	cfg       Config
	predictor *predict.Predictor
	log       logger.Logger
}

// New returns a Scheduler using the given tiering policy and predictor.
// A nil log disables diagnostics.
func New(cfg Config, predictor *predict.Predictor, log logger.Logger) (*Scheduler, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scheduler config: %w", err)
	}
	if log == nil {
		log = logger.Nop{}
	}
	return &Scheduler{cfg: cfg, predictor: predictor, log: log}, nil
}

// Config returns the active tiering policy.
func (s *Scheduler) Config() Config { return s.cfg }

// Build predicts every bin using its own observation slice and partitions
// the fleet into urgent, soon and stable tiers. A bin whose prediction
// fails is reported as stable with no signal rather than dropped, so the
// three tiers always sum to TotalBins.
func (s *Scheduler) Build(bins []model.Bin, observationsByBin map[string][]model.Observation, now time.Time) model.CollectionSchedule {
	preds := make([]model.Prediction, len(bins))

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.cfg.Workers)
	for i, bin := range bins {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, bin model.Bin) {
			defer wg.Done()
			defer func() { <-sem }()
			pred, err := s.predictor.Predict(bin, observationsByBin[bin.ID], now)
			if err != nil {
				s.log.Warnf("bin %s: prediction failed: %v", bin.ID, err)
				pred = model.Prediction{
					BinID:            bin.ID,
					CurrentFillLevel: bin.CurrentFillLevel,
					Confidence:       model.ConfidenceInsufficientData,
					Reason:           err.Error(),
				}
			}
			preds[i] = pred
		}(i, bin)
	}
	wg.Wait()

	return s.Partition(preds, now)
}

// Partition buckets already-computed predictions into tiers. Membership is
// mutually exclusive and exhaustive; the urgent and soon upper bounds are
// exclusive, so a bin at exactly UrgentHours lands in soon and one at
// exactly SoonHours lands in stable.
func (s *Scheduler) Partition(preds []model.Prediction, now time.Time) model.CollectionSchedule {
	sched := model.CollectionSchedule{
		Urgent:    []model.Prediction{},
		Soon:      []model.Prediction{},
		Stable:    []model.Prediction{},
		TotalBins: len(preds),
		Generated: now,
	}
	for _, p := range preds {
		switch {
		case p.HasForecast() && *p.HoursUntilFull < s.cfg.UrgentHours:
			sched.Urgent = append(sched.Urgent, p)
		case p.HasForecast() && *p.HoursUntilFull < s.cfg.SoonHours:
			sched.Soon = append(sched.Soon, p)
		default:
			sched.Stable = append(sched.Stable, p)
		}
	}

	sortTier(sched.Urgent)
	sortTier(sched.Soon)
	sortTier(sched.Stable)
	return sched
}

// sortTier orders predictions by ascending hours-until-full. Bins with no
// forecast sort as +Inf, placing them after any ">7 day" bins sharing the
// stable tier.
func sortTier(tier []model.Prediction) {
	hours := func(p model.Prediction) float64 {
		if p.HoursUntilFull == nil {
			return math.Inf(1)
		}
		return *p.HoursUntilFull
	}
	sort.SliceStable(tier, func(i, j int) bool { return hours(tier[i]) < hours(tier[j]) })
}
