package predict

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ecotrack/binsight/core/model"
	"github.com/ecotrack/binsight/core/trend"
)

const (
	msPerHour = 3600 * 1000.0
	msPerDay  = 24 * msPerHour
)

// Predictor computes fill forecasts for individual bins. It is stateless:
// every call reads only its arguments.
type Predictor struct {
	cfg Config
}

// New returns a Predictor using the given policy. Zero fields in cfg are
// replaced by the production defaults.
func New(cfg Config) (*Predictor, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("predictor config: %w", err)
	}
	return &Predictor{cfg: cfg}, nil
}

// Config returns the active policy.
func (p *Predictor) Config() Config { return p.cfg }

// Predict forecasts when the bin will reach capacity based on its
// observations inside the lookback window. The returned Prediction is
// always well formed: data problems the series can legitimately have
// (too few points, identical timestamps, flat or declining trend) are
// folded into the confidence label, never returned as errors. An error is
// returned only for malformed input such as a non-finite fill level.
func (p *Predictor) Predict(bin model.Bin, observations []model.Observation, now time.Time) (model.Prediction, error) {
	if err := bin.Validate(); err != nil {
		return model.Prediction{}, err
	}

	pred := model.Prediction{
		BinID:            bin.ID,
		CurrentFillLevel: bin.CurrentFillLevel,
		Confidence:       model.ConfidenceInsufficientData,
	}

	cutoff := now.Add(-p.cfg.Lookback())
	recent := make([]model.Observation, 0, len(observations))
	for _, o := range observations {
		if o.Timestamp.Before(cutoff) {
			continue
		}
		if math.IsNaN(o.FillLevel) || math.IsInf(o.FillLevel, 0) {
			return model.Prediction{}, fmt.Errorf("%w: bin %s: non-finite fill level", model.ErrInvalidObservation, bin.ID)
		}
		recent = append(recent, o)
	}
	if len(recent) < 2 {
		pred.Reason = "not enough recent observations to fit a trend"
		return pred, nil
	}

	sort.Slice(recent, func(i, j int) bool { return recent[i].Timestamp.Before(recent[j].Timestamp) })

	// Rebase the time axis on the oldest point. Epoch milliseconds squared
	// exhaust float64 precision; the rebased axis keeps the fit exact.
	base := recent[0].Timestamp
	points := make([]trend.Point, 0, len(recent)+1)
	for _, o := range recent {
		points = append(points, trend.Point{
			X: float64(o.Timestamp.Sub(base).Milliseconds()),
			Y: o.FillLevel,
		})
	}

	// When the newest observation is stale, anchor the fit to present state
	// with a synthetic (now, currentFillLevel) point. The threshold is
	// deliberate policy: it trades a small bias for responsiveness when
	// fresh data is sparse.
	if now.Sub(recent[len(recent)-1].Timestamp) > p.cfg.Freshness() {
		points = append(points, trend.Point{
			X: float64(now.Sub(base).Milliseconds()),
			Y: bin.CurrentFillLevel,
		})
	}

	fit, err := trend.Estimate(points)
	if err != nil {
		if errors.Is(err, trend.ErrInsufficientData) || errors.Is(err, trend.ErrDegenerateInput) {
			pred.Reason = "observations carry no usable trend signal"
			return pred, nil
		}
		return model.Prediction{}, err
	}

	rsq := fit.RSquared
	pred.RSquared = &rsq
	pred.ObservationCount = fit.PointCount

	if fit.Slope <= 0 {
		pred.Confidence = model.ConfidenceStable
		zero := 0.0
		pred.FillRatePerDay = &zero
		pred.Reason = "fill level is flat or declining"
		return pred, nil
	}

	nowMs := float64(now.Sub(base).Milliseconds())
	msUntilFull := (100-fit.Intercept)/fit.Slope - nowMs
	hours := msUntilFull / msPerHour
	days := hours / 24
	rate := math.Round(fit.Slope*msPerDay*100) / 100

	pred.FillRatePerDay = &rate
	pred.HoursUntilFull = &hours
	pred.DaysUntilFull = &days

	switch {
	case rsq > p.cfg.HighRSquared:
		pred.Confidence = model.ConfidenceHigh
	case rsq > p.cfg.MediumRSquared:
		pred.Confidence = model.ConfidenceMedium
	default:
		pred.Confidence = model.ConfidenceLow
	}

	if days < 0 || days > p.cfg.HorizonDays {
		// Out of the trusted horizon: the date is suppressed but the rate
		// fields stay populated for transparency. Negative horizons keep
		// their computed values; callers needing strict validity must check
		// the sign themselves.
		pred.Confidence = model.ConfidenceLow
		pred.Reason = "projected full time outside the trusted horizon"
		return pred, nil
	}

	full := now.Add(time.Duration(msUntilFull * float64(time.Millisecond)))
	pred.PredictedFullTime = &full
	return pred, nil
}
