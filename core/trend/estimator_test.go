package trend

import (
	"errors"
	"math"
	"testing"
)

const dayMs = 24 * 60 * 60 * 1000.0

func TestEstimatePerfectLine(t *testing.T) {
	pts := []Point{{X: 0, Y: 0}, {X: dayMs, Y: 10}, {X: 2 * dayMs, Y: 20}}
	fit, err := Estimate(pts)
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if math.Abs(fit.Slope*dayMs-10) > 1e-9 {
		t.Fatalf("slope per day = %v, want 10", fit.Slope*dayMs)
	}
	if math.Abs(fit.Intercept) > 1e-9 {
		t.Fatalf("intercept = %v, want 0", fit.Intercept)
	}
	if math.Abs(fit.RSquared-1) > 1e-12 {
		t.Fatalf("r² = %v, want 1", fit.RSquared)
	}
	if fit.PointCount != 3 {
		t.Fatalf("point count = %d", fit.PointCount)
	}
}

func TestEstimateNoisyFit(t *testing.T) {
	pts := []Point{
		{X: 0, Y: 10},
		{X: dayMs, Y: 22},
		{X: 2 * dayMs, Y: 28},
		{X: 3 * dayMs, Y: 41},
	}
	fit, err := Estimate(pts)
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if fit.Slope <= 0 {
		t.Fatalf("expected positive slope, got %v", fit.Slope)
	}
	if fit.RSquared <= 0.9 || fit.RSquared >= 1 {
		t.Fatalf("r² = %v, expected strong but imperfect fit", fit.RSquared)
	}
}

func TestEstimateInsufficientData(t *testing.T) {
	if _, err := Estimate(nil); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
	if _, err := Estimate([]Point{{X: 0, Y: 50}}); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestEstimateDegenerateTimeAxis(t *testing.T) {
	pts := []Point{{X: 1000, Y: 10}, {X: 1000, Y: 20}, {X: 1000, Y: 30}}
	if _, err := Estimate(pts); !errors.Is(err, ErrDegenerateInput) {
		t.Fatalf("expected ErrDegenerateInput, got %v", err)
	}
}

func TestEstimateConstantLevels(t *testing.T) {
	pts := []Point{{X: 0, Y: 50}, {X: dayMs, Y: 50}, {X: 2 * dayMs, Y: 50}}
	fit, err := Estimate(pts)
	if err != nil {
		t.Fatalf("estimate: %v", err)
	}
	if math.Abs(fit.Slope) > 1e-12 {
		t.Fatalf("slope = %v, want 0", fit.Slope)
	}
	if fit.RSquared != 1 {
		t.Fatalf("r² = %v, want 1 for zero variance", fit.RSquared)
	}
	if math.Abs(fit.Intercept-50) > 1e-9 {
		t.Fatalf("intercept = %v, want 50", fit.Intercept)
	}
}
