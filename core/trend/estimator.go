package trend

import (
	"errors"

	"gonum.org/v1/gonum/stat"
)

// ErrInsufficientData indicates fewer than two points were supplied.
var ErrInsufficientData = errors.New("trend: need at least two points")

// ErrDegenerateInput indicates all time values are identical, leaving the
// slope undefined.
var ErrDegenerateInput = errors.New("trend: zero time variance")

// Fit is the result of an ordinary least-squares regression of fill level
// against time. Slope is expressed per unit of the caller's time axis;
// callers using milliseconds get percent-per-millisecond.
type Fit struct {
	Slope      float64
	Intercept  float64
	RSquared   float64
	PointCount int
}

// Point is a single (time, fill level) sample. X is a numeric timestamp on
// whatever axis the caller chose; the axis unit determines the slope unit.
type Point struct {
	X float64
	Y float64
}

// Estimate fits fillLevel = Slope*x + Intercept over the given points.
// It returns ErrInsufficientData for fewer than two points and
// ErrDegenerateInput when every x is identical. When every y is identical
// the fit has zero variance to explain and R² is defined as 1.
func Estimate(points []Point) (Fit, error) {
	if len(points) < 2 {
		return Fit{}, ErrInsufficientData
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.X
		ys[i] = p.Y
	}

	if stat.Variance(xs, nil) == 0 {
		return Fit{}, ErrDegenerateInput
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)

	rsq := 1.0
	if stat.Variance(ys, nil) != 0 {
		rsq = stat.RSquared(xs, ys, nil, intercept, slope)
	}

	return Fit{
		Slope:      slope,
		Intercept:  intercept,
		RSquared:   rsq,
		PointCount: len(points),
	}, nil
}
