// Package trend fits straight-line models to fill-level time series. It is
// the lowest layer of the prediction engine: pure functions over
// (time, fill level) pairs with no I/O and no shared state.
package trend
