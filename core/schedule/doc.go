// Package schedule partitions per-bin fill forecasts into collection
// urgency tiers for collection planning. Predictions for independent bins are
// computed on a bounded worker pool; each bin reads only its own
// observation slice so ordering never affects correctness.
package schedule
