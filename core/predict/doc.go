// Package predict translates a fitted fill trend into an operational
// forecast: time until the bin reaches capacity, fill rate per day and a
// discrete confidence label. All policy knobs (lookback window, freshness
// threshold, confidence cutoffs, trusted horizon) live in Config so
// alternate policies can be exercised without code changes.
package predict
