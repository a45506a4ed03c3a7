// Package forecast fits linear trends to per-category passenger series
// and projects them forward.
//
// The fit is a closed-form ordinary least-squares regression of the
// count values against their 1-based chronological rank. Projection
// continues the same line past the observed range, and the first
// projected step is classified against the last actual value using a
// tolerance band of max(0.5% of |last|, 10).
//
// Typical use:
//
//	series := dataset.GroupByCategory(observations)
//	summaries := forecast.BuildSummaries(series, 3)
//
// All functions in this package are pure; callers own logging and IO.
package forecast
