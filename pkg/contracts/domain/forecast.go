package domain

import (
	"math"
	"time"
)

// Observation is a single monthly passenger count for one category.
type Observation struct {
	Category   string    `json:"category" validate:"required"`
	Month      string    `json:"month"`
	MonthIndex int       `json:"month_index" validate:"min=1,max=12"`
	Date       time.Time `json:"date"`
	Count      float64   `json:"count" validate:"min=0"`
}

// IsValid reports whether the observation carries a usable data point.
func (o Observation) IsValid() bool {
	return o.Category != "" && o.MonthIndex >= 1 && o.MonthIndex <= 12 &&
		!o.Date.IsZero() && !math.IsNaN(o.Count) && o.Count >= 0
}

// Series is one category's observations in chronological order.
// After merging, dates are strictly increasing across years.
type Series struct {
	Category     string        `json:"category"`
	Observations []Observation `json:"observations"`
}

// Len returns the number of observations in the series.
func (s Series) Len() int {
	return len(s.Observations)
}

// Counts returns the count values in chronological order.
func (s Series) Counts() []float64 {
	values := make([]float64, len(s.Observations))
	for i, obs := range s.Observations {
		values[i] = obs.Count
	}
	return values
}

// LastDate returns the date of the final observation, or the zero time
// for an empty series.
func (s Series) LastDate() time.Time {
	if len(s.Observations) == 0 {
		return time.Time{}
	}
	return s.Observations[len(s.Observations)-1].Date
}

// LastCount returns the final observed count. NaN marks an empty series
// so downstream classification can report an unknown direction.
func (s Series) LastCount() float64 {
	if len(s.Observations) == 0 {
		return math.NaN()
	}
	return s.Observations[len(s.Observations)-1].Count
}

// TrendFit holds the ordinary least-squares line fitted to a series.
// The independent variable is the observation rank t = 1..n, not the
// calendar month, so merged multi-year series stay on one continuous axis.
type TrendFit struct {
	Intercept float64 `json:"intercept"`
	Slope     float64 `json:"slope"`
	R2        float64 `json:"r2"`
}

// At evaluates the fitted line at sequential index t.
func (f TrendFit) At(t int) float64 {
	return f.Intercept + f.Slope*float64(t)
}

// ForecastPoint is one projected future month.
type ForecastPoint struct {
	StepsAhead int     `json:"steps_ahead" validate:"min=1"`
	Value      float64 `json:"value"`
	Label      string  `json:"label"`
}

// Direction classifies the first projected step against the last actual.
type Direction string

const (
	DirectionUp      Direction = "up"
	DirectionDown    Direction = "down"
	DirectionFlat    Direction = "flat"
	DirectionUnknown Direction = "unknown"
)

// CategorySummary is the per-category result row: fit statistics, the
// projected points, and the direction label. Built once per run from a
// completed series and immutable afterwards.
type CategorySummary struct {
	Category   string          `json:"category"`
	NObs       int             `json:"n_obs"`
	LastActual float64         `json:"last_month_actual"`
	Fit        TrendFit        `json:"fit"`
	Direction  Direction       `json:"direction"`
	Forecasts  []ForecastPoint `json:"forecasts"`
}

// HasLastActual reports whether the summary has an observed final value.
func (c CategorySummary) HasLastActual() bool {
	return c.NObs > 0 && !math.IsNaN(c.LastActual)
}
