package forecast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"railtrend/pkg/contracts/domain"
)

func monthlySeries(category string, year int, counts ...float64) domain.Series {
	s := domain.Series{Category: category}
	for i, count := range counts {
		s.Observations = append(s.Observations, domain.Observation{
			Category:   category,
			MonthIndex: i + 1,
			Date:       time.Date(year, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC),
			Count:      count,
		})
	}
	return s
}

func TestBuildSummaries_ScenarioLinearSeries(t *testing.T) {
	// [100, 110, 120, 130] over Jan..Apr: slope 10, intercept 90,
	// one-step projection 140. That lands exactly on 130+tol where
	// tol = max(0.65, 10) = 10, so the direction is flat.
	series := []domain.Series{monthlySeries("Ekonomi", 2024, 100, 110, 120, 130)}

	summaries := BuildSummaries(series, 1)

	require.Len(t, summaries, 1)
	got := summaries[0]
	assert.Equal(t, 4, got.NObs)
	assert.InDelta(t, 130, got.LastActual, 1e-9)
	assert.InDelta(t, 10, got.Fit.Slope, 1e-9)
	assert.InDelta(t, 90, got.Fit.Intercept, 1e-9)
	require.Len(t, got.Forecasts, 1)
	assert.InDelta(t, 140, got.Forecasts[0].Value, 1e-9)
	assert.Equal(t, "2024-Mei", got.Forecasts[0].Label)
	assert.Equal(t, domain.DirectionFlat, got.Direction)
}

func TestBuildSummaries_SingleObservation(t *testing.T) {
	// One data point: flat line through it, projections repeat the
	// value, and the prediction is inside the tolerance band so the
	// direction is flat rather than unknown.
	series := []domain.Series{monthlySeries("Lokal", 2024, 100)}

	summaries := BuildSummaries(series, 2)

	require.Len(t, summaries, 1)
	got := summaries[0]
	assert.Equal(t, 1, got.NObs)
	assert.InDelta(t, 100, got.Fit.Intercept, 1e-9)
	assert.Zero(t, got.Fit.Slope)
	assert.InDelta(t, 1, got.Fit.R2, 1e-9)
	require.Len(t, got.Forecasts, 2)
	assert.InDelta(t, 100, got.Forecasts[0].Value, 1e-9)
	assert.InDelta(t, 100, got.Forecasts[1].Value, 1e-9)
	assert.Equal(t, domain.DirectionFlat, got.Direction)
}

func TestBuildSummaries_ZeroHorizon(t *testing.T) {
	series := []domain.Series{monthlySeries("Ekonomi", 2024, 100, 120)}

	summaries := BuildSummaries(series, 0)

	require.Len(t, summaries, 1)
	assert.Empty(t, summaries[0].Forecasts)
	assert.Equal(t, domain.DirectionUnknown, summaries[0].Direction)
}

func TestBuildSummaries_Ordering(t *testing.T) {
	tests := []struct {
		name       string
		categories []string
		want       []string
	}{
		{
			name:       "total sorts to the top",
			categories: []string{"Lokal", "Total", "Antarkota", "Bandara"},
			want:       []string{"Total", "Antarkota", "Bandara", "Lokal"},
		},
		{
			name:       "no total means plain alphabetical",
			categories: []string{"Lokal", "Antarkota", "Bandara"},
			want:       []string{"Antarkota", "Bandara", "Lokal"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var series []domain.Series
			for _, c := range tt.categories {
				series = append(series, monthlySeries(c, 2024, 10, 20, 30))
			}

			summaries := BuildSummaries(series, 1)

			require.Len(t, summaries, len(tt.want))
			for i, want := range tt.want {
				assert.Equal(t, want, summaries[i].Category)
			}
		})
	}
}

func TestBuildSummaries_EmptySeriesDirectionUnknown(t *testing.T) {
	// A category whose every cell failed to parse still yields a row,
	// with no meaningful last actual.
	series := []domain.Series{{Category: "Ekonomi"}}

	summaries := BuildSummaries(series, 3)

	require.Len(t, summaries, 1)
	got := summaries[0]
	assert.Equal(t, 0, got.NObs)
	assert.False(t, got.HasLastActual())
	assert.Equal(t, domain.DirectionUnknown, got.Direction)
}
