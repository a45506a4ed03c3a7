package forecast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFit(t *testing.T) {
	tests := []struct {
		name          string
		values        []float64
		wantIntercept float64
		wantSlope     float64
		wantR2        float64
	}{
		{
			name:          "empty series is a degenerate flat fit",
			values:        nil,
			wantIntercept: 0,
			wantSlope:     0,
			wantR2:        1,
		},
		{
			name:          "single observation fits a flat line through it",
			values:        []float64{100},
			wantIntercept: 100,
			wantSlope:     0,
			wantR2:        1,
		},
		{
			name:          "perfect linear series",
			values:        []float64{100, 110, 120, 130},
			wantIntercept: 90,
			wantSlope:     10,
			wantR2:        1,
		},
		{
			name:          "zero variance series",
			values:        []float64{50, 50, 50, 50, 50},
			wantIntercept: 50,
			wantSlope:     0,
			wantR2:        1,
		},
		{
			name:          "decreasing series",
			values:        []float64{300, 200, 100},
			wantIntercept: 400,
			wantSlope:     -100,
			wantR2:        1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fit := Fit(tt.values)

			assert.InDelta(t, tt.wantIntercept, fit.Intercept, 1e-9)
			assert.InDelta(t, tt.wantSlope, fit.Slope, 1e-9)
			assert.InDelta(t, tt.wantR2, fit.R2, 1e-9)
		})
	}
}

func TestFit_R2Bounds(t *testing.T) {
	// A noisy series must still land inside [0, 1].
	noisy := []float64{120, 80, 150, 60, 140, 90, 170, 50}

	fit := Fit(noisy)

	assert.GreaterOrEqual(t, fit.R2, 0.0)
	assert.LessOrEqual(t, fit.R2, 1.0)
}

func TestFit_ResidualsAreMinimized(t *testing.T) {
	values := []float64{105, 98, 122, 131, 119, 144}
	fit := Fit(values)

	ssRes := func(a, b float64) float64 {
		var sum float64
		for i, y := range values {
			resid := y - (a + b*float64(i+1))
			sum += resid * resid
		}
		return sum
	}

	base := ssRes(fit.Intercept, fit.Slope)
	for _, delta := range []float64{-1, -0.1, 0.1, 1} {
		assert.LessOrEqual(t, base, ssRes(fit.Intercept+delta, fit.Slope))
		assert.LessOrEqual(t, base, ssRes(fit.Intercept, fit.Slope+delta))
	}
}

func TestFitted(t *testing.T) {
	fit := Fit([]float64{100, 110, 120, 130})

	fitted := Fitted(fit, 4)

	require.Len(t, fitted, 4)
	assert.InDelta(t, 100, fitted[0], 1e-9)
	assert.InDelta(t, 130, fitted[3], 1e-9)
}
