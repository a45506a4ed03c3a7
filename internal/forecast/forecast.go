package forecast

import (
	"fmt"
	"math"
	"time"

	"railtrend/internal/dataset"
	"railtrend/pkg/contracts/domain"
)

// toleranceFloor is the minimum absolute band around the last actual
// value. With the relative component it avoids false up/down signals on
// near-zero or noisy baselines.
const (
	toleranceFloor    = 10.0
	toleranceRelative = 0.005
)

// Project extends the fitted line beyond the observed range: step k
// projects to a + b*(n+k) for k = 1..horizon. Labels advance
// month-by-month from the last observation's date, wrapping December
// into January of the next year.
func Project(fit domain.TrendFit, n, horizon int, lastDate time.Time) []domain.ForecastPoint {
	if horizon <= 0 {
		return nil
	}

	points := make([]domain.ForecastPoint, 0, horizon)
	year, month := lastDate.Year(), int(lastDate.Month())
	for k := 1; k <= horizon; k++ {
		var label string
		if !lastDate.IsZero() {
			month++
			if month > 12 {
				month = 1
				year++
			}
			label = fmt.Sprintf("%d-%s", year, dataset.ShortMonthLabel(month))
		}
		points = append(points, domain.ForecastPoint{
			StepsAhead: k,
			Value:      fit.At(n + k),
			Label:      label,
		})
	}
	return points
}

// Tolerance returns the classification band for a last actual value.
func Tolerance(lastActual float64) float64 {
	return math.Max(toleranceRelative*math.Abs(lastActual), toleranceFloor)
}

// Classify labels the first projected step against the last actual
// value. The comparisons are strict: a projection landing exactly on
// the tolerance boundary is flat, not up or down. A missing value on
// either side yields unknown.
func Classify(lastActual, predicted float64) domain.Direction {
	if math.IsNaN(lastActual) || math.IsNaN(predicted) {
		return domain.DirectionUnknown
	}

	tol := Tolerance(lastActual)
	switch {
	case predicted > lastActual+tol:
		return domain.DirectionUp
	case predicted < lastActual-tol:
		return domain.DirectionDown
	default:
		return domain.DirectionFlat
	}
}
