package forecast

import "railtrend/pkg/contracts/domain"

// Fit computes the ordinary least-squares line count ~ a + b*t over a
// series' values, with t = 1..n sequential rank. Using the rank instead
// of the calendar month keeps the regression axis contiguous across
// merged years, even when months are missing.
//
// Degenerate inputs fall back to a flat line: an empty series fits
// (0, 0) and a single observation fits (value, 0), both with r² = 1.
// A series with zero variance also reports r² = 1 since the total sum
// of squares about the mean is zero.
func Fit(values []float64) domain.TrendFit {
	n := len(values)
	switch n {
	case 0:
		return domain.TrendFit{Intercept: 0, Slope: 0, R2: 1}
	case 1:
		return domain.TrendFit{Intercept: values[0], Slope: 0, R2: 1}
	}

	meanT := float64(n+1) / 2
	meanY := mean(values)

	var sxx, sxy float64
	for i, y := range values {
		t := float64(i + 1)
		sxx += (t - meanT) * (t - meanT)
		sxy += (t - meanT) * (y - meanY)
	}

	slope := sxy / sxx
	intercept := meanY - slope*meanT

	var ssRes, ssTot float64
	for i, y := range values {
		fitted := intercept + slope*float64(i+1)
		ssRes += (y - fitted) * (y - fitted)
		ssTot += (y - meanY) * (y - meanY)
	}

	r2 := 1.0
	if ssTot > 0 {
		r2 = 1 - ssRes/ssTot
	}

	return domain.TrendFit{Intercept: intercept, Slope: slope, R2: r2}
}

// Fitted evaluates the fitted line over the observed range t = 1..n.
func Fitted(fit domain.TrendFit, n int) []float64 {
	values := make([]float64, n)
	for i := range values {
		values[i] = fit.At(i + 1)
	}
	return values
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
