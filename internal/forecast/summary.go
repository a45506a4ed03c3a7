package forecast

import (
	"sort"

	"railtrend/pkg/contracts/domain"
)

// totalCategory is the aggregate row some source tables carry. When
// present it sorts to the top of the summary.
const totalCategory = "Total"

// BuildSummaries fits a trend and projects a forecast for every series,
// then orders the result rows for reporting: the literal "Total"
// category first if present, everything else ascending by name.
//
// Each category is independent; fits never share state.
func BuildSummaries(series []domain.Series, horizon int) []domain.CategorySummary {
	summaries := make([]domain.CategorySummary, 0, len(series))
	for _, s := range series {
		summaries = append(summaries, summarize(s, horizon))
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		if summaries[i].Category == totalCategory {
			return summaries[j].Category != totalCategory
		}
		if summaries[j].Category == totalCategory {
			return false
		}
		return summaries[i].Category < summaries[j].Category
	})

	return summaries
}

func summarize(s domain.Series, horizon int) domain.CategorySummary {
	values := s.Counts()
	fit := Fit(values)
	points := Project(fit, len(values), horizon, s.LastDate())

	// No next step exists to classify when the horizon is zero.
	direction := domain.DirectionUnknown
	if len(points) > 0 {
		direction = Classify(s.LastCount(), points[0].Value)
	}

	return domain.CategorySummary{
		Category:   s.Category,
		NObs:       len(values),
		LastActual: s.LastCount(),
		Fit:        fit,
		Direction:  direction,
		Forecasts:  points,
	}
}
