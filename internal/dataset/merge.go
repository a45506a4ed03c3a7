package dataset

import (
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	apperrors "railtrend/internal/errors"
	"railtrend/pkg/contracts/domain"
)

// MergeOptions controls how data years are assigned to input sources.
type MergeOptions struct {
	// Years holds explicit per-source years. A single value is
	// broadcast to every source; otherwise values match positionally.
	Years []int
	// DefaultYear is the fallback when no explicit year is given and
	// none can be inferred from the source name. Zero means unset.
	DefaultYear int
}

var yearPattern = regexp.MustCompile(`\d{4}`)

// yearFromName infers a data year from a source's base name: the first
// 4-digit run that falls inside [1900, 2100].
func yearFromName(path string) (int, bool) {
	base := filepath.Base(path)
	for _, match := range yearPattern.FindAllString(base, -1) {
		year, err := strconv.Atoi(match)
		if err == nil && year >= 1900 && year <= 2100 {
			return year, true
		}
	}
	return 0, false
}

// yearStrategy attempts to resolve a year for the source at position i.
type yearStrategy func(i int, path string) (int, bool)

// ResolveYears assigns a data year to every source, evaluating the
// resolution strategies in fixed precedence order: explicit year,
// year embedded in the source name, fallback year. A source no strategy
// can resolve fails the whole run.
func ResolveYears(paths []string, opts MergeOptions) ([]int, error) {
	strategies := []yearStrategy{
		func(i int, _ string) (int, bool) {
			if len(opts.Years) == 1 {
				return opts.Years[0], true
			}
			if i < len(opts.Years) {
				return opts.Years[i], true
			}
			return 0, false
		},
		func(_ int, path string) (int, bool) {
			return yearFromName(path)
		},
		func(_ int, _ string) (int, bool) {
			return opts.DefaultYear, opts.DefaultYear != 0
		},
	}

	years := make([]int, len(paths))
	for i, path := range paths {
		resolved := false
		for _, strategy := range strategies {
			if year, ok := strategy(i, path); ok {
				years[i] = year
				resolved = true
				break
			}
		}
		if !resolved {
			return nil, apperrors.NewYearResolutionError(path)
		}
	}
	return years, nil
}

// LoadMerged loads every source with its resolved year and concatenates
// the long-form rows into one globally ordered dataset: ascending by
// category, then date. The result is one continuous chronological
// series per category regardless of how many files the years span.
func LoadMerged(paths []string, opts MergeOptions) ([]domain.Observation, error) {
	if len(paths) == 0 {
		return nil, apperrors.NewEmptyInputError()
	}

	years, err := ResolveYears(paths, opts)
	if err != nil {
		return nil, err
	}

	var merged []domain.Observation
	for i, path := range paths {
		observations, err := LoadWide(path, years[i])
		if err != nil {
			return nil, err
		}
		merged = append(merged, observations...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Category != merged[j].Category {
			return merged[i].Category < merged[j].Category
		}
		return merged[i].Date.Before(merged[j].Date)
	})

	return merged, nil
}

// GroupByCategory splits long-form rows into per-category series,
// preserving the order categories first appear in the input.
func GroupByCategory(observations []domain.Observation) []domain.Series {
	index := make(map[string]int)
	var series []domain.Series
	for _, obs := range observations {
		i, ok := index[obs.Category]
		if !ok {
			i = len(series)
			index[obs.Category] = i
			series = append(series, domain.Series{Category: obs.Category})
		}
		series[i].Observations = append(series[i].Observations, obs)
	}
	return series
}
