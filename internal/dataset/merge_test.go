package dataset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "railtrend/internal/errors"
)

func TestResolveYears(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
		opts  MergeOptions
		want  []int
	}{
		{
			name:  "single explicit year broadcasts",
			paths: []string{"a.csv", "b.csv", "c.csv"},
			opts:  MergeOptions{Years: []int{2022}},
			want:  []int{2022, 2022, 2022},
		},
		{
			name:  "positional explicit years",
			paths: []string{"a.csv", "b.csv"},
			opts:  MergeOptions{Years: []int{2022, 2023}},
			want:  []int{2022, 2023},
		},
		{
			name:  "year inferred from name",
			paths: []string{"Jumlah Penumpang Kereta Api, 2024.csv"},
			opts:  MergeOptions{},
			want:  []int{2024},
		},
		{
			name:  "fallback year when nothing else matches",
			paths: []string{"penumpang.csv"},
			opts:  MergeOptions{DefaultYear: 2021},
			want:  []int{2021},
		},
		{
			name:  "explicit beats inferred beats fallback",
			paths: []string{"data 2019.csv", "data 2020.csv", "plain.csv"},
			opts:  MergeOptions{Years: []int{2024, 2025}, DefaultYear: 2021},
			want:  []int{2024, 2025, 2021},
		},
		{
			name:  "out of range digits are not a year",
			paths: []string{"report 2525.csv"},
			opts:  MergeOptions{DefaultYear: 2020},
			want:  []int{2020},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveYears(tt.paths, tt.opts)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveYears_Unresolvable(t *testing.T) {
	_, err := ResolveYears([]string{"2024.csv", "penumpang.csv"}, MergeOptions{})

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeYearUnresolved, apperrors.CodeOf(err))
	assert.Contains(t, err.Error(), "penumpang.csv")
}

func TestLoadMerged_EmptyInput(t *testing.T) {
	_, err := LoadMerged(nil, MergeOptions{})

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeEmptyInput, apperrors.CodeOf(err))
}

func TestLoadMerged_DisjointYears(t *testing.T) {
	first := writeCSV(t, "penumpang 2023.csv",
		"Jenis,Januari,Februari,Desember\n"+
			"Ekonomi,100,110,120\n")
	second := writeCSV(t, "penumpang 2024.csv",
		"Jenis,Januari,Februari\n"+
			"Ekonomi,130,140\n")

	merged, err := LoadMerged([]string{first, second}, MergeOptions{})
	require.NoError(t, err)

	// One continuous series: length is the sum of each source's
	// valid-row count, ordered chronologically across years.
	require.Len(t, merged, 5)
	var prev time.Time
	for _, obs := range merged {
		assert.Equal(t, "Ekonomi", obs.Category)
		assert.True(t, obs.Date.After(prev), "dates must strictly increase")
		prev = obs.Date
	}
	assert.Equal(t, 2023, merged[0].Date.Year())
	assert.Equal(t, 2024, merged[4].Date.Year())
	assert.InDelta(t, 140, merged[4].Count, 1e-9)
}

func TestLoadMerged_CategoryMissingFromOneYear(t *testing.T) {
	first := writeCSV(t, "a 2023.csv",
		"Jenis,Januari\n"+
			"Ekonomi,100\n"+
			"Lokal,10\n")
	second := writeCSV(t, "b 2024.csv",
		"Jenis,Januari\n"+
			"Ekonomi,120\n")

	merged, err := LoadMerged([]string{first, second}, MergeOptions{})
	require.NoError(t, err)

	series := GroupByCategory(merged)
	require.Len(t, series, 2)

	byName := map[string]int{}
	for _, s := range series {
		byName[s.Category] = s.Len()
	}
	// No synthetic zero-fill for the missing year.
	assert.Equal(t, 2, byName["Ekonomi"])
	assert.Equal(t, 1, byName["Lokal"])
}

func TestLoadMerged_PropagatesSchemaError(t *testing.T) {
	good := writeCSV(t, "good 2024.csv", "Jenis,Januari\nEkonomi,1\n")
	bad := writeCSV(t, "bad 2024.csv", "Jenis,January\nEkonomi,1\n")

	_, err := LoadMerged([]string{good, bad}, MergeOptions{})

	require.Error(t, err)
	assert.Equal(t, apperrors.CodeSchema, apperrors.CodeOf(err))
}

func TestGroupByCategory_FirstSeenOrder(t *testing.T) {
	observations, err := LoadWide(writeCSV(t, "t 2024.csv",
		"Jenis,Januari\n"+
			"Zebra,1\n"+
			"Alpha,2\n"), 2024)
	require.NoError(t, err)

	series := GroupByCategory(observations)

	// LoadWide sorts by category, so first-seen here is alphabetical.
	require.Len(t, series, 2)
	assert.Equal(t, "Alpha", series[0].Category)
	assert.Equal(t, "Zebra", series[1].Category)
}
