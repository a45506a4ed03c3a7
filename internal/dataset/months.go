package dataset

import "strings"

// CanonicalMonths is the fixed ordered list of month column names the
// loader recognizes. The source tables are published with Indonesian
// month headers, so matching is exact against this locale list.
var CanonicalMonths = []string{
	"Januari",
	"Februari",
	"Maret",
	"April",
	"Mei",
	"Juni",
	"Juli",
	"Agustus",
	"September",
	"Oktober",
	"November",
	"Desember",
}

// shortMonthLabels maps a 1-based calendar month to its abbreviated tag,
// used for forecast point labels like "2025-Jan".
var shortMonthLabels = map[int]string{
	1:  "Jan",
	2:  "Feb",
	3:  "Mar",
	4:  "Apr",
	5:  "Mei",
	6:  "Jun",
	7:  "Jul",
	8:  "Agu",
	9:  "Sep",
	10: "Okt",
	11: "Nov",
	12: "Des",
}

// aggregateColumn is the yearly-total column present in some source
// tables. It is dropped before reshaping and never treated as a month.
const aggregateColumn = "Tahunan"

// monthIndex maps a canonical month name to its 1-based calendar index.
var monthIndex = func() map[string]int {
	m := make(map[string]int, len(CanonicalMonths))
	for i, name := range CanonicalMonths {
		m[name] = i + 1
	}
	return m
}()

// MonthIndex returns the 1-based calendar index for a canonical month
// name, or false when the name is not one of the twelve months.
func MonthIndex(name string) (int, bool) {
	idx, ok := monthIndex[name]
	return idx, ok
}

// ShortMonthLabel returns the abbreviated tag for a 1-based month index.
func ShortMonthLabel(month int) string {
	return shortMonthLabels[month]
}

// IsAggregateColumn reports whether a cleaned column name is the yearly
// aggregate column, matched case-insensitively.
func IsAggregateColumn(name string) bool {
	return strings.EqualFold(name, aggregateColumn)
}
