package exporter

import (
	"fmt"
	"io"
	"strings"
)

// WriteConsoleReport prints the summary table to w with the same
// columns as the CSV output, followed by a legend line describing the
// direction semantics. Purely a derived view of the summary rows.
func WriteConsoleReport(w io.Writer, header []string, records [][]string) {
	fmt.Fprintln(w, "\nRingkasan Tren & Prediksi:")
	fmt.Fprintln(w, strings.Repeat("-", 60))

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, record := range records {
		for i, field := range record {
			if i < len(widths) && len(field) > widths[i] {
				widths[i] = len(field)
			}
		}
	}

	printRow := func(fields []string) {
		parts := make([]string, len(fields))
		for i, field := range fields {
			parts[i] = fmt.Sprintf("%-*s", widths[i], field)
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	printRow(header)
	for _, record := range records {
		printRow(record)
	}

	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintln(w, "direction: up/down/flat relative to the last actual month")
}
