package dataset

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "railtrend/internal/errors"
	"railtrend/pkg/contracts/domain"
)

// LoadWide reads a wide-format passenger table (rows = categories,
// columns = month names, optional yearly aggregate) and reshapes it to
// long form: one observation per (category, recognized month) pair.
// The caller supplies the data year; dates are pinned to day 1.
//
// CSV sources may carry a UTF-8 byte-order marker; XLSX sources are read
// from their first sheet.
func LoadWide(path string, year int) ([]domain.Observation, error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.NewSchemaError(path, "table is empty")
	}

	header := cleanHeader(rows[0])
	if len(header) < 2 {
		return nil, apperrors.NewSchemaError(path, "expected at least a category column and one month column")
	}

	// Month columns are matched exactly against the canonical locale
	// list, in locale order. Anything else, including the aggregate
	// column, is left out of the reshape.
	type monthColumn struct {
		name  string
		month int
		col   int
	}
	var monthCols []monthColumn
	for _, name := range CanonicalMonths {
		for col, h := range header {
			if col == 0 {
				continue
			}
			if h == name {
				idx, _ := MonthIndex(name)
				monthCols = append(monthCols, monthColumn{name: name, month: idx, col: col})
				break
			}
		}
	}
	if len(monthCols) == 0 {
		return nil, apperrors.NewSchemaError(path, "no month columns recognized")
	}

	for col, h := range header {
		if col == 0 || h == "" {
			continue
		}
		if _, ok := MonthIndex(h); !ok && !IsAggregateColumn(h) {
			slog.Debug("ignoring unrecognized column", "source", path, "column", h)
		}
	}

	var observations []domain.Observation
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		category := strings.TrimSpace(row[0])
		if category == "" {
			continue
		}
		for _, mc := range monthCols {
			if mc.col >= len(row) {
				continue
			}
			count, ok := parseCount(row[mc.col])
			if !ok {
				continue
			}
			observations = append(observations, domain.Observation{
				Category:   category,
				Month:      mc.name,
				MonthIndex: mc.month,
				Date:       time.Date(year, time.Month(mc.month), 1, 0, 0, 0, 0, time.UTC),
				Count:      count,
			})
		}
	}

	sort.SliceStable(observations, func(i, j int) bool {
		if observations[i].Category != observations[j].Category {
			return observations[i].Category < observations[j].Category
		}
		return observations[i].MonthIndex < observations[j].MonthIndex
	})

	slog.Debug("loaded wide table",
		"source", path,
		"year", year,
		"month_columns", len(monthCols),
		"observations", len(observations))

	return observations, nil
}

// readRows reads the raw cell grid from a CSV or XLSX source.
func readRows(path string) ([][]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readXLSXRows(path)
	}
	return readCSVRows(path)
}

func readCSVRows(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewSchemaError(path, fmt.Sprintf("parse CSV: %v", err))
	}
	return rows, nil
}

func readXLSXRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewSchemaError(path, "workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewSchemaError(path, fmt.Sprintf("read sheet %q: %v", sheets[0], err))
	}
	return rows, nil
}

// cleanHeader strips the UTF-8 byte-order marker and surrounding
// whitespace from every column name before matching.
func cleanHeader(header []string) []string {
	cleaned := make([]string, len(header))
	for i, h := range header {
		h = strings.ReplaceAll(h, "\uFEFF", "")
		cleaned[i] = strings.TrimSpace(h)
	}
	return cleaned
}

// parseCount coerces a cell to a non-negative count. Thousands
// separators and surrounding whitespace are tolerated; anything else
// unparseable marks the cell as missing and the row is dropped.
func parseCount(cell string) (float64, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0, false
	}
	cell = strings.ReplaceAll(cell, ",", "")
	value, err := strconv.ParseFloat(cell, 64)
	if err != nil || value < 0 {
		return 0, false
	}
	return value, true
}
