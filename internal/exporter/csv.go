package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strconv"

	apperrors "railtrend/internal/errors"
	"railtrend/pkg/contracts/domain"
)

// SummaryWriter persists category summaries as a delimited file.
type SummaryWriter struct {
	// BOMPrefix prepends a UTF-8 BOM so Excel opens the file correctly.
	BOMPrefix bool
}

// SummaryHeader returns the output columns for a given horizon:
// the fixed fit columns followed by H (next_k, next_k_label) pairs.
func SummaryHeader(horizon int) []string {
	header := []string{
		"category",
		"n_obs",
		"last_month_actual",
		"slope_per_month",
		"intercept",
		"r2",
		"direction",
	}
	for k := 1; k <= horizon; k++ {
		header = append(header,
			fmt.Sprintf("next_%d", k),
			fmt.Sprintf("next_%d_label", k))
	}
	return header
}

// SummaryRecord flattens one summary into CSV fields, numeric values
// rounded to two decimal places. A missing last actual writes an empty
// field rather than NaN.
func SummaryRecord(summary domain.CategorySummary, horizon int) []string {
	record := []string{
		summary.Category,
		strconv.Itoa(summary.NObs),
		formatRounded(summary.LastActual),
		formatRounded(summary.Fit.Slope),
		formatRounded(summary.Fit.Intercept),
		formatRounded(summary.Fit.R2),
		string(summary.Direction),
	}
	for k := 1; k <= horizon; k++ {
		if k <= len(summary.Forecasts) {
			point := summary.Forecasts[k-1]
			record = append(record, formatRounded(point.Value), point.Label)
		} else {
			record = append(record, "", "")
		}
	}
	return record
}

// WriteSummary writes the full summary table to outputPath, creating
// parent directories as needed.
func (w *SummaryWriter) WriteSummary(summaries []domain.CategorySummary, horizon int, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return apperrors.NewExportError(outputPath, err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return apperrors.NewExportError(outputPath, err)
	}
	defer file.Close()

	if w.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return apperrors.NewExportError(outputPath, err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(SummaryHeader(horizon)); err != nil {
		return apperrors.NewExportError(outputPath, err)
	}
	for _, summary := range summaries {
		if err := writer.Write(SummaryRecord(summary, horizon)); err != nil {
			return apperrors.NewExportError(outputPath, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperrors.NewExportError(outputPath, err)
	}

	slog.Info("wrote forecast summary",
		"path", outputPath,
		"categories", len(summaries),
		"horizon", horizon)
	return nil
}

// formatRounded renders a float rounded to 2 decimal places; NaN
// becomes an empty field.
func formatRounded(value float64) string {
	if math.IsNaN(value) {
		return ""
	}
	return strconv.FormatFloat(math.Round(value*100)/100, 'f', 2, 64)
}
