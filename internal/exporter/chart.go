package exporter

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"railtrend/internal/dataset"
	apperrors "railtrend/internal/errors"
	"railtrend/internal/forecast"
	"railtrend/pkg/contracts/domain"
)

// ChartRenderer persists one chart artifact per category. The pipeline
// only depends on this interface; the concrete artifact format belongs
// to the renderer.
type ChartRenderer interface {
	Render(series domain.Series, summary domain.CategorySummary, outputDir string) (string, error)
}

// WorkbookRenderer renders a category chart as an XLSX workbook with a
// native line chart: the actual series, the fitted line over the
// observed range, and the projected points with value annotations.
type WorkbookRenderer struct{}

const chartDataSheet = "Data"

// Render writes the chart workbook for one category and returns the
// artifact path. The file name is the sanitized category name.
func (r *WorkbookRenderer) Render(series domain.Series, summary domain.CategorySummary, outputDir string) (string, error) {
	outputPath := filepath.Join(outputDir, SanitizeName(series.Category)+".xlsx")

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetName(sheet, chartDataSheet); err != nil {
		return "", apperrors.NewExportError(outputPath, err)
	}

	if err := f.SetSheetRow(chartDataSheet, "A1", &[]interface{}{"Bulan", "Aktual", "Tren linier", "Prediksi"}); err != nil {
		return "", apperrors.NewExportError(outputPath, err)
	}

	fitted := forecast.Fitted(summary.Fit, series.Len())
	row := 2
	for i, obs := range series.Observations {
		cell := fmt.Sprintf("A%d", row)
		values := []interface{}{monthTag(obs.Date.Year(), int(obs.Date.Month())), obs.Count, fitted[i], nil}
		if err := f.SetSheetRow(chartDataSheet, cell, &values); err != nil {
			return "", apperrors.NewExportError(outputPath, err)
		}
		row++
	}
	for _, point := range summary.Forecasts {
		cell := fmt.Sprintf("A%d", row)
		values := []interface{}{point.Label, nil, nil, point.Value}
		if err := f.SetSheetRow(chartDataSheet, cell, &values); err != nil {
			return "", apperrors.NewExportError(outputPath, err)
		}
		row++
	}

	lastRow := row - 1
	if lastRow >= 2 {
		if err := r.addChart(f, series.Category, lastRow); err != nil {
			return "", apperrors.NewExportError(outputPath, err)
		}
	}

	if err := f.SaveAs(outputPath); err != nil {
		return "", apperrors.NewExportError(outputPath, err)
	}
	return outputPath, nil
}

func (r *WorkbookRenderer) addChart(f *excelize.File, category string, lastRow int) error {
	categories := fmt.Sprintf("%s!$A$2:$A$%d", chartDataSheet, lastRow)
	seriesRange := func(col string) string {
		return fmt.Sprintf("%s!$%s$2:$%s$%d", chartDataSheet, col, col, lastRow)
	}

	return f.AddChart(chartDataSheet, "F2", &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{
			{
				Name:       "Aktual",
				Categories: categories,
				Values:     seriesRange("B"),
				Marker:     excelize.ChartMarker{Symbol: "circle", Size: 5},
			},
			{
				Name:       "Tren linier",
				Categories: categories,
				Values:     seriesRange("C"),
			},
			{
				Name:       "Prediksi",
				Categories: categories,
				Values:     seriesRange("D"),
				Marker:     excelize.ChartMarker{Symbol: "x", Size: 6},
			},
		},
		Title: []excelize.RichTextRun{
			{Text: "Tren & Prediksi: " + category},
		},
		XAxis: excelize.ChartAxis{
			Title: []excelize.RichTextRun{{Text: "Bulan"}},
		},
		YAxis: excelize.ChartAxis{
			Title: []excelize.RichTextRun{{Text: "Jumlah Penumpang"}},
		},
		Legend: excelize.ChartLegend{Position: "bottom"},
		PlotArea: excelize.ChartPlotArea{
			ShowVal: true,
		},
		Dimension: excelize.ChartDimension{Width: 640, Height: 360},
	})
}

// monthTag renders an observed month the same way forecast labels are
// rendered, so the chart axis reads uniformly.
func monthTag(year, month int) string {
	return fmt.Sprintf("%d-%s", year, dataset.ShortMonthLabel(month))
}

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// SanitizeName converts a category name into a safe lowercase
// hyphenated file stem.
func SanitizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = nonAlphanumeric.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-")
	if name == "" {
		return "kategori"
	}
	return name
}
