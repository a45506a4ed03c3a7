// Package pipeline wires the forecast stages into one batch run:
// load, merge, fit, summarize, persist, render. A run either produces
// every artifact or none; any stage error aborts before outputs land.
package pipeline

import (
	"context"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"railtrend/internal/config"
	"railtrend/internal/dataset"
	"railtrend/internal/exporter"
	"railtrend/internal/forecast"
	"railtrend/internal/infrastructure"
	"railtrend/pkg/contracts/domain"
)

// renderConcurrency bounds the chart fan-out. Categories are
// independent, so renders only share the output directory.
const renderConcurrency = 4

// Request describes one batch run.
type Request struct {
	// Inputs are the wide-table sources, in order.
	Inputs []string
	// Years are explicit per-source years (broadcast-of-one or
	// positional), may be empty.
	Years []int
	// DefaultYear is the fallback year, zero when unset.
	DefaultYear int
	// Horizon is the number of future months to project, may be zero.
	Horizon int
}

// Result carries the computed summaries and where artifacts landed.
type Result struct {
	Summaries   []domain.CategorySummary
	Series      []domain.Series
	Horizon     int
	SummaryPath string
	ChartPaths  []string
}

// Runner executes forecast runs against a fixed configuration.
type Runner struct {
	cfg      *config.Config
	logger   *slog.Logger
	writer   *exporter.SummaryWriter
	renderer exporter.ChartRenderer
}

// NewRunner builds a runner with the default workbook chart renderer.
func NewRunner(cfg *config.Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		cfg:      cfg,
		logger:   logger,
		writer:   &exporter.SummaryWriter{BOMPrefix: cfg.Output.ExcelBOM},
		renderer: &exporter.WorkbookRenderer{},
	}
}

// SetRenderer swaps the chart renderer, mainly for tests.
func (r *Runner) SetRenderer(renderer exporter.ChartRenderer) {
	r.renderer = renderer
}

// Analyze runs the compute stages only: load and merge the sources,
// group per category, fit and forecast. No artifacts are written.
func (r *Runner) Analyze(ctx context.Context, req Request) ([]domain.Series, []domain.CategorySummary, error) {
	logger := r.logger
	if traceID := infrastructure.GetTraceID(ctx); traceID != "" {
		logger = logger.With("trace_id", traceID)
	}

	defaultYear := req.DefaultYear
	if defaultYear == 0 {
		defaultYear = r.cfg.Forecast.DefaultYear
	}

	observations, err := dataset.LoadMerged(req.Inputs, dataset.MergeOptions{
		Years:       req.Years,
		DefaultYear: defaultYear,
	})
	if err != nil {
		return nil, nil, err
	}

	series := dataset.GroupByCategory(observations)
	summaries := forecast.BuildSummaries(series, req.Horizon)

	logger.InfoContext(ctx, "fitted category trends",
		"sources", len(req.Inputs),
		"observations", len(observations),
		"categories", len(series),
		"horizon", req.Horizon)

	return series, summaries, nil
}

// Run executes the full pipeline and persists the summary CSV plus one
// chart artifact per category.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	ctx = infrastructure.EnsureTraceID(ctx)
	logger := r.logger.With("trace_id", infrastructure.GetTraceID(ctx))
	start := time.Now()

	series, summaries, err := r.Analyze(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := r.cfg.EnsureOutputDirs(); err != nil {
		return nil, err
	}

	chartPaths, err := r.renderCharts(ctx, series, summaries)
	if err != nil {
		// Keep the no-partial-output contract: drop what landed.
		for _, path := range chartPaths {
			os.Remove(path)
		}
		return nil, err
	}

	summaryPath := r.cfg.SummaryPath()
	if err := r.writer.WriteSummary(summaries, req.Horizon, summaryPath); err != nil {
		for _, path := range chartPaths {
			os.Remove(path)
		}
		return nil, err
	}

	logger.InfoContext(ctx, "forecast run complete",
		"summary", summaryPath,
		"charts", len(chartPaths),
		"duration", time.Since(start))

	return &Result{
		Summaries:   summaries,
		Series:      series,
		Horizon:     req.Horizon,
		SummaryPath: summaryPath,
		ChartPaths:  chartPaths,
	}, nil
}

// renderCharts fans the per-category renders out over a bounded
// errgroup; the first failure cancels the rest.
func (r *Runner) renderCharts(ctx context.Context, series []domain.Series, summaries []domain.CategorySummary) ([]string, error) {
	byCategory := make(map[string]domain.CategorySummary, len(summaries))
	for _, summary := range summaries {
		byCategory[summary.Category] = summary
	}

	chartsDir := r.cfg.ChartsPath()
	paths := make([]string, len(series))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(renderConcurrency)
	for i, s := range series {
		i, s := i, s
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			path, err := r.renderer.Render(s, byCategory[s.Category], chartsDir)
			if err != nil {
				return err
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		var written []string
		for _, path := range paths {
			if path != "" {
				written = append(written, path)
			}
		}
		return written, err
	}
	return paths, nil
}
