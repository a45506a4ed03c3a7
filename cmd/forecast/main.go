package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"railtrend/internal/config"
	"railtrend/internal/exporter"
	"railtrend/internal/infrastructure"
	"railtrend/internal/pipeline"
)

// stringList collects repeated -input flags in order.
type stringList []string

func (l *stringList) String() string {
	return strings.Join(*l, ",")
}

func (l *stringList) Set(value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("empty value")
	}
	*l = append(*l, value)
	return nil
}

// intList collects repeated -year flags in order.
type intList []int

func (l *intList) String() string {
	parts := make([]string, len(*l))
	for i, v := range *l {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func (l *intList) Set(value string) error {
	v, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid year %q", value)
	}
	*l = append(*l, v)
	return nil
}

func main() {
	var inputs stringList
	var years intList
	flag.Var(&inputs, "input", "wide-table source file (csv or xlsx); repeat for multiple sources")
	flag.Var(&years, "year", "explicit year for the sources; one value applies to all, otherwise repeat per source")
	defaultYear := flag.Int("default-year", 0, "fallback year when a source carries no year")
	horizon := flag.Int("horizon", 3, "number of future months to project")
	out := flag.String("out", "", "output directory (defaults to configured output dir)")
	configFile := flag.String("config", "", "optional yaml config file")
	flag.Parse()

	if len(inputs) == 0 {
		fmt.Fprintln(os.Stderr, "at least one -input source is required")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *out != "" {
		cfg.Output.Dir = *out
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	logger.Info("Starting forecast run",
		slog.Int("sources", len(inputs)),
		slog.Int("horizon", *horizon),
		slog.String("output_dir", cfg.Output.Dir))

	runner := pipeline.NewRunner(cfg, logger)
	result, err := runner.Run(context.Background(), pipeline.Request{
		Inputs:      inputs,
		Years:       years,
		DefaultYear: *defaultYear,
		Horizon:     *horizon,
	})
	if err != nil {
		logger.Error("Forecast run failed", "error", err)
		fmt.Fprintf(os.Stderr, "forecast: %v\n", err)
		os.Exit(1)
	}

	header := exporter.SummaryHeader(result.Horizon)
	records := make([][]string, len(result.Summaries))
	for i, summary := range result.Summaries {
		records[i] = exporter.SummaryRecord(summary, result.Horizon)
	}
	exporter.WriteConsoleReport(os.Stdout, header, records)

	fmt.Printf("\nSummary written to %s\n", result.SummaryPath)
	fmt.Printf("Charts written to %s (%d categories)\n", cfg.ChartsPath(), len(result.ChartPaths))
}
