// Package exporter persists forecast results: the summary CSV, one
// chart workbook per category, and the console report. It is the output
// boundary of the pipeline; nothing here feeds back into the core.
package exporter
