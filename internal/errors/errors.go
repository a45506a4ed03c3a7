package errors

import (
	"errors"
	"fmt"
)

// Code identifies a pipeline failure class with a stable machine-readable tag.
type Code string

const (
	// CodeSchema marks a malformed or unsupported table shape.
	CodeSchema Code = "SCHEMA_INVALID"
	// CodeYearUnresolved marks a source whose data year could not be determined.
	CodeYearUnresolved Code = "YEAR_UNRESOLVED"
	// CodeEmptyInput marks a run invoked with zero sources.
	CodeEmptyInput Code = "EMPTY_INPUT"
	// CodeExport marks a failure while persisting summary or chart artifacts.
	CodeExport Code = "EXPORT_FAILED"
)

// PipelineError is the error type raised by the forecast pipeline. Every
// failure is fatal: the run aborts and no partial artifacts are written.
type PipelineError struct {
	Code    Code
	Source  string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Source != "" {
		msg = fmt.Sprintf("%s (source %q)", msg, e.Source)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *PipelineError) Unwrap() error {
	return e.Err
}

// Is matches on the error code so callers can test against the sentinel
// constructors without caring about source or message details.
func (e *PipelineError) Is(target error) bool {
	var pe *PipelineError
	if !errors.As(target, &pe) {
		return false
	}
	return e.Code == pe.Code
}

// NewSchemaError reports a table whose shape cannot be loaded.
func NewSchemaError(source, message string) *PipelineError {
	return &PipelineError{Code: CodeSchema, Source: source, Message: message}
}

// NewYearResolutionError reports a source with no resolvable data year.
func NewYearResolutionError(source string) *PipelineError {
	return &PipelineError{
		Code:    CodeYearUnresolved,
		Source:  source,
		Message: "no explicit year, no year in source name, and no fallback year",
	}
}

// NewEmptyInputError reports a run started without any input sources.
func NewEmptyInputError() *PipelineError {
	return &PipelineError{Code: CodeEmptyInput, Message: "no input sources supplied"}
}

// NewExportError wraps a failure while writing output artifacts.
func NewExportError(artifact string, err error) *PipelineError {
	return &PipelineError{
		Code:    CodeExport,
		Source:  artifact,
		Message: "writing output artifact failed",
		Err:     err,
	}
}

// CodeOf extracts the pipeline error code, or empty for foreign errors.
func CodeOf(err error) Code {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}
