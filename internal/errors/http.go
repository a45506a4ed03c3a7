package errors

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
)

// APIError is the JSON shape returned to HTTP clients of the forecast API.
type APIError struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
	Source     string `json:"source,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render.
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// statusFor maps pipeline error codes onto HTTP statuses. Input-shaped
// failures are the client's fault, export failures are ours.
func statusFor(code Code) int {
	switch code {
	case CodeSchema, CodeYearUnresolved, CodeEmptyInput:
		return http.StatusUnprocessableEntity
	case CodeExport:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// ToAPIError converts any error into a renderable API error.
func ToAPIError(err error) *APIError {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return &APIError{
			StatusCode: statusFor(pe.Code),
			ErrorCode:  string(pe.Code),
			Message:    pe.Message,
			Source:     pe.Source,
		}
	}
	return &APIError{
		StatusCode: http.StatusInternalServerError,
		ErrorCode:  "INTERNAL_ERROR",
		Message:    err.Error(),
	}
}
