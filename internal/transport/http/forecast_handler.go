package http

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apperrors "railtrend/internal/errors"
	"railtrend/internal/pipeline"
	"railtrend/pkg/contracts/domain"
)

// maxUploadBytes caps the accepted table size. The source tables are
// tiny; anything larger is not a passenger table.
const maxUploadBytes = 8 << 20

// ForecastHandler serves on-demand forecasts over uploaded wide tables.
type ForecastHandler struct {
	runner   *pipeline.Runner
	logger   *slog.Logger
	validate *validator.Validate
}

// NewForecastHandler creates the handler.
func NewForecastHandler(runner *pipeline.Runner, logger *slog.Logger) *ForecastHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ForecastHandler{
		runner:   runner,
		logger:   logger.With(slog.String("handler", "forecast")),
		validate: validator.New(),
	}
}

// forecastParams are the caller-supplied knobs, validated before use.
type forecastParams struct {
	Horizon int `validate:"min=0,max=60"`
	Year    int `validate:"omitempty,min=1900,max=2100"`
}

// ForecastResponse is the JSON payload returned to the caller.
type ForecastResponse struct {
	Horizon   int                      `json:"horizon"`
	Summaries []domain.CategorySummary `json:"summaries"`
}

// Handle accepts a multipart-uploaded wide CSV/XLSX table and responds
// with the per-category trend summaries. Nothing is persisted; this is
// the compute half of the batch pipeline behind an HTTP boundary.
func (h *ForecastHandler) Handle(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	params, err := h.parseParams(r)
	if err != nil {
		render.Render(w, r, &apperrors.APIError{
			StatusCode: http.StatusBadRequest,
			ErrorCode:  "INVALID_PARAMETER",
			Message:    err.Error(),
		})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		render.Render(w, r, &apperrors.APIError{
			StatusCode: http.StatusBadRequest,
			ErrorCode:  "MISSING_FILE",
			Message:    "multipart field \"file\" is required",
		})
		return
	}
	defer file.Close()

	// Stage the upload under its original base name so year inference
	// from the file name keeps working.
	inputPath, cleanup, err := h.stageUpload(file, header.Filename)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "staging upload failed", "error", err)
		render.Render(w, r, apperrors.ToAPIError(err))
		return
	}
	defer cleanup()

	req := pipeline.Request{
		Inputs:  []string{inputPath},
		Horizon: params.Horizon,
	}
	if params.Year != 0 {
		req.Years = []int{params.Year}
	}

	_, summaries, err := h.runner.Analyze(r.Context(), req)
	if err != nil {
		h.logger.WarnContext(r.Context(), "forecast request failed",
			"file", header.Filename, "error", err)
		render.Render(w, r, apperrors.ToAPIError(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, ForecastResponse{Horizon: params.Horizon, Summaries: summaries})
}

func (h *ForecastHandler) parseParams(r *http.Request) (forecastParams, error) {
	params := forecastParams{Horizon: 3}

	if raw := r.URL.Query().Get("horizon"); raw != "" {
		horizon, err := strconv.Atoi(raw)
		if err != nil {
			return params, fmt.Errorf("horizon must be an integer")
		}
		params.Horizon = horizon
	}
	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return params, fmt.Errorf("year must be an integer")
		}
		params.Year = year
	}

	if err := h.validate.Struct(params); err != nil {
		return params, fmt.Errorf("invalid parameters: %v", err)
	}
	return params, nil
}

func (h *ForecastHandler) stageUpload(file io.Reader, filename string) (string, func(), error) {
	dir, err := os.MkdirTemp("", "railtrend-upload-")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() { os.RemoveAll(dir) }

	base := filepath.Base(filename)
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "upload.csv"
	}
	path := filepath.Join(dir, base)

	dst, err := os.Create(path)
	if err != nil {
		cleanup()
		return "", nil, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		cleanup()
		return "", nil, err
	}
	return path, cleanup, nil
}
