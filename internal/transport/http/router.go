package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"railtrend/internal/config"
	"railtrend/internal/middleware"
	"railtrend/internal/pipeline"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "railtrend_http_requests_total",
		Help: "HTTP requests served, by path and status code.",
	}, []string{"path", "code"})

	forecastDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "railtrend_forecast_duration_seconds",
		Help:    "Latency of forecast computations over uploaded tables.",
		Buckets: prometheus.DefBuckets,
	})
)

// instrument records per-path request counts and forecast latency.
func instrument(path string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		timer := prometheus.NewTimer(forecastDuration)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next(rec, r)

		timer.ObserveDuration()
		requestsTotal.WithLabelValues(path, http.StatusText(rec.status)).Inc()
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// NewRouter assembles the report server's routes and middleware chain.
func NewRouter(cfg *config.Config, runner *pipeline.Runner, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.NewRateLimiter(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst, logger).Handler)

	forecastHandler := NewForecastHandler(runner, logger)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		render.JSON(w, req, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/forecast", instrument("/api/v1/forecast", forecastHandler.Handle))
	})

	return r
}
