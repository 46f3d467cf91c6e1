package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"revpulse/internal/analytics"
	"revpulse/internal/dataset"
	apierrors "revpulse/internal/errors"
)

// AnalysisHandler accepts transaction file uploads and returns the computed
// analysis result.
type AnalysisHandler struct {
	service  *analytics.Service
	logger   *slog.Logger
	validate *validator.Validate
	metrics  *Metrics
	maxBytes int64
}

// NewAnalysisHandler creates an analysis handler
func NewAnalysisHandler(service *analytics.Service, logger *slog.Logger, metrics *Metrics, maxBytes int64) *AnalysisHandler {
	return &AnalysisHandler{
		service:  service,
		logger:   logger.With(slog.String("handler", "analysis")),
		validate: validator.New(),
		metrics:  metrics,
		maxBytes: maxBytes,
	}
}

// Routes returns the analysis routes
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Post("/", h.Analyze)
	r.Get("/cache-stats", h.CacheStats)
	return r
}

// analysisParams carries the tunable parameters of one analysis run
type analysisParams struct {
	Contamination float64 `validate:"gt=0,lt=0.5"`
}

// AnalysisResponse is the payload returned for a successful analysis run
type AnalysisResponse struct {
	RunID string `json:"run_id"`
	*analytics.Result
}

// Render implements the render.Renderer interface
func (a *AnalysisResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// Analyze handles POST /api/analysis. The upload arrives as multipart form
// data in the "file" field; an optional "contamination" field overrides the
// configured default for this run only.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	runID := uuid.NewString()
	logger := h.logger.With(slog.String("run_id", runID))

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		h.metrics.ObserveAnalysis("rejected", time.Since(start))
		apierrors.WriteError(w, apierrors.ErrPayloadTooLarge)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.metrics.ObserveAnalysis("rejected", time.Since(start))
		apierrors.WriteError(w, apierrors.ErrValidation("file", "A file upload is required"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		logger.Error("failed to read upload", slog.String("error", err.Error()))
		h.metrics.ObserveAnalysis("error", time.Since(start))
		apierrors.WriteError(w, apierrors.ErrInternalServer)
		return
	}

	params, apiErr := h.parseParams(r)
	if apiErr != nil {
		h.metrics.ObserveAnalysis("rejected", time.Since(start))
		apierrors.WriteError(w, apiErr)
		return
	}

	result, err := h.service.Analyze(r.Context(), header.Filename, data, params.Contamination)
	if err != nil {
		h.metrics.ObserveAnalysis("error", time.Since(start))
		apierrors.WriteError(w, mapAnalysisError(err))
		logger.Warn("analysis failed",
			slog.String("file", header.Filename),
			slog.String("error", err.Error()))
		return
	}

	h.metrics.ObserveAnalysis("ok", time.Since(start))
	h.metrics.AddDroppedRows(result.Dropped.Dropped())

	logger.Info("analysis served",
		slog.String("file", header.Filename),
		slog.Int("transactions", len(result.Transactions)),
		slog.Int("anomalies", len(result.Anomalies)),
		slog.Duration("elapsed", time.Since(start)))

	render.Status(r, http.StatusOK)
	render.JSON(w, r, &AnalysisResponse{RunID: runID, Result: result})
}

// CacheStats handles GET /api/analysis/cache-stats
func (h *AnalysisHandler) CacheStats(w http.ResponseWriter, r *http.Request) {
	hits, misses, size := h.service.CacheStats()
	render.JSON(w, r, map[string]interface{}{
		"hits":    hits,
		"misses":  misses,
		"entries": size,
	})
}

// parseParams reads and validates the tunable parameters of the request
func (h *AnalysisHandler) parseParams(r *http.Request) (analysisParams, *apierrors.APIError) {
	params := analysisParams{Contamination: h.service.DefaultContamination()}

	if raw := r.FormValue("contamination"); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return params, apierrors.ErrValidation("contamination", "must be a number")
		}
		params.Contamination = value
	}

	if err := h.validate.Struct(params); err != nil {
		return params, apierrors.ErrValidation("contamination", "must be in (0, 0.5)")
	}
	return params, nil
}

// mapAnalysisError translates pipeline errors into API errors
func mapAnalysisError(err error) *apierrors.APIError {
	var formatErr *dataset.UnsupportedFormatError
	if errors.As(err, &formatErr) {
		return apierrors.FormatError(formatErr.Name)
	}
	var missingErr *dataset.MissingColumnError
	if errors.As(err, &missingErr) {
		return apierrors.SchemaError(missingErr.Column)
	}
	return apierrors.ErrAnalysisFailed(err)
}
