package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "yhdash/internal/errors"
	"yhdash/internal/middleware"
	"yhdash/pkg/contracts/domain"
)

// RowsResponse is the JSON body of GET /api/dataset/rows
type RowsResponse struct {
	Columns    []string           `json:"columns"`
	Rows       [][]string         `json:"rows"`
	Count      int                `json:"count"`
	YearBounds domain.YearBounds  `json:"year_bounds"`
	State      domain.FilterState `json:"state"`
}

// DashboardHandler serves the dataset API
type DashboardHandler struct {
	service      DashboardServiceInterface
	validator    *middleware.FilterValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler with RFC 7807 error handling
func NewDashboardHandler(service DashboardServiceInterface, validator *middleware.FilterValidator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if errorHandler == nil {
		errorHandler = apierrors.NewErrorHandler(logger, false)
	}
	if validator == nil {
		validator = middleware.NewFilterValidator(logger, errorHandler)
	}
	return &DashboardHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dataset routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	// every dataset route takes the same filter query
	r.Use(h.validator.Handler)

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/summary", h.GetSummary)
		r.Get("/options", h.GetOptions)
		r.Get("/rows", h.GetRows)
	})

	r.With(middleware.ExportAudit(h.logger)).Get("/export", h.Export)

	return r
}

// GetSummary handles GET /api/dataset/summary
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, summary)
}

// GetOptions handles GET /api/dataset/options
func (h *DashboardHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	state, _ := middleware.FilterStateFromContext(r.Context())

	options, err := h.service.Options(r.Context(), state)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, options)
}

// GetRows handles GET /api/dataset/rows
func (h *DashboardHandler) GetRows(w http.ResponseWriter, r *http.Request) {
	state, _ := middleware.FilterStateFromContext(r.Context())

	view, err := h.service.Filter(r.Context(), state)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, RowsResponse{
		Columns:    view.Columns,
		Rows:       view.Rows(),
		Count:      view.Len(),
		YearBounds: view.YearBounds,
		State:      view.State,
	})
}

// Export handles GET /api/dataset/export
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	state, _ := middleware.FilterStateFromContext(r.Context())

	result, err := h.service.Export(r.Context(), state)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType+"; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Data)))
	w.Header().Set("X-Row-Count", strconv.Itoa(result.Rows))
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(result.Data); err != nil {
		h.logger.WarnContext(r.Context(), "export write interrupted",
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
	}
}

// StateQuery encodes state as the filter query string the dataset routes accept
func StateQuery(state domain.FilterState) url.Values {
	q := url.Values{}
	if domain.IsSelected(state.County) {
		q.Set(middleware.ParamCounty, state.County)
	}
	if domain.IsSelected(state.Municipality) {
		q.Set(middleware.ParamMunicipality, state.Municipality)
	}
	if state.YearRange != nil {
		q.Set(middleware.ParamYearMin, strconv.Itoa(state.YearRange.Min))
		q.Set(middleware.ParamYearMax, strconv.Itoa(state.YearRange.Max))
	}
	return q
}
