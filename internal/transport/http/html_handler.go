package http

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"yhdash/internal/config"
	apierrors "yhdash/internal/errors"
	"yhdash/internal/exporter"
	"yhdash/internal/middleware"
	"yhdash/pkg/contracts/domain"
)

// EmptyViewMessage is shown instead of the table when no row matches
const EmptyViewMessage = "Ingen data hittades för de valda filtren."

//go:embed templates/*.html
var templateFS embed.FS

type homePage struct {
	Title             string
	Summary           domain.DatasetSummary
	HasArea           bool
	ProgramResultsURL string
	CourseResultsURL  string
}

type dashboardPage struct {
	Title          string
	NoFilter       string
	State          domain.FilterState
	Options        domain.Options
	YearMin        int
	YearMax        int
	Count          int
	Columns        []string
	Rows           [][]string
	EmptyMessage   string
	ExportURL      string
	ExportFileName string
}

// HTMLHandler renders the server-side home and dashboard pages
type HTMLHandler struct {
	service      DashboardServiceInterface
	validator    *middleware.FilterValidator
	templates    *template.Template
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewHTMLHandler parses the embedded templates
func NewHTMLHandler(service DashboardServiceInterface, validator *middleware.FilterValidator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) (*HTMLHandler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if errorHandler == nil {
		errorHandler = apierrors.NewErrorHandler(logger, false)
	}
	if validator == nil {
		validator = middleware.NewFilterValidator(logger, errorHandler)
	}

	tmpl, err := template.New("pages").
		Funcs(template.FuncMap{"join": strings.Join}).
		ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page templates: %w", err)
	}

	return &HTMLHandler{
		service:      service,
		validator:    validator,
		templates:    tmpl,
		logger:       logger.With(slog.String("component", "html_handler")),
		errorHandler: errorHandler,
	}, nil
}

// Home handles GET /
func (h *HTMLHandler) Home(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.render(w, r, "home.html", homePage{
		Title:             "Välkommen till Yrkeshögskoleportalen",
		Summary:           summary,
		HasArea:           slices.Contains(summary.Columns, domain.ColumnArea),
		ProgramResultsURL: config.MYHProgramResultsURL,
		CourseResultsURL:  config.MYHCourseResultsURL,
	})
}

// Dashboard handles GET /dashboard
func (h *HTMLHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	state, err := h.validator.ParseRequest(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	options, err := h.service.Options(r.Context(), state)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	// a municipality left over from another county falls back to "Alla"
	if state.MunicipalitySelected() && !slices.Contains(options.Municipalities, state.Municipality) {
		state.Municipality = domain.NoFilter
		if options, err = h.service.Options(r.Context(), state); err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
	}

	// so does a year range that the selected county no longer spans
	if state.YearRange != nil && !options.YearBounds.Covers(*state.YearRange) {
		state.YearRange = nil
	}

	view, err := h.service.Filter(r.Context(), state)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	page := dashboardPage{
		Title:          "Dashboard",
		NoFilter:       domain.NoFilter,
		State:          state,
		Options:        options,
		YearMin:        options.YearBounds.Min,
		YearMax:        options.YearBounds.Max,
		Count:          view.Len(),
		Columns:        view.Columns,
		Rows:           view.Rows(),
		EmptyMessage:   EmptyViewMessage,
		ExportURL:      "/api/dataset/export",
		ExportFileName: exporter.FileName,
	}
	if state.YearRange != nil {
		page.YearMin, page.YearMax = state.YearRange.Min, state.YearRange.Max
	}
	if q := StateQuery(state).Encode(); q != "" {
		page.ExportURL += "?" + q
	}

	h.render(w, r, "dashboard.html", page)
}

func (h *HTMLHandler) render(w http.ResponseWriter, r *http.Request, name string, data interface{}) {
	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, name, data); err != nil {
		h.logger.ErrorContext(r.Context(), "template execution failed",
			slog.String("template", name),
			slog.String("error", err.Error()),
		)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
