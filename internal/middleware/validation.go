package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "yhdash/internal/errors"
	"yhdash/pkg/contracts/domain"
)

// Query parameter names understood by the filter endpoints
const (
	ParamCounty       = "county"
	ParamMunicipality = "municipality"
	ParamYearMin      = "year_min"
	ParamYearMax      = "year_max"
)

// FilterQuery is the raw, string-typed filter selection taken from a query string
type FilterQuery struct {
	County       string `json:"county" validate:"omitempty,max=200"`
	Municipality string `json:"municipality" validate:"omitempty,max=200"`
	YearMin      string `json:"year_min" validate:"omitempty,year"`
	YearMax      string `json:"year_max" validate:"omitempty,year"`
}

// FilterQueryFromRequest reads the filter parameters without validating them
func FilterQueryFromRequest(r *http.Request) FilterQuery {
	q := r.URL.Query()
	return FilterQuery{
		County:       strings.TrimSpace(q.Get(ParamCounty)),
		Municipality: strings.TrimSpace(q.Get(ParamMunicipality)),
		YearMin:      strings.TrimSpace(q.Get(ParamYearMin)),
		YearMax:      strings.TrimSpace(q.Get(ParamYearMax)),
	}
}

// FilterValidator validates filter query parameters and converts them to a FilterState
type FilterValidator struct {
	validator    *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewFilterValidator creates a new filter validator
func NewFilterValidator(logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *FilterValidator {
	if logger == nil {
		logger = slog.Default()
	}
	if errorHandler == nil {
		errorHandler = apierrors.NewErrorHandler(logger, false)
	}

	v := validator.New()
	_ = v.RegisterValidation("year", isYear)

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &FilterValidator{
		validator:    v,
		logger:       logger.With(slog.String("component", "filter_validator")),
		errorHandler: errorHandler,
	}
}

// Parse validates q and builds the FilterState it describes.
// Year bounds must be given together and in order.
func (fv *FilterValidator) Parse(q FilterQuery) (domain.FilterState, error) {
	if err := fv.ValidateStruct(q); err != nil {
		return domain.FilterState{}, err
	}

	state := domain.FilterState{
		County:       q.County,
		Municipality: q.Municipality,
	}

	switch {
	case q.YearMin == "" && q.YearMax == "":
		return state, nil
	case q.YearMin == "":
		return domain.FilterState{}, apierrors.ErrValidation(ParamYearMin, "year_min is required when year_max is set")
	case q.YearMax == "":
		return domain.FilterState{}, apierrors.ErrValidation(ParamYearMax, "year_max is required when year_min is set")
	}

	// both already passed the year tag
	minYear, _ := strconv.Atoi(q.YearMin)
	maxYear, _ := strconv.Atoi(q.YearMax)
	if minYear > maxYear {
		return domain.FilterState{}, apierrors.ErrValidation(ParamYearMax, "year_max must be greater than or equal to year_min")
	}

	state.YearRange = &domain.YearRange{Min: minYear, Max: maxYear}
	return state, nil
}

// ParseRequest is Parse applied to the request's query string
func (fv *FilterValidator) ParseRequest(r *http.Request) (domain.FilterState, error) {
	return fv.Parse(FilterQueryFromRequest(r))
}

// Handler validates the filter query and stores the resulting state in the
// request context. Invalid queries are answered with a 400 problem.
func (fv *FilterValidator) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state, err := fv.ParseRequest(r)
		if err != nil {
			fv.logger.WarnContext(r.Context(), "invalid filter query",
				slog.String("query", r.URL.RawQuery),
				slog.String("error", err.Error()),
				slog.String("request_id", GetRequestID(r.Context())),
			)
			fv.errorHandler.HandleError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithFilterState(r.Context(), state)))
	})
}

// ValidateStruct validates a struct and returns validation errors
func (fv *FilterValidator) ValidateStruct(v interface{}) error {
	err := fv.validator.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apierrors.InvalidRequestWithError(err)
	}

	validationErrors := make([]apierrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		validationErrors = append(validationErrors, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: formatValidationError(fe),
		})
	}
	return apierrors.NewValidationErrors(validationErrors)
}

type filterStateKey struct{}

// WithFilterState stores a validated filter state in ctx
func WithFilterState(ctx context.Context, state domain.FilterState) context.Context {
	return context.WithValue(ctx, filterStateKey{}, state)
}

// FilterStateFromContext returns the state stored by FilterValidator.Handler
func FilterStateFromContext(ctx context.Context) (domain.FilterState, bool) {
	state, ok := ctx.Value(filterStateKey{}).(domain.FilterState)
	return state, ok
}

// formatValidationError formats validation error messages
func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, param)
	case "year":
		return fmt.Sprintf("%s must be a non-negative whole year", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

// isYear accepts a non-negative integer that fits a year column
func isYear(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" || len(s) > 9 {
		return false
	}
	for _, ch := range s {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return true
}
