package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apierrors "yhdash/internal/errors"
	"yhdash/internal/exporter"
	"yhdash/internal/filter"
	"yhdash/internal/infrastructure"
	"yhdash/pkg/contracts/domain"
)

// TracerName identifies spans emitted by the service layer
const TracerName = "yhdash.services"

// DatasetLoader is the memoized source of the dataset
type DatasetLoader interface {
	Load(ctx context.Context) (*domain.Dataset, error)
	Loaded() bool
	Path() string
}

// Recorder receives filter and export measurements
type Recorder interface {
	RecordFilter(ctx context.Context, state domain.FilterState, rows int)
	RecordExport(ctx context.Context, rows, size int, err error)
}

// ExportResult is a rendered CSV download
type ExportResult struct {
	FileName    string
	ContentType string
	Data        []byte
	Rows        int
}

// DashboardService answers dashboard queries against the cached dataset.
// Every call recomputes its view from the shared read-only Dataset.
type DashboardService struct {
	loader   DatasetLoader
	logger   *slog.Logger
	recorder Recorder
	tracer   trace.Tracer
}

// NewDashboardService creates a dashboard service. recorder may be nil.
func NewDashboardService(loader DatasetLoader, logger *slog.Logger, recorder Recorder) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		loader:   loader,
		logger:   logger.With(slog.String("component", "dashboard_service")),
		recorder: recorder,
		tracer:   otel.Tracer(TracerName),
	}
}

// log tags the service logger with the request's trace ID
func (s *DashboardService) log(ctx context.Context) *slog.Logger {
	return infrastructure.LoggerWithContext(ctx, s.logger)
}

// Dataset returns the loaded dataset. Load failures come back as a
// DATA_LOAD AppError wrapping ErrDatasetUnavailable and the loader's error.
func (s *DashboardService) Dataset(ctx context.Context) (*domain.Dataset, error) {
	ds, err := s.loader.Load(ctx)
	if err != nil {
		s.log(ctx).ErrorContext(ctx, "dataset unavailable",
			slog.String("path", s.loader.Path()),
			slog.String("error", err.Error()),
		)
		return nil, apierrors.NewDataLoadError("dataset could not be loaded",
			fmt.Errorf("%w: %w", ErrDatasetUnavailable, err)).
			WithContext("path", s.loader.Path())
	}
	return ds, nil
}

// Options derives the selector candidates for state
func (s *DashboardService) Options(ctx context.Context, state domain.FilterState) (domain.Options, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return domain.Options{}, err
	}
	return filter.DeriveOptions(ds, state), nil
}

// Filter applies state to the dataset
func (s *DashboardService) Filter(ctx context.Context, state domain.FilterState) (domain.FilteredView, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.filter", trace.WithAttributes(stateAttributes(state)...))
	defer span.End()

	ds, err := s.Dataset(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dataset unavailable")
		return domain.FilteredView{}, err
	}

	start := time.Now()
	view := filter.Apply(ds, state)

	span.SetAttributes(attribute.Int("filter.rows", view.Len()))
	if s.recorder != nil {
		s.recorder.RecordFilter(ctx, state, view.Len())
	}

	s.log(ctx).DebugContext(ctx, "filter applied",
		slog.String("county", state.County),
		slog.String("municipality", state.Municipality),
		slog.Int("rows", view.Len()),
		slog.Duration("duration", time.Since(start)),
	)
	return view, nil
}

// Export filters with state and renders the result as CSV
func (s *DashboardService) Export(ctx context.Context, state domain.FilterState) (*ExportResult, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard.export", trace.WithAttributes(stateAttributes(state)...))
	defer span.End()

	view, err := s.Filter(ctx, state)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "filter failed")
		return nil, err
	}

	data, err := exporter.ToCSV(view)
	if s.recorder != nil {
		s.recorder.RecordExport(ctx, view.Len(), len(data), err)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "csv encoding failed")
		s.log(ctx).ErrorContext(ctx, "csv export failed", slog.String("error", err.Error()))
		return nil, apierrors.NewExportError("filtered view could not be encoded",
			fmt.Errorf("%w: %w", ErrExportFailed, err))
	}

	span.SetAttributes(attribute.Int("export.bytes", len(data)))
	s.log(ctx).InfoContext(ctx, "csv export",
		slog.Int("rows", view.Len()),
		slog.Int("bytes", len(data)),
	)

	return &ExportResult{
		FileName:    exporter.FileName,
		ContentType: exporter.ContentType,
		Data:        data,
		Rows:        view.Len(),
	}, nil
}

// Summary describes the dataset for the home page
func (s *DashboardService) Summary(ctx context.Context) (domain.DatasetSummary, error) {
	ds, err := s.Dataset(ctx)
	if err != nil {
		return domain.DatasetSummary{}, err
	}
	return domain.DatasetSummary{
		SourcePath: ds.SourcePath,
		LoadedAt:   ds.LoadedAt,
		RowCount:   ds.Len(),
		Columns:    ds.Columns,
		Counties:   filter.CountyOptions(ds),
		Areas:      filter.AreaOptions(ds),
	}, nil
}

func stateAttributes(state domain.FilterState) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("filter.county", state.County),
		attribute.String("filter.municipality", state.Municipality),
	}
	if state.YearRange != nil {
		attrs = append(attrs,
			attribute.Int("filter.year_min", state.YearRange.Min),
			attribute.Int("filter.year_max", state.YearRange.Max),
		)
	}
	return attrs
}
