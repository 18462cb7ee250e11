package dataset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"yhdash/pkg/contracts/domain"
)

// TracerName is the instrumentation name used for loader spans
const TracerName = "yhdash.dataset"

// Recorder receives the outcome of the one-time load
type Recorder interface {
	RecordDatasetLoad(ctx context.Context, rows int, duration time.Duration, err error)
}

// LoaderOption configures a Loader
type LoaderOption func(*Loader)

// WithRecorder reports the load outcome to r
func WithRecorder(r Recorder) LoaderOption {
	return func(l *Loader) {
		l.recorder = r
	}
}

// WithClock overrides the time source used for LoadedAt
func WithClock(now func() time.Time) LoaderOption {
	return func(l *Loader) {
		l.now = now
	}
}

// Loader reads the source table at most once per process.
// The first Load call parses the file; every later call returns the same
// dataset pointer, or the same error if the first attempt failed.
type Loader struct {
	path     string
	logger   *slog.Logger
	recorder Recorder
	tracer   trace.Tracer
	now      func() time.Time

	once  sync.Once
	ready atomic.Bool
	ds    *domain.Dataset
	err   error
}

// NewLoader creates a loader for the file at path
func NewLoader(path string, logger *slog.Logger, opts ...LoaderOption) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loader{
		path:   path,
		logger: logger.With(slog.String("component", "dataset_loader")),
		tracer: otel.Tracer(TracerName),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Path returns the configured source path
func (l *Loader) Path() string {
	return l.path
}

// Load returns the dataset, reading it on the first call.
// Concurrent callers block until the first read completes.
func (l *Loader) Load(ctx context.Context) (*domain.Dataset, error) {
	l.once.Do(func() {
		l.ds, l.err = l.load(ctx)
		l.ready.Store(l.err == nil)
	})
	return l.ds, l.err
}

// Loaded reports whether a load has completed successfully.
// It never triggers a load itself.
func (l *Loader) Loaded() bool {
	return l.ready.Load()
}

func (l *Loader) load(ctx context.Context) (*domain.Dataset, error) {
	ctx, span := l.tracer.Start(ctx, "dataset.load",
		trace.WithAttributes(attribute.String("dataset.path", l.path)))
	defer span.End()

	start := time.Now()
	l.logger.InfoContext(ctx, "loading dataset", slog.String("path", l.path))

	ds, err := l.read()
	duration := time.Since(start)

	if err != nil {
		loadErr := &DataLoadError{Path: l.path, Err: err}
		span.RecordError(loadErr)
		span.SetStatus(codes.Error, "dataset load failed")
		l.logger.ErrorContext(ctx, "dataset load failed",
			slog.String("path", l.path),
			slog.String("error", err.Error()),
			slog.Duration("duration", duration))
		if l.recorder != nil {
			l.recorder.RecordDatasetLoad(ctx, 0, duration, loadErr)
		}
		return nil, loadErr
	}

	abs, absErr := filepath.Abs(l.path)
	if absErr != nil {
		abs = l.path
	}
	ds.SourcePath = abs
	ds.LoadedAt = l.now()

	span.SetAttributes(
		attribute.Int("dataset.rows", ds.Len()),
		attribute.Int("dataset.columns", len(ds.Columns)))
	l.logger.InfoContext(ctx, "dataset loaded",
		slog.String("path", abs),
		slog.Int("rows", ds.Len()),
		slog.Int("columns", len(ds.Columns)),
		slog.Bool("has_municipality", ds.HasMunicipality()),
		slog.Bool("has_year", ds.HasYear()),
		slog.Duration("duration", duration))
	if l.recorder != nil {
		l.recorder.RecordDatasetLoad(ctx, ds.Len(), duration, nil)
	}
	return ds, nil
}

func (l *Loader) read() (*domain.Dataset, error) {
	if l.path == "" {
		return nil, fmt.Errorf("no data file configured")
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f, filepath.Ext(l.path))
}

// SupportedExtension reports whether Parse can read files named with ext
func SupportedExtension(ext string) bool {
	switch strings.ToLower(ext) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm", ".csv":
		return true
	}
	return false
}

// Parse dispatches on the file extension
func Parse(r io.Reader, ext string) (*domain.Dataset, error) {
	switch strings.ToLower(ext) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return ParseWorkbook(r)
	case ".csv":
		return ParseCSV(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}
