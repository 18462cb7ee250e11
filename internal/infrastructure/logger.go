package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"yhdash/internal/config"
)

// traceIDKey is the attribute name used for request correlation
const traceIDKey = "trace_id"

var (
	globalMu     sync.Mutex
	globalOnce   sync.Once
	globalLogger *slog.Logger
	globalCloser io.Closer
)

// InitializeLogger builds the server's logger once and installs it as the
// slog default. Console output goes to stdout.
func InitializeLogger(cfg config.LoggingConfig) (*slog.Logger, error) {
	var err error
	globalOnce.Do(func() {
		var (
			logger *slog.Logger
			closer io.Closer
		)
		logger, closer, err = NewLogger(cfg, os.Stdout)
		if err != nil {
			return
		}

		globalMu.Lock()
		globalLogger, globalCloser = logger, closer
		globalMu.Unlock()
		slog.SetDefault(logger)
	})

	globalMu.Lock()
	defer globalMu.Unlock()
	return globalLogger, err
}

// NewLogger builds a logger from cfg without touching the global one.
// Output "console" writes to console, "file" to cfg.FilePath and "both" to
// either. The closer releases the log file and is never nil.
func NewLogger(cfg config.LoggingConfig, console io.Writer) (*slog.Logger, io.Closer, error) {
	out, closer, err := logOutput(cfg, console)
	if err != nil {
		return nil, nil, err
	}

	opts := &slog.HandlerOptions{
		AddSource: cfg.Development,
		Level:     parseLogLevel(cfg.Level),
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}

	return slog.New(&traceHandler{Handler: handler}), closer, nil
}

// GetLogger returns the global logger, or slog's default before InitializeLogger
func GetLogger() *slog.Logger {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		return slog.Default()
	}
	return globalLogger
}

// CloseLogFile releases the global log file, if one is open
func CloseLogFile() error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalCloser == nil {
		return nil
	}
	err := globalCloser.Close()
	globalCloser = nil
	return err
}

// ResetLoggerForTesting resets the global logger state.
// This should only be called in tests.
func ResetLoggerForTesting() {
	_ = CloseLogFile()
	globalMu.Lock()
	globalLogger = nil
	globalOnce = sync.Once{}
	globalMu.Unlock()
}

func logOutput(cfg config.LoggingConfig, console io.Writer) (io.Writer, io.Closer, error) {
	mode := strings.ToLower(cfg.Output)
	if mode != "file" && mode != "both" {
		return console, nopCloser{}, nil
	}

	file, err := openLogFile(cfg.FilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	if mode == "both" {
		return io.MultiWriter(console, file), file, nil
	}
	return file, file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// traceHandler adds the context's trace ID to every record, unless the
// logger was already tagged with one
type traceHandler struct {
	slog.Handler
	tagged bool
}

func (h *traceHandler) Handle(ctx context.Context, r slog.Record) error {
	if !h.tagged {
		if traceID := GetTraceID(ctx); traceID != "" {
			r.AddAttrs(slog.String(traceIDKey, traceID))
		}
	}
	return h.Handler.Handle(ctx, r)
}

func (h *traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	tagged := h.tagged
	for _, a := range attrs {
		if a.Key == traceIDKey {
			tagged = true
		}
	}
	return &traceHandler{Handler: h.Handler.WithAttrs(attrs), tagged: tagged}
}

func (h *traceHandler) WithGroup(name string) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithGroup(name), tagged: h.tagged}
}

// parseLogLevel converts string log level to slog.Level
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory for %s: %w", path, err)
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}
