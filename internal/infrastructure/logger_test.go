package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yhdash/internal/config"
)

// readLogLines closes the log file and decodes every JSON line written to path
func readLogLines(t *testing.T, path string) []map[string]interface{} {
	t.Helper()
	require.NoError(t, CloseLogFile())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return decodeLines(t, string(content))
}

func decodeLines(t *testing.T, content string) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(content), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry), "line %q", line)
		entries = append(entries, entry)
	}
	return entries
}

func TestInitializeLogger(t *testing.T) {
	ResetLoggerForTesting()
	t.Cleanup(ResetLoggerForTesting)

	logFile := filepath.Join(t.TempDir(), "logs", "yhdash.log")
	logger, err := InitializeLogger(config.LoggingConfig{
		Level:       "info",
		Format:      "json",
		Output:      "file",
		FilePath:    logFile,
		Development: true,
	})
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Same(t, logger, GetLogger())

	logger.Info("dataset loaded", slog.Int("rows", 3))
	logger.Debug("suppressed at info level")

	entries := readLogLines(t, logFile)
	require.Len(t, entries, 1)
	assert.Equal(t, "dataset loaded", entries[0]["msg"])
	assert.Equal(t, float64(3), entries[0]["rows"])
	assert.Equal(t, "INFO", entries[0]["level"])
	assert.Contains(t, entries[0], "source")
}

func TestInitializeLogger_OnlyOnce(t *testing.T) {
	ResetLoggerForTesting()
	t.Cleanup(ResetLoggerForTesting)

	dir := t.TempDir()
	first, err := InitializeLogger(config.LoggingConfig{Level: "info", Output: "file", FilePath: filepath.Join(dir, "a.log")})
	require.NoError(t, err)
	second, err := InitializeLogger(config.LoggingConfig{Level: "debug", Output: "file", FilePath: filepath.Join(dir, "b.log")})
	require.NoError(t, err)

	assert.Same(t, first, second)
	_, statErr := os.Stat(filepath.Join(dir, "b.log"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestInitializeLogger_BadFilePath(t *testing.T) {
	ResetLoggerForTesting()
	t.Cleanup(ResetLoggerForTesting)

	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	logger, err := InitializeLogger(config.LoggingConfig{Output: "file", FilePath: filepath.Join(blocker, "yhdash.log")})
	require.Error(t, err)
	assert.Nil(t, logger)
}

func TestNewLogger(t *testing.T) {
	t.Run("console json", func(t *testing.T) {
		var buf bytes.Buffer
		logger, closer, err := NewLogger(config.LoggingConfig{Level: "warn", Output: "console"}, &buf)
		require.NoError(t, err)
		require.NoError(t, closer.Close())

		logger.Info("hidden")
		logger.Warn("no rows matched")

		entries := decodeLines(t, buf.String())
		require.Len(t, entries, 1)
		assert.Equal(t, "no rows matched", entries[0]["msg"])
		assert.NotContains(t, entries[0], "source")
	})

	t.Run("console text", func(t *testing.T) {
		var buf bytes.Buffer
		logger, _, err := NewLogger(config.LoggingConfig{Level: "info", Format: "text"}, &buf)
		require.NoError(t, err)

		logger.Info("csv export", slog.Int("rows", 2))

		assert.Contains(t, buf.String(), `msg="csv export" rows=2`)
	})

	t.Run("both", func(t *testing.T) {
		var buf bytes.Buffer
		logFile := filepath.Join(t.TempDir(), "yh.log")
		logger, closer, err := NewLogger(config.LoggingConfig{Output: "both", FilePath: logFile}, &buf)
		require.NoError(t, err)

		logger.Info("loaded")
		require.NoError(t, closer.Close())

		content, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Equal(t, buf.String(), string(content))
		assert.Contains(t, buf.String(), `"msg":"loaded"`)
	})

	t.Run("does not replace the global logger", func(t *testing.T) {
		ResetLoggerForTesting()
		t.Cleanup(ResetLoggerForTesting)

		var buf bytes.Buffer
		logger, _, err := NewLogger(config.LoggingConfig{}, &buf)
		require.NoError(t, err)
		assert.NotSame(t, logger, GetLogger())
	})
}

func TestTraceIDInjection(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := NewLogger(config.LoggingConfig{Level: "debug"}, &buf)
	require.NoError(t, err)

	ctx := WithTraceID(context.Background(), "trace-123")
	logger.InfoContext(ctx, "filter applied")
	logger.InfoContext(context.Background(), "no trace")
	logger.With(slog.String("component", "dashboard_service")).InfoContext(ctx, "derived")

	entries := decodeLines(t, buf.String())
	require.Len(t, entries, 3)
	assert.Equal(t, "trace-123", entries[0]["trace_id"])
	assert.NotContains(t, entries[1], "trace_id")
	assert.Equal(t, "trace-123", entries[2]["trace_id"])
}

func TestLoggerWithContext(t *testing.T) {
	t.Run("tags a plain logger", func(t *testing.T) {
		var buf bytes.Buffer
		plain := slog.New(slog.NewJSONHandler(&buf, nil))

		LoggerWithContext(WithTraceID(context.Background(), "req-1"), plain).Info("request")

		entries := decodeLines(t, buf.String())
		require.Len(t, entries, 1)
		assert.Equal(t, "req-1", entries[0]["trace_id"])
	})

	t.Run("trace handler does not repeat the id", func(t *testing.T) {
		var buf bytes.Buffer
		logger, _, err := NewLogger(config.LoggingConfig{}, &buf)
		require.NoError(t, err)

		ctx := WithTraceID(context.Background(), "req-2")
		LoggerWithContext(ctx, logger).InfoContext(ctx, "request")

		assert.Equal(t, 1, strings.Count(buf.String(), `"trace_id"`))
	})

	t.Run("no trace id", func(t *testing.T) {
		plain := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
		assert.Same(t, plain, LoggerWithContext(context.Background(), plain))
	})

	t.Run("nil falls back to the global logger", func(t *testing.T) {
		ResetLoggerForTesting()
		t.Cleanup(ResetLoggerForTesting)
		assert.Same(t, slog.Default(), LoggerWithContext(context.Background(), nil))
	})
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLogLevel(tt.level))
		})
	}
}

func TestGetTraceID(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))
	assert.Equal(t, "abc", GetTraceID(WithTraceID(context.Background(), "abc")))
}
