package exporter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"yhdash/pkg/contracts/domain"
)

const (
	// FileName is the suggested download name for an exported view
	FileName = "filtered_data.csv"
	// ContentType is the MIME type of exported views
	ContentType = "text/csv"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ToCSV serializes view as UTF-8 CSV without a BOM.
// The header lists every dataset column in original order; rows follow in
// view order. The output is deterministic for a given view.
func ToCSV(view domain.FilteredView) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, view, false); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write streams view as CSV to w, optionally prefixed by a UTF-8 BOM
func Write(w io.Writer, view domain.FilteredView, bom bool) error {
	if bom {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(view.Columns); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	width := len(view.Columns)
	row := make([]string, width)
	for i, rec := range view.Records {
		for j := range row {
			row[j] = rec.Value(j)
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// CSVWriter writes exported views to disk
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger.With(slog.String("component", "csv_writer"))}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteFile writes view to path and returns the path written.
// An existing directory as path receives FileName inside it.
func (w *CSVWriter) WriteFile(path string, view domain.FilteredView, options WriteOptions) (string, error) {
	if path == "" {
		path = FileName
	}
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, FileName)
	}

	w.logger.Info("Writing CSV file",
		slog.String("file_path", path),
		slog.Int("record_count", view.Len()),
		slog.Bool("bom", options.BOMPrefix))

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	if err := Write(file, view, options.BOMPrefix); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	return path, nil
}
