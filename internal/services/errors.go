package services

import "errors"

// Dashboard service errors
var (
	// ErrDatasetUnavailable wraps every failure to load the source spreadsheet
	ErrDatasetUnavailable = errors.New("dataset unavailable")

	// ErrExportFailed wraps CSV encoding failures
	ErrExportFailed = errors.New("csv export failed")
)
