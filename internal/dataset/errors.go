package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrNoHeader is returned when the source has no non-empty row
	ErrNoHeader = errors.New("no header row found")
	// ErrMissingCountyColumn is returned when the header lacks the Län column
	ErrMissingCountyColumn = errors.New("required column \"Län\" is missing")
	// ErrUnsupportedFormat is returned for source files that are neither workbooks nor CSV
	ErrUnsupportedFormat = errors.New("unsupported source format")
)

// DataLoadError reports that the source table could not be read or parsed.
// It is fatal for the dashboard: without a dataset nothing can be shown.
type DataLoadError struct {
	Path string
	Err  error
}

func (e *DataLoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("load dataset: %v", e.Err)
	}
	return fmt.Sprintf("load dataset %q: %v", e.Path, e.Err)
}

func (e *DataLoadError) Unwrap() error {
	return e.Err
}

// IsDataLoadError reports whether err is or wraps a *DataLoadError
func IsDataLoadError(err error) bool {
	var dle *DataLoadError
	return errors.As(err, &dle)
}
