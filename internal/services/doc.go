// Package services holds the dashboard's business logic between the HTTP
// handlers and the dataset loader.
//
// DashboardService loads the dataset through a DatasetLoader, runs the filter
// pipeline and CSV export, and reports measurements to a Recorder.
// HealthService answers liveness and readiness probes; the service is ready
// once the dataset has been loaded.
//
// Services take an injected *slog.Logger and tag it with a component name.
// Load failures surface as an errors.AppError of type DATA_LOAD that wraps
// ErrDatasetUnavailable, so handlers can map them to a 503 problem.
package services
