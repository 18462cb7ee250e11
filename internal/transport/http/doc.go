// Package http implements the dashboard's HTTP handlers on top of chi.
//
// Handlers stay thin: they read a validated FilterState from the request
// context (see middleware.FilterValidator), call the dashboard service and
// render the result. JSON goes through go-chi/render and failures are answered
// as RFC 7807 problems by errors.ErrorHandler.
//
// Routes:
//
//	GET /                         home page
//	GET /dashboard                filter page with table and CSV link
//	GET /api/dataset/summary      dataset overview
//	GET /api/dataset/options      cascading selector values
//	GET /api/dataset/rows         filtered rows as JSON
//	GET /api/dataset/export       filtered rows as filtered_data.csv
//	GET /api/health[/ready|/live] probes
//	GET /api/version              build information
//	GET /metrics                  Prometheus scrape endpoint
package http
