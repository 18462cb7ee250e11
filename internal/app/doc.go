// Package app wires the YH dashboard together and manages its lifecycle.
//
// # Initialization Flow
//
//	1. Load configuration from environment and config.yaml
//	2. Initialize logging and OpenTelemetry (tracing, Prometheus metrics)
//	3. Create the memoized dataset loader and, unless disabled, preload it
//	4. Initialize the dashboard and health services
//	5. Set up the chi router, middleware chain and handlers
//	6. Bind the listener and serve until SIGINT/SIGTERM
//
// A dataset that cannot be loaded during preload is fatal: New returns the
// *dataset.DataLoadError and the caller exits.
//
// # Usage
//
//	app, err := app.NewApplication()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := app.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// The app does not call os.Exit() directly, allowing the main function to
// control the exit process.
package app
