// Package config provides centralized configuration management for the YH
// dashboard. It loads settings from the environment and an optional YAML file,
// validates them and exposes a typed Config to the rest of the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern YH_<SECTION>_<FIELD>:
//
//	YH_SERVER_PORT=8080
//	YH_DATA_FILE=all_years_merged_done_copy.xlsx
//	YH_LOGGING_LEVEL=debug
//	YH_TELEMETRY_TRACING_ENABLED=true
//
// The YAML file is read from YH_CONFIG_FILE, or config.yaml and
// configs/config.yaml when that is unset.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	loader := dataset.NewLoader(cfg.DataFile(), logger)
//
// # Testing
//
// Use config.Default() for a configuration that needs no environment.
package config
