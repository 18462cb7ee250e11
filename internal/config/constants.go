package config

import "time"

// Application constants
const (
	// Application Info
	AppID      = "yhdash"
	AppName    = "YH Dashboard"
	AppVersion = "1.0.0"

	// Data
	DefaultDataFile = "all_years_merged_done_copy.xlsx"
	ExportFileName  = "filtered_data.csv"

	// Rate Limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	// Network Timeouts
	DefaultHTTPTimeout = 30 * time.Second

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// Endpoints
	APIBasePath     = "/api"
	DatasetEndpoint = "/api/dataset"
	HealthEndpoint  = "/api/health"
	MetricsEndpoint = "/metrics"
	DashboardPath   = "/dashboard"
)

// Application-round results published by Myndigheten för yrkeshögskolan
const (
	MYHProgramResultsURL = "https://www.myh.se/yrkeshogskolan/resultat-ansokningsomgangar/resultat-for-program"
	MYHCourseResultsURL  = "https://www.myh.se/yrkeshogskolan/resultat-ansokningsomgangar/resultat-for-kurser"
)

// Version can be overridden at build time with -ldflags "-X yhdash/internal/config.Version=..."
var Version = AppVersion
