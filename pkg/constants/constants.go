// Package constants provides shared constants for the emissions-forecast application.
package constants

import "time"

// Forecast defaults
const (
	// DefaultHorizon is the number of fiscal years projected past the historical series
	DefaultHorizon = 30

	// DefaultProductionGrowth is the per-year growth applied to production and revenue
	DefaultProductionGrowth = 0.02

	// DefaultNoiseAmplitude is the width of the uniform noise band (0.01 = ±0.5%)
	DefaultNoiseAmplitude = 0.01

	// DecimalPlaces is the rounding precision for stored projection values
	DecimalPlaces = 2

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"

	// OutputFormatMarkdown is the markdown output format, used for reports
	OutputFormatMarkdown = "markdown"

	// OutputFormatHTML renders reports to HTML
	OutputFormatHTML = "html"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix is the prefix for environment overrides (EMISSIONS_REMOTE_BASEURL)
	EnvPrefix = "EMISSIONS"
)

// Remote collaborator defaults
const (
	// DefaultRemoteBaseURL is where the forecasting backend listens by default
	DefaultRemoteBaseURL = "http://localhost:8000"

	// DefaultRemoteTimeout bounds every request to the forecasting backend
	DefaultRemoteTimeout = 5 * time.Second
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8000"

	// DefaultRequestTimeout bounds handler execution
	DefaultRequestTimeout = 10 * time.Second

	// ServiceName is reported by the health endpoint
	ServiceName = "Emissions Forecasting API"

	// ModelType is reported by the version endpoint
	ModelType = "scenario-drift"

	// DefaultScenarioParam is used when a request names no scenario
	DefaultScenarioParam = "Aggressive"

	// RequestIDHeader carries the per-request identifier
	RequestIDHeader = "X-Request-ID"
)

// Model confidence fallbacks, used when the confidence provider is unavailable
const (
	FallbackOverallConfidence = 89.2
	FallbackScope1MAPE        = 10.8
	FallbackScope2MAPE        = 8.5
	FallbackScope3MAPE        = 15.2
	FallbackScope1R2          = 0.87
	FallbackScope2R2          = 0.92
	FallbackScope3R2          = 0.78
)
