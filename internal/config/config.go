// Package config defines the data structures related to configuration and
// includes functions for loading and validating it.
package config

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/iwvelando/emissions-forecast/internal/forecast"
	"github.com/iwvelando/emissions-forecast/internal/scenario"
	"github.com/iwvelando/emissions-forecast/internal/series"
	"github.com/iwvelando/emissions-forecast/pkg/constants"
	"github.com/iwvelando/emissions-forecast/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for emissions-forecast.
type Configuration struct {
	Forecast   ForecastConfig
	Historical []series.YearRecord
	Remote     RemoteConfig
	Logging    LoggingConfig `yaml:"logging,omitempty"`
	Output     OutputConfig  `yaml:"output,omitempty"`
}

// ForecastConfig holds the projection parameters.
type ForecastConfig struct {
	Scenario         string  // scenario used when none is given on the command line
	Horizon          int     // fiscal years to project
	Seed             *int64  // fixes the noise sequence when set
	NoiseAmplitude   float64 // width of the uniform noise band
	ProductionGrowth float64 // per-year growth of production and revenue
}

// RemoteConfig points at an optional forecasting backend.
type RemoteConfig struct {
	Enabled bool
	BaseURL string
	Timeout time.Duration
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, json, markdown
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")

	v.SetDefault("forecast.scenario", string(scenario.Moderate))
	v.SetDefault("forecast.horizon", constants.DefaultHorizon)
	v.SetDefault("forecast.noiseAmplitude", constants.DefaultNoiseAmplitude)
	v.SetDefault("forecast.productionGrowth", constants.DefaultProductionGrowth)
	v.SetDefault("remote.enabled", false)
	v.SetDefault("remote.baseURL", constants.DefaultRemoteBaseURL)
	v.SetDefault("remote.timeout", constants.DefaultRemoteTimeout)
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputFile", "")
	v.SetDefault("output.format", "")

	// EMISSIONS_REMOTE_BASEURL overrides remote.baseURL and so on.
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("forecast.seed")

	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %w", err)
	}

	return decode(v)
}

// LoadDefaults returns the built-in defaults with environment overrides applied.
func LoadDefaults() (*Configuration, error) {
	return LoadConfigurationFromReader(strings.NewReader(""))
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	return &configuration, nil
}

// HistoricalSeries returns the configured historical years, or the built-in
// series when none are configured. Configured years are always treated as
// observed data.
func (c *Configuration) HistoricalSeries() (series.Series, error) {
	if len(c.Historical) == 0 {
		return series.Default(), nil
	}

	records := make([]series.YearRecord, len(c.Historical))
	for i, record := range c.Historical {
		record.IsHistorical = true
		records[i] = record
	}
	s, err := series.New(records...)
	if err != nil {
		return series.Series{}, fmt.Errorf("invalid historical data: %w", err)
	}
	return s, nil
}

// DefaultScenario returns the configured scenario.
func (c *Configuration) DefaultScenario() (scenario.Scenario, error) {
	return scenario.Parse(c.Forecast.Scenario)
}

// EngineOptions translates the forecast settings into projection engine options.
func (c *Configuration) EngineOptions() []forecast.Option {
	opts := []forecast.Option{
		forecast.WithNoiseAmplitude(c.Forecast.NoiseAmplitude),
		forecast.WithProductionGrowth(c.Forecast.ProductionGrowth),
	}
	if c.Forecast.Seed != nil {
		opts = append(opts, forecast.WithNoiseSource(forecast.NewSeededSource(*c.Forecast.Seed)))
	}
	return opts
}

// Validate returns an error for settings the application cannot run with.
func (c *Configuration) Validate() error {
	if c.Forecast.Horizon < 0 {
		return fmt.Errorf("forecast horizon must not be negative, got %d", c.Forecast.Horizon)
	}
	if c.Forecast.NoiseAmplitude < 0 {
		return fmt.Errorf("forecast noise amplitude must not be negative, got %g", c.Forecast.NoiseAmplitude)
	}
	if c.Forecast.ProductionGrowth <= -1 {
		return fmt.Errorf("forecast production growth must be greater than -1, got %g", c.Forecast.ProductionGrowth)
	}
	if _, err := c.DefaultScenario(); err != nil {
		return fmt.Errorf("invalid forecast scenario: %w", err)
	}
	if _, err := c.HistoricalSeries(); err != nil {
		return err
	}
	if c.Remote.Enabled {
		u, err := url.Parse(c.Remote.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("remote base URL %q is not an absolute URL", c.Remote.BaseURL)
		}
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if c.Forecast.Horizon > 100 {
		warnings = append(warnings, fmt.Sprintf("Forecast horizon of %d years extends far beyond the scenario assumptions", c.Forecast.Horizon))
	}
	if c.Forecast.NoiseAmplitude > 0.1 {
		warnings = append(warnings, fmt.Sprintf("Noise amplitude %g exceeds ±5%% per year and may dominate scenario drift", c.Forecast.NoiseAmplitude))
	}
	if c.Forecast.Horizon > 0 && c.Forecast.Seed == nil && c.Forecast.NoiseAmplitude > 0 {
		warnings = append(warnings, "No forecast seed configured; projections will differ between runs")
	}
	if n := len(c.Historical); n == 1 {
		warnings = append(warnings, "Only one historical year configured; year-over-year metrics will be unavailable")
	}
	years := make([]string, 0, len(c.Historical))
	for _, record := range c.Historical {
		years = append(years, record.Year)
		if record.Production == 0 {
			warnings = append(warnings, fmt.Sprintf("Historical year %s has zero production; emission intensity is undefined", record.Year))
		}
	}
	warnings = append(warnings, validation.ValidateYearSequence(years)...)
	if c.Remote.Enabled && c.Remote.Timeout <= 0 {
		warnings = append(warnings, "Remote timeout is not positive; requests to the forecasting backend will not time out")
	}

	return warnings
}
