package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iwvelando/emissions-forecast/internal/client"
	"github.com/iwvelando/emissions-forecast/internal/config"
	"github.com/iwvelando/emissions-forecast/internal/dashboard"
	"github.com/iwvelando/emissions-forecast/internal/forecast"
	"github.com/iwvelando/emissions-forecast/internal/scenario"
	"github.com/iwvelando/emissions-forecast/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath   string
	logLevel     string
	outputFormat string
}

// app is the loaded configuration and logger for a single invocation.
type app struct {
	conf   *config.Configuration
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "emissions-forecast",
		Short: "Project Scope 1/2/3 emissions under reduction scenarios",
		Long: "emissions-forecast projects historical Scope 1/2/3 emissions forward under\n" +
			"BAU, Moderate and Aggressive reduction scenarios and assembles a report\n" +
			"comparing the current year with the end of the projection horizon.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", constants.DefaultConfigFile, "path to configuration file")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	flags.StringVar(&opts.outputFormat, "output-format", "", "type of output override: pretty, json")

	cmd.AddCommand(newProjectCmd(opts))
	cmd.AddCommand(newReportCmd(opts))
	cmd.AddCommand(newOverviewCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	return cmd
}

// load reads the configuration, builds the logger and reports configuration
// warnings. The default configuration file may be absent, in which case the
// built-in defaults are used; an explicitly named file must exist.
func (o *rootOptions) load(cmd *cobra.Command) (*app, error) {
	conf, err := loadConfiguration(o.configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return nil, err
	}

	logger, err := initializeLogger(conf.Logging, o.logLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	return &app{conf: conf, logger: logger}, nil
}

// resolveFormat picks the output format: the CLI override takes precedence
// over the configuration, which takes precedence over pretty.
func (o *rootOptions) resolveFormat(conf *config.Configuration, override string) string {
	switch {
	case override != "":
		return override
	case o.outputFormat != "":
		return o.outputFormat
	case conf.Output.Format != "":
		return conf.Output.Format
	}
	return constants.OutputFormatPretty
}

func loadConfiguration(path string, explicit bool) (*config.Configuration, error) {
	if !explicit {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return config.LoadDefaults()
		}
	}

	conf, err := config.LoadConfiguration(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration at %s: %w", path, err)
	}
	return conf, nil
}

// pickScenario returns the named scenario, or the configured default when name
// is empty.
func (a *app) pickScenario(name string) (scenario.Scenario, error) {
	if name == "" {
		return a.conf.DefaultScenario()
	}
	return scenario.Parse(name)
}

// service validates the configuration and builds the dashboard service,
// backed by the remote forecasting API when one is enabled.
func (a *app) service() (*dashboard.Service, error) {
	if err := a.conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	history, err := a.conf.HistoricalSeries()
	if err != nil {
		return nil, err
	}

	var opts []dashboard.Option
	if a.conf.Remote.Enabled {
		remote, err := client.New(a.conf.Remote.BaseURL, a.logger, client.WithTimeout(a.conf.Remote.Timeout))
		if err != nil {
			return nil, err
		}
		opts = append(opts, dashboard.WithRemote(remote))
		a.logger.Debug("using remote forecasting backend",
			zap.String("op", "main"),
			zap.String("base_url", a.conf.Remote.BaseURL),
		)
	}

	engine := forecast.NewEngine(a.logger, a.conf.EngineOptions()...)
	return dashboard.NewService(a.logger, engine, history, a.conf.Forecast.Horizon, opts...), nil
}

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// CLI override takes precedence
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
	case "json":
		zapConfig = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
			}
		}

		// Fail early if the file cannot be written.
		file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", loggingConfig.OutputFile, err)
		}
		_ = file.Close()

		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}
