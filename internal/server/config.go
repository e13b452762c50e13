package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/emissions-forecast/internal/config"
	"github.com/iwvelando/emissions-forecast/pkg/constants"
	"gopkg.in/yaml.v3"
)

// Config defines runtime parameters for the HTTP server.
type Config struct {
	Address        string               `yaml:"address"`
	RequestTimeout string               `yaml:"requestTimeout"`
	AllowedOrigins []string             `yaml:"allowedOrigins"`
	Logging        config.LoggingConfig `yaml:"logging"`
	requestTimeout time.Duration
}

// LoadConfig loads the server configuration from YAML. If the file does not exist,
// defaults are returned without error.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Address:        constants.DefaultServerAddress,
		RequestTimeout: constants.DefaultRequestTimeout.String(),
		AllowedOrigins: []string{"*"},
		Logging:        config.LoggingConfig{},
		requestTimeout: constants.DefaultRequestTimeout,
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read server config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse server config: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Timeout returns the configured request timeout.
func (c *Config) Timeout() time.Duration {
	return c.requestTimeout
}

// SetTimeout overrides the configured request timeout.
func (c *Config) SetTimeout(d time.Duration) {
	if d > 0 {
		c.requestTimeout = d
		c.RequestTimeout = d.String()
	}
}

func (c *Config) normalize() error {
	if c.Address == "" {
		c.Address = constants.DefaultServerAddress
	}

	timeout, err := ParseTimeout(c.RequestTimeout)
	if err != nil {
		return err
	}
	if timeout <= 0 {
		timeout = constants.DefaultRequestTimeout
	}
	c.requestTimeout = timeout
	c.RequestTimeout = timeout.String()
	return nil
}

// ParseTimeout converts a duration string ("30s", "1m") into a time.Duration.
// A bare number is read as seconds.
func ParseTimeout(value string) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return constants.DefaultRequestTimeout, nil
	}

	if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("invalid timeout: %s", value)
		}
		return time.Duration(n) * time.Second, nil
	}

	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout value %q: %w", value, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid timeout: %s", value)
	}
	return d, nil
}
