package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/emissions-forecast/internal/config"
	"github.com/iwvelando/emissions-forecast/internal/scenario"
	"github.com/iwvelando/emissions-forecast/internal/series"
	"github.com/iwvelando/emissions-forecast/pkg/constants"
	"go.uber.org/zap"
)

const quietConfig = `
forecast:
  scenario: Moderate
  horizon: 2
  noiseAmplitude: 0
logging:
  level: error
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// execute runs the root command with args and returns its standard output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInitializeLogger(t *testing.T) {
	tests := []struct {
		name      string
		config    config.LoggingConfig
		override  string
		wantError bool
	}{
		{"Defaults", config.LoggingConfig{}, "", false},
		{"Debug console", config.LoggingConfig{Level: "debug", Format: "console"}, "", false},
		{"Warning alias", config.LoggingConfig{Level: "warning"}, "", false},
		{"Override wins", config.LoggingConfig{Level: "verbose"}, "error", false},
		{"Invalid level", config.LoggingConfig{Level: "verbose"}, "", true},
		{"Invalid format", config.LoggingConfig{Format: "xml"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := initializeLogger(tt.config, tt.override)
			if (err != nil) != tt.wantError {
				t.Fatalf("initializeLogger() error = %v, wantError %v", err, tt.wantError)
			}
			if !tt.wantError && logger == nil {
				t.Fatalf("initializeLogger() returned nil logger")
			}
		})
	}
}

func TestInitializeLoggerOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	logger, err := initializeLogger(config.LoggingConfig{Level: "info", OutputFile: path}, "")
	if err != nil {
		t.Fatalf("initializeLogger() error = %v", err)
	}
	logger.Info("hello", zap.String("op", "test"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not created: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Errorf("log file contents = %q, expected JSON entry", data)
	}
}

func TestLoadConfiguration(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	conf, err := loadConfiguration(missing, false)
	if err != nil {
		t.Fatalf("loadConfiguration() with implicit missing file error = %v", err)
	}
	if conf.Forecast.Horizon != constants.DefaultHorizon {
		t.Errorf("Forecast.Horizon = %d, expected default %d", conf.Forecast.Horizon, constants.DefaultHorizon)
	}

	if _, err := loadConfiguration(missing, true); err == nil {
		t.Errorf("loadConfiguration() with explicit missing file expected error but got none")
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		name       string
		flag       string
		configured string
		override   string
		expected   string
	}{
		{"Default", "", "", "", constants.OutputFormatPretty},
		{"Configured", "", "json", "", "json"},
		{"Persistent flag", "pretty", "json", "", "pretty"},
		{"Command override", "pretty", "json", "html", "html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := &rootOptions{outputFormat: tt.flag}
			conf := &config.Configuration{Output: config.OutputConfig{Format: tt.configured}}
			if got := root.resolveFormat(conf, tt.override); got != tt.expected {
				t.Errorf("resolveFormat() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestProjectPretty(t *testing.T) {
	out, err := execute(t, "project", "--config", writeConfig(t, quietConfig))
	if err != nil {
		t.Fatalf("project error = %v", err)
	}

	for _, fragment := range []string{
		"--- Results for scenario Moderate ---",
		"2020-21  |    33.00 |",
		"-------- | forecast start",
		"Final year 2026-27 revenue:",
	} {
		if !strings.Contains(out, fragment) {
			t.Errorf("project output missing %q\n%s", fragment, out)
		}
	}
}

func TestProjectJSON(t *testing.T) {
	out, err := execute(t, "project",
		"--config", writeConfig(t, quietConfig),
		"--scenario", "aggressive",
		"--horizon", "1",
		"--seed", "9",
		"--output-format", "json",
	)
	if err != nil {
		t.Fatalf("project error = %v", err)
	}

	var records []series.YearRecord
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("project output is not JSON: %v\n%s", err, out)
	}
	if len(records) != 6 {
		t.Fatalf("len(records) = %d, expected 6", len(records))
	}
	last := records[len(records)-1]
	if last.Year != "2025-26" || last.IsHistorical {
		t.Errorf("last record = %+v, expected projected 2025-26", last)
	}
}

func TestProjectErrors(t *testing.T) {
	path := writeConfig(t, quietConfig)

	tests := []struct {
		name string
		args []string
	}{
		{"Unknown scenario", []string{"project", "--config", path, "--scenario", "Stretch"}},
		{"Unsupported output format", []string{"project", "--config", path, "--output-format", "csv"}},
		{"Negative horizon", []string{"project", "--config", path, "--horizon", "-1"}},
		{"Missing explicit config", []string{"project", "--config", filepath.Join(t.TempDir(), "none.yaml")}},
		{"Invalid log level", []string{"project", "--config", path, "--log-level", "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := execute(t, tt.args...); err == nil {
				t.Errorf("execute(%v) expected error but got none", tt.args)
			}
		})
	}
}

func TestProjectUnknownScenarioSentinel(t *testing.T) {
	_, err := execute(t, "project", "--config", writeConfig(t, quietConfig), "--scenario", "Stretch")
	if !errors.Is(err, scenario.ErrUnknownScenario) {
		t.Errorf("project error = %v, expected ErrUnknownScenario", err)
	}
}

func TestReportFormats(t *testing.T) {
	path := writeConfig(t, quietConfig)

	tests := []struct {
		format   string
		expected string
	}{
		{"pretty", "=== Emissions Forecast Report: Moderate Scenario ==="},
		{"json", `"title": "Emissions Forecast Report: Moderate Scenario"`},
		{"markdown", "# Emissions Forecast Report: Moderate Scenario"},
		{"html", "<h2>Strategic Recommendations</h2>"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out, err := execute(t, "report", "--config", path, "--format", tt.format)
			if err != nil {
				t.Fatalf("report error = %v", err)
			}
			if !strings.Contains(out, tt.expected) {
				t.Errorf("report --format %s output missing %q\n%s", tt.format, tt.expected, out)
			}
		})
	}
}

func TestReportUnsupportedFormat(t *testing.T) {
	if _, err := execute(t, "report", "--config", writeConfig(t, quietConfig), "--format", "pdf"); err == nil {
		t.Errorf("report --format pdf expected error but got none")
	}
}

func TestOverview(t *testing.T) {
	path := writeConfig(t, quietConfig)

	out, err := execute(t, "overview", "--config", path)
	if err != nil {
		t.Fatalf("overview error = %v", err)
	}
	for _, fragment := range []string{
		"--- Overview for FY2024-25 ---",
		"Overall: 89.2% (default)",
	} {
		if !strings.Contains(out, fragment) {
			t.Errorf("overview output missing %q\n%s", fragment, out)
		}
	}

	out, err = execute(t, "overview", "--config", path, "--output-format", "json")
	if err != nil {
		t.Fatalf("overview json error = %v", err)
	}
	var decoded struct {
		Overview struct {
			Year string `json:"year"`
		} `json:"overview"`
		Confidence struct {
			Overall  float64 `json:"overall"`
			Fallback bool    `json:"fallback"`
		} `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("overview output is not JSON: %v\n%s", err, out)
	}
	if !decoded.Confidence.Fallback || decoded.Confidence.Overall != 89.2 {
		t.Errorf("confidence = %+v, expected fallback 89.2", decoded.Confidence)
	}
}

func TestProjectFallsBackWhenRemoteFails(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model not loaded"}`, http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	path := writeConfig(t, quietConfig+`
remote:
  enabled: true
  baseURL: `+ts.URL+`
  timeout: 1s
`)

	out, err := execute(t, "project", "--config", path)
	if err != nil {
		t.Fatalf("project error = %v", err)
	}
	if !strings.Contains(out, "Final year 2026-27 revenue:") {
		t.Errorf("expected local projection output\n%s", out)
	}
}

func TestRunServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}

	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runServer(ctx, zap.NewNop(), srv, ln)
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, expected %d", resp.StatusCode, http.StatusNoContent)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("runServer() error = %v", err)
		}
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatalf("runServer() did not return after cancellation")
	}
}
