package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/emissions-forecast/internal/api"
	"github.com/iwvelando/emissions-forecast/internal/dashboard"
	"github.com/iwvelando/emissions-forecast/internal/forecast"
	"github.com/iwvelando/emissions-forecast/internal/metrics"
	"github.com/iwvelando/emissions-forecast/internal/report"
	"github.com/iwvelando/emissions-forecast/internal/series"
	"github.com/iwvelando/emissions-forecast/pkg/constants"
	"go.uber.org/zap"
)

type slowConfidence struct{}

func (slowConfidence) Confidence(ctx context.Context) (metrics.Confidence, error) {
	<-ctx.Done()
	return metrics.Confidence{}, ctx.Err()
}

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	engine := forecast.NewEngine(nil, forecast.WithNoiseSource(forecast.NoNoise{}))
	svc := dashboard.NewService(zap.NewNop(), engine, series.Default(), constants.DefaultHorizon)
	return NewHandler(zap.NewNop(), svc, Options{Version: "1.2.3", AllowedOrigins: []string{"*"}})
}

func perform(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), dst); err != nil {
		t.Fatalf("failed to decode response: %v\n%s", err, rr.Body.String())
	}
}

func TestHandleHealth(t *testing.T) {
	rr := perform(t, newTestHandler(t), http.MethodGet, "/")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp api.HealthResponse
	decode(t, rr, &resp)
	if resp.Status != "online" || resp.Service != constants.ServiceName || !resp.ModelLoaded || resp.Version != "1.2.3" {
		t.Errorf("unexpected health response %+v", resp)
	}
	if rr.Header().Get(constants.RequestIDHeader) == "" {
		t.Errorf("expected %s header", constants.RequestIDHeader)
	}
}

func TestHandleUnknownPath(t *testing.T) {
	rr := perform(t, newTestHandler(t), http.MethodGet, "/api/unknown")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
}

func TestHandleHistorical(t *testing.T) {
	rr := perform(t, newTestHandler(t), http.MethodGet, "/api/historical")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp api.HistoricalResponse
	decode(t, rr, &resp)
	if len(resp.Data) != 5 {
		t.Fatalf("expected 5 historical records, got %d", len(resp.Data))
	}
	if resp.Data[0].Year != "2020-21" || !resp.Data[4].IsHistorical {
		t.Errorf("unexpected historical data %+v", resp.Data)
	}
}

func TestHandleForecast(t *testing.T) {
	tests := []struct {
		name             string
		target           string
		expectedScenario string
	}{
		{"Default scenario", "/api/forecast", "Aggressive"},
		{"Explicit scenario", "/api/forecast?scenario=BAU", "BAU"},
		{"Case insensitive", "/api/forecast?scenario=moderate", "Moderate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := perform(t, newTestHandler(t), http.MethodGet, tt.target)
			if rr.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
			}

			var resp api.ForecastResponse
			decode(t, rr, &resp)
			if resp.Scenario != tt.expectedScenario {
				t.Errorf("expected scenario %s, got %s", tt.expectedScenario, resp.Scenario)
			}
			if len(resp.Data) != constants.DefaultHorizon {
				t.Fatalf("expected %d projected records, got %d", constants.DefaultHorizon, len(resp.Data))
			}
			if resp.Data[0].Year != "2025-26" || resp.Data[0].IsHistorical {
				t.Errorf("unexpected first projected record %+v", resp.Data[0])
			}
			if resp.Confidence != constants.FallbackOverallConfidence {
				t.Errorf("expected confidence %v, got %v", constants.FallbackOverallConfidence, resp.Confidence)
			}
			if len(resp.Metrics) != 3 {
				t.Errorf("expected 3 scope metrics, got %d", len(resp.Metrics))
			}
		})
	}
}

func TestHandleForecastUnknownScenario(t *testing.T) {
	rr := perform(t, newTestHandler(t), http.MethodGet, "/api/forecast?scenario=Stretch")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}

	var resp api.ErrorResponse
	decode(t, rr, &resp)
	if !strings.Contains(resp.Error, "BAU, Moderate, Aggressive") {
		t.Errorf("expected valid scenarios in error, got %q", resp.Error)
	}
}

func TestHandleConfidence(t *testing.T) {
	rr := perform(t, newTestHandler(t), http.MethodGet, "/api/confidence")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp api.ConfidenceResponse
	decode(t, rr, &resp)
	if resp.Overall != 89.2 || resp.Scope1MAPE != 10.8 || resp.Scope3R2 != 0.78 {
		t.Errorf("unexpected confidence %+v", resp)
	}
}

func TestHandleReport(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		contentType string
		fragment    string
	}{
		{"JSON", "/api/report?scenario=Moderate", "application/json", `"title":"Emissions Forecast Report: Moderate Scenario"`},
		{"Markdown", "/api/report?scenario=BAU&format=markdown", "text/markdown", "## Risk Assessment"},
		{"HTML", "/api/report?scenario=Aggressive&format=HTML", "text/html", "<h2>Strategic Recommendations</h2>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := perform(t, newTestHandler(t), http.MethodGet, tt.target)
			if rr.Code != http.StatusOK {
				t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
			}
			if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, tt.contentType) {
				t.Errorf("expected content type %s, got %s", tt.contentType, ct)
			}
			if !strings.Contains(rr.Body.String(), tt.fragment) {
				t.Errorf("expected body to contain %q", tt.fragment)
			}
		})
	}
}

func TestHandleReportJSONShape(t *testing.T) {
	rr := perform(t, newTestHandler(t), http.MethodGet, "/api/report?scenario=Aggressive")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp report.Report
	decode(t, rr, &resp)
	if len(resp.KeyMetrics) != 3 || resp.KeyMetrics[0].Value != "89.0 MT" {
		t.Errorf("unexpected key metrics %+v", resp.KeyMetrics)
	}
	if len(resp.Recommendations) != 4 {
		t.Errorf("expected 4 recommendations, got %d", len(resp.Recommendations))
	}
}

func TestHandleReportUnsupportedFormat(t *testing.T) {
	rr := perform(t, newTestHandler(t), http.MethodGet, "/api/report?format=pdf")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rr.Code)
	}
}

func TestHandleDashboard(t *testing.T) {
	rr := perform(t, newTestHandler(t), http.MethodGet, "/api/dashboard?scenario=BAU")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Scenario       string              `json:"scenario"`
		Series         []series.YearRecord `json:"series"`
		ForecastStart  int                 `json:"forecastStart"`
		ForecastSource string              `json:"forecastSource"`
		Overview       struct {
			Year          string `json:"year"`
			PrimaryDriver string `json:"primaryDriver"`
		} `json:"overview"`
	}
	decode(t, rr, &resp)

	if resp.Scenario != "BAU" || len(resp.Series) != 35 || resp.ForecastStart != 5 {
		t.Errorf("unexpected dashboard %+v", resp)
	}
	if resp.ForecastSource != "local" {
		t.Errorf("expected local forecast source, got %s", resp.ForecastSource)
	}
	if resp.Overview.Year != "2024-25" || resp.Overview.PrimaryDriver != "Scope 1" {
		t.Errorf("unexpected overview %+v", resp.Overview)
	}
}

func TestHandleVersion(t *testing.T) {
	rr := perform(t, newTestHandler(t), http.MethodGet, "/api/version")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	var resp api.VersionResponse
	decode(t, rr, &resp)
	if resp.Version != "1.2.3" || resp.Horizon != constants.DefaultHorizon || len(resp.Scenarios) != 3 {
		t.Errorf("unexpected version response %+v", resp)
	}
}

func TestHandleVersionDefaultsToDev(t *testing.T) {
	h := NewHandler(nil, nil, Options{})
	rr := perform(t, h, http.MethodGet, "/api/version")

	var resp api.VersionResponse
	decode(t, rr, &resp)
	if resp.Version != "dev" {
		t.Errorf("expected dev version, got %s", resp.Version)
	}
}

func TestHandlerWithoutService(t *testing.T) {
	h := NewHandler(nil, nil, Options{})

	rr := perform(t, h, http.MethodGet, "/api/forecast")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rr.Code)
	}

	rr = perform(t, h, http.MethodGet, "/")
	var health api.HealthResponse
	decode(t, rr, &health)
	if health.ModelLoaded {
		t.Errorf("expected model_loaded false without a service")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	for _, target := range []string{"/", "/api/historical", "/api/forecast", "/api/confidence", "/api/report", "/api/version"} {
		rr := perform(t, newTestHandler(t), http.MethodPost, target)
		if rr.Code != http.StatusMethodNotAllowed {
			t.Errorf("POST %s: expected status 405, got %d", target, rr.Code)
		}
	}
}

func TestRequestIDPropagation(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	req.Header.Set(constants.RequestIDHeader, "abc-123")
	rr := httptest.NewRecorder()
	newTestHandler(t).ServeHTTP(rr, req)

	if got := rr.Header().Get(constants.RequestIDHeader); got != "abc-123" {
		t.Errorf("expected request id abc-123, got %q", got)
	}
}

func TestCORS(t *testing.T) {
	h := NewHandler(nil, nil, Options{AllowedOrigins: []string{"https://dashboard.example.com"}})

	tests := []struct {
		name          string
		origin        string
		expectAllowed bool
	}{
		{"Allowed origin", "https://dashboard.example.com", true},
		{"Other origin", "https://evil.example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/api/forecast", nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodGet)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != http.StatusNoContent {
				t.Fatalf("expected status 204, got %d", rr.Code)
			}
			got := rr.Header().Get("Access-Control-Allow-Origin")
			if tt.expectAllowed && got != tt.origin {
				t.Errorf("expected allow origin %s, got %q", tt.origin, got)
			}
			if !tt.expectAllowed && got != "" {
				t.Errorf("expected no allow origin, got %q", got)
			}
		})
	}
}

func TestRequestTimeout(t *testing.T) {
	engine := forecast.NewEngine(nil, forecast.WithNoiseSource(forecast.NoNoise{}))
	svc := dashboard.NewService(nil, engine, series.Default(), 30, dashboard.WithConfidenceProvider(slowConfidence{}))
	h := NewHandler(nil, svc, Options{RequestTimeout: 20 * time.Millisecond})

	rr := perform(t, h, http.MethodGet, "/api/confidence")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "request timed out") {
		t.Errorf("expected timeout body, got %s", rr.Body.String())
	}
}
