// Package api defines the JSON documents exchanged with the forecasting
// backend. The same shapes are produced by internal/server and consumed by
// internal/client.
package api

import (
	"github.com/iwvelando/emissions-forecast/internal/metrics"
	"github.com/iwvelando/emissions-forecast/internal/series"
)

// Scope keys used in ForecastResponse.Metrics.
const (
	MetricsScope1 = "scope1"
	MetricsScope2 = "scope2"
	MetricsScope3 = "scope3"
)

// HealthResponse is returned by GET /.
type HealthResponse struct {
	Status      string `json:"status"`
	Service     string `json:"service"`
	ModelLoaded bool   `json:"model_loaded"`
	Version     string `json:"version"`
}

// HistoricalResponse is returned by GET /api/historical.
type HistoricalResponse struct {
	Data []series.YearRecord `json:"data"`
}

// ForecastResponse is returned by GET /api/forecast. Data holds only the
// projected records.
type ForecastResponse struct {
	Scenario   string                           `json:"scenario"`
	Data       []series.YearRecord              `json:"data"`
	Confidence float64                          `json:"confidence"`
	Metrics    map[string]metrics.ScopeAccuracy `json:"metrics"`
}

// ConfidenceResponse is returned by GET /api/confidence.
type ConfidenceResponse struct {
	Overall      float64 `json:"overall"`
	Scope1MAPE   float64 `json:"scope1_mape"`
	Scope2MAPE   float64 `json:"scope2_mape"`
	Scope3MAPE   float64 `json:"scope3_mape"`
	Scope1R2     float64 `json:"scope1_r2"`
	Scope2R2     float64 `json:"scope2_r2"`
	Scope3R2     float64 `json:"scope3_r2"`
	TrainingDate string  `json:"training_date"`
}

// VersionResponse is returned by GET /api/version.
type VersionResponse struct {
	Version   string   `json:"version"`
	Model     string   `json:"model_type"`
	Scenarios []string `json:"scenarios"`
	Horizon   int      `json:"horizon"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ToConfidence converts the flat wire form into metrics.Confidence.
func (r ConfidenceResponse) ToConfidence() metrics.Confidence {
	return metrics.Confidence{
		Overall:      r.Overall,
		Scope1:       metrics.ScopeAccuracy{MAPE: r.Scope1MAPE, R2: r.Scope1R2},
		Scope2:       metrics.ScopeAccuracy{MAPE: r.Scope2MAPE, R2: r.Scope2R2},
		Scope3:       metrics.ScopeAccuracy{MAPE: r.Scope3MAPE, R2: r.Scope3R2},
		TrainingDate: r.TrainingDate,
	}
}

// NewConfidenceResponse flattens c for the wire.
func NewConfidenceResponse(c metrics.Confidence) ConfidenceResponse {
	return ConfidenceResponse{
		Overall:      c.Overall,
		Scope1MAPE:   c.Scope1.MAPE,
		Scope2MAPE:   c.Scope2.MAPE,
		Scope3MAPE:   c.Scope3.MAPE,
		Scope1R2:     c.Scope1.R2,
		Scope2R2:     c.Scope2.R2,
		Scope3R2:     c.Scope3.R2,
		TrainingDate: c.TrainingDate,
	}
}

// ScopeMetrics keys the per-scope accuracy of c the way ForecastResponse does.
func ScopeMetrics(c metrics.Confidence) map[string]metrics.ScopeAccuracy {
	return map[string]metrics.ScopeAccuracy{
		MetricsScope1: c.Scope1,
		MetricsScope2: c.Scope2,
		MetricsScope3: c.Scope3,
	}
}
