// Package client talks to a remote emissions forecasting backend.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iwvelando/emissions-forecast/internal/api"
	"github.com/iwvelando/emissions-forecast/internal/metrics"
	"github.com/iwvelando/emissions-forecast/internal/scenario"
	"github.com/iwvelando/emissions-forecast/internal/series"
	"go.uber.org/zap"
)

// maxErrorBody caps how much of an error response is kept in StatusError.
const maxErrorBody = 4096

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Operation  string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: backend returned %d: %s", e.Operation, e.StatusCode, e.Message)
}

// Client is a client for the forecasting backend's JSON API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures the Client during construction.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		if c != nil {
			cl.httpClient = c
		}
	}
}

// WithTimeout sets a timeout on the HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.httpClient.Timeout = d
		}
	}
}

// New creates a Client for the backend at baseURL.
func New(baseURL string, logger *zap.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("client: baseURL is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("client: invalid baseURL %q", baseURL)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Health checks whether the backend is online.
func (c *Client) Health(ctx context.Context) (api.HealthResponse, error) {
	var health api.HealthResponse
	if err := c.getJSON(ctx, "/", nil, "health", &health); err != nil {
		return api.HealthResponse{}, err
	}
	return health, nil
}

// Historical fetches the observed emissions series.
func (c *Client) Historical(ctx context.Context) (series.Series, error) {
	var resp api.HistoricalResponse
	if err := c.getJSON(ctx, "/api/historical", nil, "historical", &resp); err != nil {
		return series.Series{}, err
	}

	s, err := series.New(resp.Data...)
	if err != nil {
		return series.Series{}, fmt.Errorf("historical: invalid series: %w", err)
	}
	if s.Len() == 0 {
		return series.Series{}, fmt.Errorf("historical: %w", series.ErrNoHistory)
	}
	if s.HistoricalLen() != s.Len() {
		return series.Series{}, errors.New("historical: response contains projected records")
	}
	return s, nil
}

// Forecast fetches the projection for s. The returned response holds only
// the projected records; callers join them onto their historical series.
func (c *Client) Forecast(ctx context.Context, s scenario.Scenario) (api.ForecastResponse, error) {
	if !s.Valid() {
		return api.ForecastResponse{}, fmt.Errorf("forecast: %w: %q", scenario.ErrUnknownScenario, string(s))
	}

	query := url.Values{}
	query.Set("scenario", s.String())

	var resp api.ForecastResponse
	if err := c.getJSON(ctx, "/api/forecast", query, "forecast", &resp); err != nil {
		return api.ForecastResponse{}, err
	}
	for _, r := range resp.Data {
		if r.IsHistorical {
			return api.ForecastResponse{}, fmt.Errorf("forecast: record %s is marked historical", r.Year)
		}
	}
	return resp, nil
}

// Confidence fetches the model accuracy figures.
func (c *Client) Confidence(ctx context.Context) (metrics.Confidence, error) {
	var resp api.ConfidenceResponse
	if err := c.getJSON(ctx, "/api/confidence", nil, "confidence", &resp); err != nil {
		return metrics.Confidence{}, err
	}
	return resp.ToConfidence(), nil
}

// getJSON executes a GET request and decodes the JSON response into dst.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, operation string, dst any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", operation, err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("backend request",
		zap.String("op", "client.getJSON"),
		zap.String("operation", operation),
		zap.String("url", u),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: do request: %w", operation, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("backend response",
		zap.String("op", "client.getJSON"),
		zap.String("operation", operation),
		zap.Int("status", resp.StatusCode),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var errResp api.ErrorResponse
		msg := strings.TrimSpace(string(body))
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			msg = errResp.Error
		}
		if msg == "" {
			msg = resp.Status
		}
		return &StatusError{Operation: operation, StatusCode: resp.StatusCode, Message: msg}
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%s: decode response: %w", operation, err)
	}
	return nil
}
