// Package dashboard combines the historical series, the scenario projection,
// model confidence and the assembled report into the single view presented
// to users. Remote collaborators are optional; every one of them degrades to
// a local fallback.
package dashboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/iwvelando/emissions-forecast/internal/api"
	"github.com/iwvelando/emissions-forecast/internal/forecast"
	"github.com/iwvelando/emissions-forecast/internal/metrics"
	"github.com/iwvelando/emissions-forecast/internal/report"
	"github.com/iwvelando/emissions-forecast/internal/scenario"
	"github.com/iwvelando/emissions-forecast/internal/series"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Source tells where a piece of data came from.
type Source string

const (
	SourceLocal  Source = "local"
	SourceRemote Source = "remote"
)

// HistoricalProvider supplies observed emissions.
type HistoricalProvider interface {
	Historical(ctx context.Context) (series.Series, error)
}

// ForecastProvider supplies projected records for a scenario.
type ForecastProvider interface {
	Forecast(ctx context.Context, s scenario.Scenario) (api.ForecastResponse, error)
}

// ConfidenceProvider supplies model accuracy figures.
type ConfidenceProvider interface {
	Confidence(ctx context.Context) (metrics.Confidence, error)
}

// Remote is a backend that provides all three collaborators, such as
// *client.Client.
type Remote interface {
	HistoricalProvider
	ForecastProvider
	ConfidenceProvider
}

// View is everything the dashboard and report pages show for one scenario.
type View struct {
	Scenario         scenario.Scenario  `json:"scenario"`
	Series           series.Series      `json:"series"`
	ForecastStart    int                `json:"forecastStart"`
	HistoricalSource Source             `json:"historicalSource"`
	ForecastSource   Source             `json:"forecastSource"`
	Overview         metrics.Overview   `json:"overview"`
	Confidence       metrics.Confidence `json:"confidence"`
	Report           report.Report      `json:"report"`
}

// Service loads dashboard views.
type Service struct {
	logger   *zap.Logger
	fallback series.Series
	horizon  int

	historical HistoricalProvider
	forecasts  ForecastProvider
	confidence ConfidenceProvider

	// engine is guarded by mu because its noise source is not safe for
	// concurrent use.
	mu     sync.Mutex
	engine *forecast.Engine
}

// Option configures a Service.
type Option func(*Service)

// WithHistoricalProvider sets the source of observed emissions.
func WithHistoricalProvider(p HistoricalProvider) Option {
	return func(s *Service) { s.historical = p }
}

// WithForecastProvider sets the remote source of projections.
func WithForecastProvider(p ForecastProvider) Option {
	return func(s *Service) { s.forecasts = p }
}

// WithConfidenceProvider sets the source of model confidence.
func WithConfidenceProvider(p ConfidenceProvider) Option {
	return func(s *Service) { s.confidence = p }
}

// WithRemote uses r for all three collaborators.
func WithRemote(r Remote) Option {
	return func(s *Service) {
		s.historical = r
		s.forecasts = r
		s.confidence = r
	}
}

// NewService creates a Service that projects horizon years with engine and
// falls back to the given historical series.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewService(logger *zap.Logger, engine *forecast.Engine, fallback series.Series, horizon int, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if engine == nil {
		engine = forecast.NewEngine(logger)
	}
	s := &Service{
		logger:   logger,
		engine:   engine,
		fallback: fallback,
		horizon:  horizon,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Horizon returns the number of years the local engine projects.
func (s *Service) Horizon() int {
	return s.horizon
}

// Historical returns the observed series, falling back to the local series
// when the provider fails.
func (s *Service) Historical(ctx context.Context) (series.Series, Source) {
	if s.historical == nil {
		return s.fallback, SourceLocal
	}

	data, err := s.historical.Historical(ctx)
	if err == nil && data.HistoricalLen() > 0 && data.HistoricalLen() == data.Len() {
		return data, SourceRemote
	}
	if err == nil {
		err = fmt.Errorf("provider returned %d records, %d historical", data.Len(), data.HistoricalLen())
	}

	s.logger.Warn("falling back to local historical data",
		zap.String("op", "dashboard.Historical"),
		zap.Error(err),
	)
	return s.fallback, SourceLocal
}

// Confidence returns the model confidence, falling back to fixed figures when
// the provider fails.
func (s *Service) Confidence(ctx context.Context) metrics.Confidence {
	if s.confidence == nil {
		return metrics.FallbackConfidence()
	}

	c, err := s.confidence.Confidence(ctx)
	if err != nil {
		s.logger.Warn("falling back to default confidence",
			zap.String("op", "dashboard.Confidence"),
			zap.Error(err),
		)
		return metrics.FallbackConfidence()
	}
	return c
}

// Forecast projects history under sc. The remote provider is tried first;
// any failure, including a response that does not extend history into a
// valid series, falls back to the local engine.
func (s *Service) Forecast(ctx context.Context, history series.Series, sc scenario.Scenario) (series.Series, Source, error) {
	if !sc.Valid() {
		return series.Series{}, "", fmt.Errorf("%w: %q", scenario.ErrUnknownScenario, string(sc))
	}

	if s.forecasts != nil {
		resp, err := s.forecasts.Forecast(ctx, sc)
		if err == nil {
			var joined series.Series
			joined, err = history.Append(resp.Data...)
			if err == nil {
				return joined, SourceRemote, nil
			}
			err = fmt.Errorf("remote forecast does not extend history: %w", err)
		}
		s.logger.Warn("falling back to local projection",
			zap.String("op", "dashboard.Forecast"),
			zap.String("scenario", sc.String()),
			zap.Error(err),
		)
	}

	projected, err := s.project(history, sc)
	if err != nil {
		return series.Series{}, "", err
	}
	return projected, SourceLocal, nil
}

func (s *Service) project(history series.Series, sc scenario.Scenario) (series.Series, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Project(history, sc, s.horizon)
}

// Load assembles the view for sc. Historical data and confidence are fetched
// concurrently and both are awaited before projection.
func (s *Service) Load(ctx context.Context, sc scenario.Scenario) (View, error) {
	if !sc.Valid() {
		return View{}, fmt.Errorf("%w: %q", scenario.ErrUnknownScenario, string(sc))
	}

	var (
		history    series.Series
		histSource Source
		confidence metrics.Confidence
		g          errgroup.Group
	)
	g.Go(func() error {
		history, histSource = s.Historical(ctx)
		return nil
	})
	g.Go(func() error {
		confidence = s.Confidence(ctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return View{}, err
	}

	data, source, err := s.Forecast(ctx, history, sc)
	if err != nil {
		return View{}, fmt.Errorf("failed to project %s: %w", sc, err)
	}

	overview, err := metrics.NewOverview(data)
	if err != nil {
		return View{}, fmt.Errorf("failed to compute overview: %w", err)
	}
	rep, err := report.Build(sc, data)
	if err != nil {
		return View{}, fmt.Errorf("failed to build report: %w", err)
	}

	s.logger.Debug("dashboard view loaded",
		zap.String("op", "dashboard.Load"),
		zap.String("scenario", sc.String()),
		zap.String("historicalSource", string(histSource)),
		zap.String("forecastSource", string(source)),
		zap.Int("records", data.Len()),
	)

	return View{
		Scenario:         sc,
		Series:           data,
		ForecastStart:    data.ForecastStart(),
		HistoricalSource: histSource,
		ForecastSource:   source,
		Overview:         overview,
		Confidence:       confidence,
		Report:           rep,
	}, nil
}
