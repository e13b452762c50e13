// Package forecast projects a historical emissions series forward under a
// scenario's drift rates.
package forecast

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/iwvelando/emissions-forecast/internal/scenario"
	"github.com/iwvelando/emissions-forecast/internal/series"
	"github.com/iwvelando/emissions-forecast/pkg/constants"
	"github.com/iwvelando/emissions-forecast/pkg/datetime"
	"github.com/iwvelando/emissions-forecast/pkg/mathutil"
	"go.uber.org/zap"
)

// ErrNegativeHorizon is returned when a projection is requested for fewer than
// zero periods.
var ErrNegativeHorizon = errors.New("horizon must not be negative")

// NoiseSource yields uniformly distributed values in [0, 1). *rand.Rand
// satisfies it.
type NoiseSource interface {
	Float64() float64
}

// NoNoise is a NoiseSource that always returns the midpoint of the noise band,
// so every period's noise term is exactly zero.
type NoNoise struct{}

// Float64 returns 0.5.
func (NoNoise) Float64() float64 { return 0.5 }

// NewSeededSource returns a reproducible NoiseSource.
func NewSeededSource(seed int64) NoiseSource {
	return rand.New(rand.NewSource(seed))
}

// Engine projects emissions series. An Engine is not safe for concurrent use
// when its NoiseSource is not.
type Engine struct {
	logger           *zap.Logger
	noise            NoiseSource
	noiseAmplitude   float64
	productionGrowth float64
}

// Option customizes an Engine.
type Option func(*Engine)

// WithNoiseSource injects the random source used for per-period noise.
func WithNoiseSource(src NoiseSource) Option {
	return func(e *Engine) {
		if src != nil {
			e.noise = src
		}
	}
}

// WithNoiseAmplitude sets the width of the noise band; 0 disables noise.
func WithNoiseAmplitude(amplitude float64) Option {
	return func(e *Engine) {
		e.noiseAmplitude = amplitude
	}
}

// WithProductionGrowth sets the per-period growth of production and revenue.
func WithProductionGrowth(rate float64) Option {
	return func(e *Engine) {
		e.productionGrowth = rate
	}
}

// NewEngine creates a projection engine. Without WithNoiseSource the engine
// draws from a time-seeded source and its output differs between runs.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewEngine(logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		logger:           logger,
		noiseAmplitude:   constants.DefaultNoiseAmplitude,
		productionGrowth: constants.DefaultProductionGrowth,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.noise == nil {
		e.noise = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return e
}

// Project returns historical extended by horizon projected fiscal years. The
// historical records are carried over unchanged.
func (e *Engine) Project(historical series.Series, s scenario.Scenario, horizon int) (series.Series, error) {
	if horizon < 0 {
		return series.Series{}, fmt.Errorf("%w: %d", ErrNegativeHorizon, horizon)
	}
	drift, ok := s.Drift()
	if !ok {
		return series.Series{}, fmt.Errorf("%w: %q", scenario.ErrUnknownScenario, string(s))
	}
	if horizon == 0 {
		return historical, nil
	}

	last, err := historical.LastHistorical()
	if err != nil {
		return series.Series{}, err
	}
	if historical.ForecastStart() >= 0 {
		return series.Series{}, fmt.Errorf("series already contains %d projected records", len(historical.Projected()))
	}

	scope1 := last.Scope1
	scope2 := last.Scope2
	scope3 := last.Scope3
	production := last.Production
	revenue := last.Revenue
	year := last.Year

	projected := make([]series.YearRecord, 0, horizon)
	for i := 0; i < horizon; i++ {
		year, err = datetime.NextFiscalYear(year)
		if err != nil {
			return series.Series{}, fmt.Errorf("failed to advance fiscal year: %w", err)
		}

		// Revenue tracks production.
		production = mathutil.Grow(production, e.productionGrowth)
		revenue = mathutil.Grow(revenue, e.productionGrowth)

		// One draw per period, shared by all three scopes.
		noise := (e.noise.Float64() - 0.5) * e.noiseAmplitude

		scope1 = mathutil.Floor(mathutil.Grow(scope1, drift.Scope1+noise))
		scope2 = mathutil.Floor(mathutil.Grow(scope2, drift.Scope2+noise))
		scope3 = mathutil.Floor(mathutil.Grow(scope3, drift.Scope3+noise))

		projected = append(projected, series.YearRecord{
			Year:         year,
			Scope1:       mathutil.Round(scope1),
			Scope2:       mathutil.Round(scope2),
			Scope3:       mathutil.Round(scope3),
			Production:   mathutil.Round(production),
			Revenue:      mathutil.Round(revenue),
			IsHistorical: false,
		})
	}

	result, err := historical.Append(projected...)
	if err != nil {
		return series.Series{}, fmt.Errorf("failed to assemble projection: %w", err)
	}

	e.logger.Debug("projection computed",
		zap.String("op", "forecast.Project"),
		zap.String("scenario", s.String()),
		zap.Int("horizon", horizon),
		zap.String("from", last.Year),
		zap.String("to", year),
	)

	return result, nil
}
