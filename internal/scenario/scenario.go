// Package scenario defines the closed set of decarbonization pathways and the
// per-scope drift rates each one applies during projection.
package scenario

import (
	"errors"
	"fmt"
	"strings"
)

// Scenario identifies a decarbonization pathway.
type Scenario string

// The supported scenarios.
const (
	BAU        Scenario = "BAU"
	Moderate   Scenario = "Moderate"
	Aggressive Scenario = "Aggressive"
)

// ErrUnknownScenario is returned when a name does not match a supported scenario.
var ErrUnknownScenario = errors.New("unknown scenario")

// Drift holds the fractional per-year change applied to each emissions scope.
type Drift struct {
	Scope1 float64
	Scope2 float64
	Scope3 float64
}

// All returns the supported scenarios in display order.
func All() []Scenario {
	return []Scenario{BAU, Moderate, Aggressive}
}

// Parse resolves a scenario name, ignoring case and surrounding whitespace.
func Parse(name string) (Scenario, error) {
	trimmed := strings.TrimSpace(name)
	for _, s := range All() {
		if strings.EqualFold(trimmed, string(s)) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q (expected one of %s)", ErrUnknownScenario, name, strings.Join(Names(), ", "))
}

// Names returns the scenario names in display order.
func Names() []string {
	all := All()
	names := make([]string, len(all))
	for i, s := range all {
		names[i] = string(s)
	}
	return names
}

// Valid reports whether s is one of the supported scenarios.
func (s Scenario) Valid() bool {
	_, ok := s.Drift()
	return ok
}

// Drift returns the scope drift rates for s. The second result is false for
// values outside the supported set.
func (s Scenario) Drift() (Drift, bool) {
	switch s {
	case BAU:
		return Drift{Scope1: 0.015, Scope2: 0.01, Scope3: 0.02}, true
	case Moderate:
		return Drift{Scope1: -0.01, Scope2: -0.02, Scope3: -0.005}, true
	case Aggressive:
		return Drift{Scope1: -0.08, Scope2: -0.15, Scope3: -0.05}, true
	}
	return Drift{}, false
}

// Label is the human-readable name used in selectors and headings.
func (s Scenario) Label() string {
	switch s {
	case BAU:
		return "Business As Usual"
	case Moderate:
		return "Moderate"
	case Aggressive:
		return "Aggressive / Net Zero"
	}
	return string(s)
}

func (s Scenario) String() string {
	return string(s)
}
