// Package metrics derives summary figures from an emissions series.
package metrics

import (
	"encoding/json"
	"fmt"

	"github.com/iwvelando/emissions-forecast/internal/series"
	"github.com/iwvelando/emissions-forecast/pkg/constants"
	"github.com/iwvelando/emissions-forecast/pkg/format"
)

// Ratio is the result of a guarded division. Defined is false when the
// denominator was zero; Value is then 0 and must not be used.
type Ratio struct {
	Value   float64
	Defined bool
}

// Divide returns num/den, or an undefined Ratio when den is zero.
func Divide(num, den float64) Ratio {
	if den == 0 {
		return Ratio{}
	}
	return Ratio{Value: num / den, Defined: true}
}

// PercentChange returns (to-from)/from as a percentage.
func PercentChange(from, to float64) Ratio {
	r := Divide(to-from, from)
	if r.Defined {
		r.Value *= constants.PercentageMultiplier
	}
	return r
}

// Format renders the value with the given verb, or "n/a" when undefined.
func (r Ratio) Format(verb string) string {
	if !r.Defined {
		return format.NotAvailable
	}
	return fmt.Sprintf(verb, r.Value)
}

// SignedPercent renders the value as "+12.3%", or "n/a" when undefined.
func (r Ratio) SignedPercent() string {
	if !r.Defined {
		return format.NotAvailable
	}
	return format.SignedPercent(r.Value)
}

// MarshalJSON encodes an undefined Ratio as null.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(r.Value)
}

// UnmarshalJSON decodes null as an undefined Ratio and a number as a defined one.
func (r *Ratio) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Ratio{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Ratio{Value: v, Defined: true}
	return nil
}

// Scopes holds one value per emissions scope.
type Scopes struct {
	Scope1 float64 `json:"scope1"`
	Scope2 float64 `json:"scope2"`
	Scope3 float64 `json:"scope3"`
}

// ScopesOf extracts the scope values of a record.
func ScopesOf(r series.YearRecord) Scopes {
	return Scopes{Scope1: r.Scope1, Scope2: r.Scope2, Scope3: r.Scope3}
}

// Total returns the sum of a record's three scopes.
func Total(r series.YearRecord) float64 {
	return r.Total()
}

// Intensity returns emissions per unit of production for a record.
func Intensity(r series.YearRecord) Ratio {
	return Divide(r.Total(), r.Production)
}

// Summary compares the last observed year with the final year of a series.
type Summary struct {
	CurrentYear      string  `json:"currentYear"`
	FinalYear        string  `json:"finalYear"`
	TotalCurrent     float64 `json:"totalCurrent"`
	TotalFinal       float64 `json:"totalFinal"`
	PercentChange    Ratio   `json:"percentChange"`
	PerScopeCurrent  Scopes  `json:"perScopeCurrent"`
	PerScopeFinal    Scopes  `json:"perScopeFinal"`
	IntensityCurrent Ratio   `json:"intensityCurrent"`
	IntensityFinal   Ratio   `json:"intensityFinal"`
}

// Summarize computes the Summary of s. "Current" is the last historical
// record and "final" the last record overall.
func Summarize(s series.Series) (Summary, error) {
	current, err := s.LastHistorical()
	if err != nil {
		return Summary{}, err
	}
	final, _ := s.Last()

	return Summary{
		CurrentYear:      current.Year,
		FinalYear:        final.Year,
		TotalCurrent:     current.Total(),
		TotalFinal:       final.Total(),
		PercentChange:    PercentChange(current.Total(), final.Total()),
		PerScopeCurrent:  ScopesOf(current),
		PerScopeFinal:    ScopesOf(final),
		IntensityCurrent: Intensity(current),
		IntensityFinal:   Intensity(final),
	}, nil
}
