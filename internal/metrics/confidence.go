package metrics

import (
	"github.com/iwvelando/emissions-forecast/pkg/constants"
	"github.com/iwvelando/emissions-forecast/pkg/mathutil"
)

// ScopeAccuracy holds the hold-out error figures of one scope's model.
type ScopeAccuracy struct {
	MAPE float64 `json:"mape"`
	RMSE float64 `json:"rmse"`
	R2   float64 `json:"r2"`
}

// Confidence describes forecast model quality. It is informational only and
// never feeds back into projection.
type Confidence struct {
	Overall      float64       `json:"overall"`
	Scope1       ScopeAccuracy `json:"scope1"`
	Scope2       ScopeAccuracy `json:"scope2"`
	Scope3       ScopeAccuracy `json:"scope3"`
	TrainingDate string        `json:"trainingDate,omitempty"`
	Fallback     bool          `json:"fallback"`
}

// OverallConfidence converts per-scope MAPE into a single score,
// (1 - mean(MAPE)/100) * 100, rounded to one decimal.
func OverallConfidence(mapes ...float64) Ratio {
	if len(mapes) == 0 {
		return Ratio{}
	}
	score := (1 - mathutil.Mean(mapes)/constants.PercentageMultiplier) * constants.PercentageMultiplier
	return Ratio{Value: mathutil.RoundTo(score, 1), Defined: true}
}

// FallbackConfidence is reported when no confidence provider answers.
func FallbackConfidence() Confidence {
	return Confidence{
		Overall:  constants.FallbackOverallConfidence,
		Scope1:   ScopeAccuracy{MAPE: constants.FallbackScope1MAPE, R2: constants.FallbackScope1R2},
		Scope2:   ScopeAccuracy{MAPE: constants.FallbackScope2MAPE, R2: constants.FallbackScope2R2},
		Scope3:   ScopeAccuracy{MAPE: constants.FallbackScope3MAPE, R2: constants.FallbackScope3R2},
		Fallback: true,
	}
}
