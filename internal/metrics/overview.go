package metrics

import (
	"fmt"

	"github.com/iwvelando/emissions-forecast/internal/series"
	"github.com/iwvelando/emissions-forecast/pkg/constants"
)

// Overview holds the headline figures for the latest observed fiscal year.
type Overview struct {
	Year               string  `json:"year"`
	Total              float64 `json:"total"`
	TotalChange        Ratio   `json:"totalChangeYoY"`
	Intensity          Ratio   `json:"intensity"`
	IntensityChange    Ratio   `json:"intensityChangeYoY"`
	PrimaryDriver      string  `json:"primaryDriver"`
	PrimaryDriverShare Ratio   `json:"primaryDriverShare"`
}

// NewOverview compares the two most recent historical records of s. A series
// with a single historical record yields undefined year-over-year changes.
func NewOverview(s series.Series) (Overview, error) {
	current, err := s.LastHistorical()
	if err != nil {
		return Overview{}, err
	}

	o := Overview{
		Year:      current.Year,
		Total:     current.Total(),
		Intensity: Intensity(current),
	}

	if n := s.HistoricalLen(); n >= 2 {
		previous := s.At(n - 2)
		o.TotalChange = PercentChange(previous.Total(), current.Total())
		if prevIntensity := Intensity(previous); prevIntensity.Defined && o.Intensity.Defined {
			o.IntensityChange = PercentChange(prevIntensity.Value, o.Intensity.Value)
		}
	}

	o.PrimaryDriver, o.PrimaryDriverShare = primaryDriver(current)
	return o, nil
}

// primaryDriver names the largest scope and its share of the total in percent.
func primaryDriver(r series.YearRecord) (string, Ratio) {
	values := []float64{r.Scope1, r.Scope2, r.Scope3}
	largest := 0
	for i, v := range values {
		if v > values[largest] {
			largest = i
		}
	}
	share := Divide(values[largest]*constants.PercentageMultiplier, r.Total())
	return fmt.Sprintf("Scope %d", largest+1), share
}
