// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/emissions-forecast/internal/series"
)

// FixedSource is a noise source that always returns the same draw.
type FixedSource float64

// Float64 returns the fixed draw.
func (f FixedSource) Float64() float64 { return float64(f) }

// SequenceSource returns its draws in order and then repeats the last one.
type SequenceSource struct {
	Draws []float64
	next  int
}

// Float64 returns the next draw, or 0.5 when the sequence is empty.
func (s *SequenceSource) Float64() float64 {
	if len(s.Draws) == 0 {
		return 0.5
	}
	v := s.Draws[s.next]
	if s.next < len(s.Draws)-1 {
		s.next++
	}
	return v
}

// FindRecord finds a record by fiscal year label in the series.
// Returns the record and true if found, the zero record and false otherwise.
func FindRecord(s series.Series, year string) (series.YearRecord, bool) {
	for _, record := range s.Records() {
		if record.Year == year {
			return record, true
		}
	}
	return series.YearRecord{}, false
}

// Historical builds a valid historical series from (year, scope1, scope2, scope3)
// tuples with unit production and revenue.
func Historical(years []string, scopes ...[3]float64) series.Series {
	records := make([]series.YearRecord, len(years))
	for i, year := range years {
		records[i] = series.YearRecord{Year: year, Production: 1, Revenue: 1, IsHistorical: true}
		if i < len(scopes) {
			records[i].Scope1 = scopes[i][0]
			records[i].Scope2 = scopes[i][1]
			records[i].Scope3 = scopes[i][2]
		}
	}
	return series.MustNew(records...)
}
