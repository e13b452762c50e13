// Package series defines fiscal-year emissions records and the ordered,
// immutable series they form.
package series

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoHistory is returned when an operation needs an observed record and the
// series has none.
var ErrNoHistory = errors.New("series has no historical records")

// YearRecord holds one fiscal year's emissions, output and revenue.
type YearRecord struct {
	Year         string  `json:"year" mapstructure:"year" yaml:"year"`
	Scope1       float64 `json:"scope1" mapstructure:"scope1" yaml:"scope1"`
	Scope2       float64 `json:"scope2" mapstructure:"scope2" yaml:"scope2"`
	Scope3       float64 `json:"scope3" mapstructure:"scope3" yaml:"scope3"`
	Production   float64 `json:"production" mapstructure:"production" yaml:"production"` // million tonnes
	Revenue      float64 `json:"revenue" mapstructure:"revenue" yaml:"revenue"`          // crore INR
	IsHistorical bool    `json:"isHistorical" mapstructure:"isHistorical" yaml:"isHistorical"`
}

// Total returns the sum of the three emissions scopes.
func (r YearRecord) Total() float64 {
	return r.Scope1 + r.Scope2 + r.Scope3
}

// Series is an ordered sequence of YearRecords in which every historical record
// precedes every projected one. The zero value is an empty series.
type Series struct {
	records []YearRecord
}

// New validates the records and returns them as a Series. The input slice is
// copied.
func New(records ...YearRecord) (Series, error) {
	seen := make(map[string]struct{}, len(records))
	projected := false
	for i, record := range records {
		if record.Year == "" {
			return Series{}, fmt.Errorf("record %d has an empty year label", i)
		}
		if _, dup := seen[record.Year]; dup {
			return Series{}, fmt.Errorf("duplicate year %s", record.Year)
		}
		seen[record.Year] = struct{}{}

		if record.Scope1 < 0 || record.Scope2 < 0 || record.Scope3 < 0 ||
			record.Production < 0 || record.Revenue < 0 {
			return Series{}, fmt.Errorf("year %s has a negative value", record.Year)
		}

		if !record.IsHistorical {
			projected = true
		} else if projected {
			return Series{}, fmt.Errorf("historical year %s follows a projected year", record.Year)
		}
	}

	return Series{records: append([]YearRecord(nil), records...)}, nil
}

// MustNew is like New but panics on invalid input. It is meant for fixed
// data known to be valid.
func MustNew(records ...YearRecord) Series {
	s, err := New(records...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of records.
func (s Series) Len() int {
	return len(s.records)
}

// At returns the record at index i. It panics if i is out of range.
func (s Series) At(i int) YearRecord {
	return s.records[i]
}

// Records returns a copy of the records.
func (s Series) Records() []YearRecord {
	return append([]YearRecord(nil), s.records...)
}

// Last returns the final record.
func (s Series) Last() (YearRecord, bool) {
	if len(s.records) == 0 {
		return YearRecord{}, false
	}
	return s.records[len(s.records)-1], true
}

// ForecastStart returns the index of the first projected record, or -1 when
// the series is entirely historical.
func (s Series) ForecastStart() int {
	for i, record := range s.records {
		if !record.IsHistorical {
			return i
		}
	}
	return -1
}

// HistoricalLen returns the number of historical records.
func (s Series) HistoricalLen() int {
	if start := s.ForecastStart(); start >= 0 {
		return start
	}
	return len(s.records)
}

// Historical returns the historical prefix as its own series.
func (s Series) Historical() Series {
	return Series{records: s.records[:s.HistoricalLen():s.HistoricalLen()]}
}

// Projected returns a copy of the projected records.
func (s Series) Projected() []YearRecord {
	return append([]YearRecord(nil), s.records[s.HistoricalLen():]...)
}

// FirstHistorical returns the earliest observed record.
func (s Series) FirstHistorical() (YearRecord, error) {
	if s.HistoricalLen() == 0 {
		return YearRecord{}, ErrNoHistory
	}
	return s.records[0], nil
}

// LastHistorical returns the most recent observed record, the baseline for
// projection and reporting.
func (s Series) LastHistorical() (YearRecord, error) {
	n := s.HistoricalLen()
	if n == 0 {
		return YearRecord{}, ErrNoHistory
	}
	return s.records[n-1], nil
}

// Append returns a new series holding s followed by records. s is unchanged.
func (s Series) Append(records ...YearRecord) (Series, error) {
	combined := make([]YearRecord, 0, len(s.records)+len(records))
	combined = append(combined, s.records...)
	combined = append(combined, records...)
	return New(combined...)
}

// Equal reports whether both series hold identical records.
func (s Series) Equal(other Series) bool {
	if len(s.records) != len(other.records) {
		return false
	}
	for i := range s.records {
		if s.records[i] != other.records[i] {
			return false
		}
	}
	return true
}

// MarshalJSON encodes the series as a JSON array of records.
func (s Series) MarshalJSON() ([]byte, error) {
	if s.records == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.records)
}

// UnmarshalJSON decodes a JSON array of records, enforcing the series invariants.
func (s *Series) UnmarshalJSON(data []byte) error {
	var records []YearRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return err
	}
	decoded, err := New(records...)
	if err != nil {
		return err
	}
	*s = decoded
	return nil
}

// Default returns the facility's observed fiscal years FY2020-21 through
// FY2024-25. Each call returns an independent value.
func Default() Series {
	return MustNew(
		YearRecord{Year: "2020-21", Scope1: 33, Scope2: 4, Scope3: 5, Production: 12.19, Revenue: 156294, IsHistorical: true},
		YearRecord{Year: "2021-22", Scope1: 49, Scope2: 5, Scope3: 6, Production: 18.38, Revenue: 243959, IsHistorical: true},
		YearRecord{Year: "2022-23", Scope1: 50, Scope2: 6, Scope3: 7, Production: 18.97, Revenue: 243353, IsHistorical: true},
		YearRecord{Year: "2023-24", Scope1: 59, Scope2: 5, Scope3: 22, Production: 20.12, Revenue: 140987, IsHistorical: true},
		YearRecord{Year: "2024-25", Scope1: 61, Scope2: 5, Scope3: 23, Production: 20.72, Revenue: 218543, IsHistorical: true},
	)
}
