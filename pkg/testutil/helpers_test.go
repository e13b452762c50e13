package testutil

import (
	"fmt"
	"testing"

	"github.com/iwvelando/emissions-forecast/internal/series"
)

func TestFindRecord(t *testing.T) {
	s := series.Default()

	tests := []struct {
		year     string
		found    bool
		expected float64
	}{
		{"2020-21", true, 33},
		{"2024-25", true, 61},
		{"2025-26", false, 0},
		{"", false, 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("year %q", tt.year), func(t *testing.T) {
			record, ok := FindRecord(s, tt.year)
			if ok != tt.found {
				t.Fatalf("FindRecord(%q) found = %v, expected %v", tt.year, ok, tt.found)
			}
			if record.Scope1 != tt.expected {
				t.Errorf("FindRecord(%q).Scope1 = %v, expected %v", tt.year, record.Scope1, tt.expected)
			}
		})
	}
}

func TestFixedSource(t *testing.T) {
	src := FixedSource(0.25)
	for i := 0; i < 3; i++ {
		if got := src.Float64(); got != 0.25 {
			t.Errorf("Float64() = %v, expected 0.25", got)
		}
	}
}

func TestSequenceSource(t *testing.T) {
	src := &SequenceSource{Draws: []float64{0.1, 0.9}}
	expected := []float64{0.1, 0.9, 0.9}
	for i, want := range expected {
		if got := src.Float64(); got != want {
			t.Errorf("draw %d = %v, expected %v", i, got, want)
		}
	}

	empty := &SequenceSource{}
	if got := empty.Float64(); got != 0.5 {
		t.Errorf("empty Float64() = %v, expected 0.5", got)
	}
}

func TestHistorical(t *testing.T) {
	s := Historical([]string{"2023-24", "2024-25"}, [3]float64{1, 2, 3})
	if s.Len() != 2 || s.HistoricalLen() != 2 {
		t.Fatalf("Historical() returned %d records, %d historical", s.Len(), s.HistoricalLen())
	}
	if s.At(0).Total() != 6 || s.At(1).Total() != 0 {
		t.Errorf("unexpected totals %v and %v", s.At(0).Total(), s.At(1).Total())
	}
}
