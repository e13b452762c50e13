// Package datetime provides fiscal year label utilities.
//
// Fiscal years are labelled by their start year and the last two digits of
// their end year, e.g. "2024-25". A bare start year ("2024") is also accepted.
package datetime

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseFiscalYear returns the start year of a fiscal year label.
func ParseFiscalYear(label string) (int, error) {
	trimmed := strings.TrimSpace(label)
	startPart, endPart, hasEnd := strings.Cut(trimmed, "-")
	if len(startPart) != 4 {
		return 0, fmt.Errorf("invalid fiscal year label %q", label)
	}
	start, err := strconv.Atoi(startPart)
	if err != nil {
		return 0, fmt.Errorf("invalid fiscal year label %q: %w", label, err)
	}
	if !hasEnd {
		return start, nil
	}

	end, err := strconv.Atoi(endPart)
	if err != nil || len(endPart) != 2 {
		return 0, fmt.Errorf("invalid fiscal year label %q", label)
	}
	if end != (start+1)%100 {
		return 0, fmt.Errorf("fiscal year label %q does not span consecutive years", label)
	}
	return start, nil
}

// MustParseFiscalYear parses a label and panics on error.
// This is intended for use in tests where the label is known to be valid.
func MustParseFiscalYear(label string) int {
	start, err := ParseFiscalYear(label)
	if err != nil {
		panic(err)
	}
	return start
}

// FormatFiscalYear returns the label for the fiscal year starting in start.
func FormatFiscalYear(start int) string {
	return fmt.Sprintf("%d-%02d", start, (start+1)%100)
}

// NextFiscalYear returns the label that follows the given one.
func NextFiscalYear(label string) (string, error) {
	start, err := ParseFiscalYear(label)
	if err != nil {
		return label, err
	}
	return FormatFiscalYear(start + 1), nil
}

// EndYear returns the calendar year in which the fiscal year closes.
func EndYear(label string) (int, error) {
	start, err := ParseFiscalYear(label)
	if err != nil {
		return 0, err
	}
	return start + 1, nil
}

// ShortLabel renders a label as "FY25". Unparsable labels are returned with
// an FY prefix unchanged.
func ShortLabel(label string) string {
	end, err := EndYear(label)
	if err != nil {
		return "FY" + label
	}
	return fmt.Sprintf("FY%02d", end%100)
}
