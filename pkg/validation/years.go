package validation

import (
	"fmt"

	"github.com/iwvelando/emissions-forecast/pkg/datetime"
)

// ValidateYearSequence checks that fiscal year labels are well formed and
// consecutive, returning one warning per problem found.
func ValidateYearSequence(labels []string) []string {
	var warnings []string

	previous := -1
	for _, label := range labels {
		start, err := datetime.ParseFiscalYear(label)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("Fiscal year %q is not of the form YYYY-YY", label))
			previous = -1
			continue
		}

		if previous >= 0 {
			switch {
			case start <= previous:
				warnings = append(warnings, fmt.Sprintf("Fiscal year %s is out of order after %s",
					label, datetime.FormatFiscalYear(previous)))
			case start > previous+1:
				warnings = append(warnings, fmt.Sprintf("Fiscal years %s to %s are missing",
					datetime.FormatFiscalYear(previous+1), datetime.FormatFiscalYear(start-1)))
			}
		}
		previous = start
	}

	return warnings
}
