// Package validation provides common validation utilities.
package validation

import (
	"fmt"
	"strings"

	"github.com/iwvelando/emissions-forecast/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported
// formats for tabular output.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatJSON {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatJSON, format)
	}
	return nil
}

// ValidateReportFormat checks if the format is one a report can be rendered in.
func ValidateReportFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatJSON,
		constants.OutputFormatMarkdown, constants.OutputFormatHTML:
		return nil
	}
	return fmt.Errorf("expected report format of %s, got %s", strings.Join([]string{
		constants.OutputFormatPretty, constants.OutputFormatJSON,
		constants.OutputFormatMarkdown, constants.OutputFormatHTML,
	}, ", "), format)
}
