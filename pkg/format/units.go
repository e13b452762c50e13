// Package format renders emissions quantities for reports and terminal output.
package format

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NotAvailable is rendered in place of a value that could not be computed.
const NotAvailable = "n/a"

var printer = message.NewPrinter(language.English)

// Tonnes returns a mass quantity with one decimal and the MT unit (e.g., "89.0 MT").
func Tonnes(amount float64) string {
	return fmt.Sprintf("%.1f MT", amount)
}

// Percent returns a percentage with one decimal (e.g., "-45.6%").
func Percent(value float64) string {
	return fmt.Sprintf("%.1f%%", value)
}

// SignedPercent returns a percentage with an explicit plus sign for increases (e.g., "+12.3%").
func SignedPercent(value float64) string {
	if value > 0 {
		return "+" + Percent(value)
	}
	return Percent(value)
}

// Number returns a value with two decimals and thousands separators (e.g., "-1,234.56").
func Number(amount float64) string {
	return printer.Sprintf("%.2f", amount)
}

// Revenue returns a revenue figure in crore INR (e.g., "218,543.00 Cr INR").
func Revenue(amount float64) string {
	return Number(amount) + " Cr INR"
}
