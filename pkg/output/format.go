// Package output provides utilities for formatting and displaying forecast results.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/emissions-forecast/internal/metrics"
	"github.com/iwvelando/emissions-forecast/internal/report"
	"github.com/iwvelando/emissions-forecast/internal/series"
	"github.com/iwvelando/emissions-forecast/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ForecastMarker is printed between the last observed year and the first
// projected one.
const ForecastMarker = "-------- | forecast start"

// PrettySeries writes a human-readable rather than machine-readable table of s.
func PrettySeries(w io.Writer, title string, s series.Series) error {
	p := message.NewPrinter(language.English)
	start := s.ForecastStart()

	var b strings.Builder
	fmt.Fprintf(&b, "--- %s ---\n", title)
	b.WriteString("Year     | Scope 1  | Scope 2  | Scope 3  | Total    | Production | Revenue\n")
	b.WriteString("____     | ________ | ________ | ________ | ________ | __________ | _______\n")
	for i := 0; i < s.Len(); i++ {
		if i == start {
			b.WriteString(ForecastMarker + "\n")
		}
		r := s.At(i)
		_, _ = p.Fprintf(&b, "%-8s | %8.2f | %8.2f | %8.2f | %8.2f | %10.2f | %.2f\n",
			r.Year, r.Scope1, r.Scope2, r.Scope3, r.Total(), r.Production, r.Revenue)
	}

	if last, ok := s.Last(); ok {
		fmt.Fprintf(&b, "\nFinal year %s revenue: %s\n", last.Year, format.Revenue(last.Revenue))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}

// PrettyReport writes the report as plain text.
func PrettyReport(w io.Writer, r report.Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "=== %s ===\n\n", r.Title)
	writeHeading(&b, "Executive Summary")
	b.WriteString(r.Summary)
	b.WriteString("\n\n")

	writeHeading(&b, "Key Metrics")
	for _, m := range r.KeyMetrics {
		fmt.Fprintf(&b, "  %-30s %s\n", m.Label+":", m.Value)
	}
	b.WriteString("\n")

	if len(r.ScopeMetrics) > 0 {
		writeHeading(&b, "Scope Breakdown")
		for _, m := range r.ScopeMetrics {
			fmt.Fprintf(&b, "  %-8s %s -> %s\n", m.Scope+":", m.Current, m.Projected)
		}
		b.WriteString("\n")
	}

	if len(r.DetailedAnalysis) > 0 {
		writeHeading(&b, "Detailed Analysis")
		for _, s := range r.DetailedAnalysis {
			fmt.Fprintf(&b, "  [%s]\n  %s\n\n", s.Title, s.Content)
		}
	}

	if len(r.Recommendations) > 0 {
		writeHeading(&b, "Strategic Recommendations")
		for i, rec := range r.Recommendations {
			fmt.Fprintf(&b, "  %d. %s (Investment: %s, Timeline: %s)\n     %s\n",
				i+1, rec.Title, rec.Investment, rec.Timeline, rec.Description)
		}
		b.WriteString("\n")
	}

	if r.Risks != "" {
		writeHeading(&b, "Risk Assessment")
		b.WriteString(r.Risks)
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// PrettyOverview writes the dashboard headline figures and model confidence.
func PrettyOverview(w io.Writer, o metrics.Overview, c metrics.Confidence) error {
	var b strings.Builder

	fmt.Fprintf(&b, "--- Overview for FY%s ---\n", o.Year)
	fmt.Fprintf(&b, "Total emissions:    %s (%s YoY)\n", format.Tonnes(o.Total), o.TotalChange.SignedPercent())
	fmt.Fprintf(&b, "Emission intensity: %s t/t (%s YoY)\n", o.Intensity.Format("%.2f"), o.IntensityChange.SignedPercent())
	fmt.Fprintf(&b, "Primary driver:     %s (%s of total)\n", o.PrimaryDriver, o.PrimaryDriverShare.Format("%.0f%%"))

	b.WriteString("\n--- Model confidence ---\n")
	source := "model"
	if c.Fallback {
		source = "default"
	}
	fmt.Fprintf(&b, "Overall: %s (%s)\n", format.Percent(c.Overall), source)
	scopes := []metrics.ScopeAccuracy{c.Scope1, c.Scope2, c.Scope3}
	for i, s := range scopes {
		fmt.Fprintf(&b, "Scope %d: MAPE %s, R² %.2f\n", i+1, format.Percent(s.MAPE), s.R2)
	}
	if c.TrainingDate != "" {
		fmt.Fprintf(&b, "Trained: %s\n", c.TrainingDate)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeHeading(b *strings.Builder, title string) {
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(strings.Repeat("-", len(title)))
	b.WriteString("\n")
}
