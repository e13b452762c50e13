// Package report assembles the narrative forecast report for a scenario from
// its projected series.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iwvelando/emissions-forecast/internal/metrics"
	"github.com/iwvelando/emissions-forecast/internal/scenario"
	"github.com/iwvelando/emissions-forecast/internal/series"
	"github.com/iwvelando/emissions-forecast/pkg/datetime"
	"github.com/iwvelando/emissions-forecast/pkg/format"
)

// KeyMetric is a labelled, preformatted headline figure.
type KeyMetric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// ScopeMetric compares one scope's current and projected emissions.
type ScopeMetric struct {
	Scope     string `json:"scope"`
	Current   string `json:"current"`
	Projected string `json:"projected"`
}

// Section is one titled block of the detailed analysis.
type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Recommendation is a proposed decarbonization initiative.
type Recommendation struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Investment  string `json:"investment"`
	Timeline    string `json:"timeline"`
}

// Report is the assembled forecast report. It is derived data and carries no
// identity of its own.
type Report struct {
	Scenario         scenario.Scenario `json:"scenario"`
	Title            string            `json:"title"`
	Summary          string            `json:"summary"`
	KeyMetrics       []KeyMetric       `json:"keyMetrics"`
	ScopeMetrics     []ScopeMetric     `json:"scopeMetrics"`
	DetailedAnalysis []Section         `json:"detailedAnalysis"`
	Recommendations  []Recommendation  `json:"recommendations"`
	Risks            string            `json:"risks"`
	Metrics          metrics.Summary   `json:"metrics"`
}

// Build assembles the report for s from data. It fails only when data has no
// historical record to use as the baseline.
func Build(s scenario.Scenario, data series.Series) (Report, error) {
	summary, err := metrics.Summarize(data)
	if err != nil {
		return Report{}, fmt.Errorf("failed to summarize series: %w", err)
	}
	first, err := data.FirstHistorical()
	if err != nil {
		return Report{}, err
	}
	current, _ := data.LastHistorical()

	n := narrativeFor(s)

	paragraphs := []string{baseline(first, current)}
	if n.outlook != nil {
		paragraphs = append(paragraphs, n.outlook(summary.TotalFinal, summary.PercentChange, closingYear(summary.FinalYear)))
	}

	return Report{
		Scenario:         s,
		Title:            fmt.Sprintf("Emissions Forecast Report: %s Scenario", s),
		Summary:          strings.Join(paragraphs, "\n\n"),
		KeyMetrics:       keyMetrics(summary),
		ScopeMetrics:     scopeMetrics(summary),
		DetailedAnalysis: append([]Section(nil), n.analysis...),
		Recommendations:  append([]Recommendation(nil), n.recommendations...),
		Risks:            n.risks,
		Metrics:          summary,
	}, nil
}

func keyMetrics(summary metrics.Summary) []KeyMetric {
	return []KeyMetric{
		{
			Label: fmt.Sprintf("Current Emissions (%s)", datetime.ShortLabel(summary.CurrentYear)),
			Value: format.Tonnes(summary.TotalCurrent),
		},
		{
			Label: fmt.Sprintf("Projected Emissions (%s)", datetime.ShortLabel(summary.FinalYear)),
			Value: format.Tonnes(summary.TotalFinal),
		},
		{
			Label: "Total Change",
			Value: summary.PercentChange.SignedPercent(),
		},
	}
}

func scopeMetrics(summary metrics.Summary) []ScopeMetric {
	current := []float64{summary.PerScopeCurrent.Scope1, summary.PerScopeCurrent.Scope2, summary.PerScopeCurrent.Scope3}
	final := []float64{summary.PerScopeFinal.Scope1, summary.PerScopeFinal.Scope2, summary.PerScopeFinal.Scope3}

	out := make([]ScopeMetric, len(current))
	for i := range current {
		out[i] = ScopeMetric{
			Scope:     fmt.Sprintf("Scope %d", i+1),
			Current:   format.Tonnes(current[i]),
			Projected: format.Tonnes(final[i]),
		}
	}
	return out
}

// baseline describes the observed period, which is the same for every scenario.
func baseline(first, current series.YearRecord) string {
	direction := "no change"
	switch {
	case current.Scope1 > first.Scope1:
		direction = "an increase"
	case current.Scope1 < first.Scope1:
		direction = "a decrease"
	}

	return fmt.Sprintf("Based on the historical data from FY%s to FY%s, the facility has seen %s in Scope 1 emissions "+
		"(from %s to %s), while production capacity moved from %.2f MT to %.2f MT. "+
		"Total emissions in FY%s stood at %s.",
		first.Year, current.Year, direction,
		format.Tonnes(first.Scope1), format.Tonnes(current.Scope1),
		first.Production, current.Production,
		current.Year, format.Tonnes(current.Total()))
}

func closingYear(label string) string {
	if end, err := datetime.EndYear(label); err == nil {
		return strconv.Itoa(end)
	}
	return label
}
