package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var markdownRenderer = goldmark.New(goldmark.WithExtensions(extension.Table))

// Markdown renders the report as a markdown document.
func (r Report) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", r.Title)

	b.WriteString("## Executive Summary\n\n")
	b.WriteString(r.Summary)
	b.WriteString("\n\n")

	b.WriteString("## Key Metrics\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	for _, m := range r.KeyMetrics {
		fmt.Fprintf(&b, "| %s | %s |\n", m.Label, m.Value)
	}
	b.WriteString("\n")

	if len(r.ScopeMetrics) > 0 {
		b.WriteString("## Scope Breakdown\n\n")
		b.WriteString("| Scope | Current | Projected |\n|---|---|---|\n")
		for _, m := range r.ScopeMetrics {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", m.Scope, m.Current, m.Projected)
		}
		b.WriteString("\n")
	}

	if len(r.DetailedAnalysis) > 0 {
		b.WriteString("## Detailed Analysis\n\n")
		for _, s := range r.DetailedAnalysis {
			fmt.Fprintf(&b, "### %s\n\n%s\n\n", s.Title, s.Content)
		}
	}

	if len(r.Recommendations) > 0 {
		b.WriteString("## Strategic Recommendations\n\n")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(&b, "### %s\n\n%s\n\n- Investment: %s\n- Timeline: %s\n\n",
				rec.Title, rec.Description, rec.Investment, rec.Timeline)
		}
	}

	if r.Risks != "" {
		b.WriteString("## Risk Assessment\n\n")
		b.WriteString(r.Risks)
		b.WriteString("\n")
	}

	return b.String()
}

// RenderHTML converts the markdown rendering of r to an HTML fragment.
func RenderHTML(r Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := markdownRenderer.Convert([]byte(r.Markdown()), &buf); err != nil {
		return nil, fmt.Errorf("failed to render report html: %w", err)
	}
	return buf.Bytes(), nil
}
