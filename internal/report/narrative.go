package report

import (
	"fmt"
	"math"

	"github.com/iwvelando/emissions-forecast/internal/metrics"
	"github.com/iwvelando/emissions-forecast/internal/scenario"
	"github.com/iwvelando/emissions-forecast/pkg/format"
)

// narrative is the static, scenario-specific content of a report.
type narrative struct {
	// outlook renders the scenario paragraph of the executive summary from the
	// final total, the percent change and the closing year.
	outlook         func(totalFinal float64, change metrics.Ratio, year string) string
	analysis        []Section
	recommendations []Recommendation
	risks           string
}

// narrativeFor resolves the content for s. Values outside the supported set
// get the zero narrative: no outlook, no sections, no recommendations and an
// empty risk statement.
func narrativeFor(s scenario.Scenario) narrative {
	switch s {
	case scenario.BAU:
		return bauNarrative
	case scenario.Moderate:
		return moderateNarrative
	case scenario.Aggressive:
		return aggressiveNarrative
	}
	return narrative{}
}

func unsignedPercent(r metrics.Ratio) string {
	if !r.Defined {
		return format.NotAvailable
	}
	return format.Percent(math.Abs(r.Value))
}

var bauNarrative = narrative{
	outlook: func(totalFinal float64, change metrics.Ratio, year string) string {
		return fmt.Sprintf("Under the Business-as-Usual (BAU) scenario, emissions are projected to continue rising, "+
			"tracking production growth. By %s, total emissions are expected to reach %s, a %s change from current levels. "+
			"This trajectory is non-compliant with Paris Agreement goals and exposes the company to significant carbon tax liability.",
			year, format.Tonnes(totalFinal), change.SignedPercent())
	},
	analysis: []Section{
		{
			Title:   "Baseline Analysis",
			Content: "Production growth (2%/year) drives emissions growth. Without intervention, Scope 1 emissions grow ~1.5%/year, Scope 2 ~1%/year due to natural grid improvement, and Scope 3 tracks production at ~2%/year.",
		},
		{
			Title:   "Regulatory & Market Risks",
			Content: "Carbon taxes (estimated $15-30/ton by 2035) create $500M-$2B cumulative liability. ESG downgrade limits access to capital. Supply chain pressure as customers demand decarbonization.",
		},
		{
			Title:   "Recommendation",
			Content: "Not sustainable long-term. Business will face increasing regulatory and financial pressure. Transition planning needed within 5 years.",
		},
	},
	recommendations: []Recommendation{
		{
			Title:       "Not Recommended",
			Description: "This pathway is not recommended due to regulatory and financial exposure.",
			Investment:  "$0",
			Timeline:    "N/A",
		},
	},
	risks: "High regulatory risk. Potential carbon taxes ($500M-$2B). ESG downgrade (-10-15% valuation). Supply chain pressure. Long-term business viability at risk.",
}

var moderateNarrative = narrative{
	outlook: func(totalFinal float64, change metrics.Ratio, year string) string {
		return fmt.Sprintf("The Moderate Decarbonization scenario assumes incremental efficiency improvements and grid greening. "+
			"Total emissions stabilize and begin a slow decline, reaching %s by %s (%s change). "+
			"While this mitigates some regulatory risk, it fails to achieve Net Zero.",
			format.Tonnes(totalFinal), year, change.SignedPercent())
	},
	analysis: []Section{
		{
			Title:   "Efficiency Improvements",
			Content: "Active efficiency projects reduce Scope 1 by ~1%/year. Grid greening reduces Scope 2 by ~2%/year. Supplier engagement reduces Scope 3 by ~0.5%/year.",
		},
		{
			Title:   "Capital Requirements",
			Content: "Estimated $150M capex over 10 years ($15M/year average). Renewable PPAs (500 MW) cost $60-90M. Efficiency retrofits cost $50-80M. Payback period ~7 years through energy savings.",
		},
		{
			Title:   "Strategy Assessment",
			Content: "Achieves regulatory compliance but insufficient for ESG leadership. Competitors pursuing aggressive pathways will have competitive advantage. Mid-tier strategy.",
		},
	},
	recommendations: []Recommendation{
		{
			Title:       "Renewable Energy Procurement",
			Description: "Procure 30% renewable electricity via Power Purchase Agreements (PPAs) to reduce Scope 2 emissions.",
			Investment:  "$60-90M",
			Timeline:    "Years 1-3",
		},
		{
			Title:       "Energy Efficiency Projects",
			Description: "Implement efficiency retrofits in facilities, including LED upgrades, HVAC optimization, and waste heat recovery.",
			Investment:  "$50-80M",
			Timeline:    "Years 1-5",
		},
		{
			Title:       "Supply Chain Engagement",
			Description: "Launch supplier engagement program to set emission reduction targets and monitor progress.",
			Investment:  "$20-30M",
			Timeline:    "Years 1+",
		},
	},
	risks: "Technology risk: Renewable costs may not decrease as expected. Policy risk: Carbon prices may be higher than projected. Competitive risk: Aggressive competitors gain market advantage.",
}

var aggressiveNarrative = narrative{
	outlook: func(totalFinal float64, change metrics.Ratio, year string) string {
		return fmt.Sprintf("The Aggressive / Net-Zero Aligned scenario implements deep structural changes including hydrogen-based reduction, "+
			"100%% renewable electricity, and circular supply chains. This forecasts a rapid decoupling of growth and emissions, "+
			"with total emissions dropping to %s by %s (%s reduction), aligning with a 1.5°C pathway.",
			format.Tonnes(totalFinal), year, unsignedPercent(change))
	},
	analysis: []Section{
		{
			Title:   "Transformation Investment",
			Content: "Hydrogen-based reduction in blast furnaces ($150-200M), 100% renewable electricity via PPAs ($150-200M), and circular supply chain initiatives ($50-75M). Total ~$500-700M over 15 years.",
		},
		{
			Title:   "Technology Roadmap",
			Content: "Phase 1 (Years 1-2): Renewable PPAs, hydrogen pilot projects. Phase 2 (Years 3-8): Blast furnace retrofit, operational scaling. Phase 3 (Years 9-15): Optimization, circular economy.",
		},
		{
			Title:   "Value Creation",
			Content: "Avoid carbon taxes ($500M-$2B), ESG valuation premium ($500M-$1B), energy savings ($750M+), supply chain advantage. Net benefit $750M-$1.2B with positive ROI by Year 8.",
		},
	},
	recommendations: []Recommendation{
		{
			Title:       "Hydrogen Infrastructure Development",
			Description: "Convert blast furnaces to hydrogen-based reduction. Includes infrastructure for hydrogen production, storage, and integration.",
			Investment:  "$150-200M",
			Timeline:    "Years 2-8",
		},
		{
			Title:       "100% Renewable Electricity",
			Description: "Secure 2000 MW renewable energy via PPAs covering 100% of facility electricity needs by Year 8.",
			Investment:  "$150-200M",
			Timeline:    "Years 1-8",
		},
		{
			Title:       "Circular Supply Chain Transformation",
			Description: "Develop circular economy initiatives with suppliers, focusing on material reuse, recycling, and low-carbon sourcing.",
			Investment:  "$50-75M",
			Timeline:    "Years 5-15",
		},
		{
			Title:       "Carbon Capture & Utilization (CCUS)",
			Description: "Implement CCUS technology to capture process emissions from steel making for storage or utilization.",
			Investment:  "$100-150M",
			Timeline:    "Years 8-15",
		},
	},
	risks: "Execution risk: Hydrogen infrastructure unproven at scale. Technology risk: Hydrogen costs may remain high. Market risk: Future renewable prices uncertain. Phased approach with pilot projects recommended.",
}
