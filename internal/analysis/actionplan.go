package analysis

import "github.com/civicstack/maturity-cli/internal/model"

// ActionPlan is a tiered roadmap with budget and time estimates.
type ActionPlan struct {
	ShortTerm       []string `json:"short_term"`
	MediumTerm      []string `json:"medium_term"`
	LongTerm        []string `json:"long_term"`
	EstimatedBudget float64  `json:"estimated_budget"`
	EstimatedTime   string   `json:"estimated_time"`
}

// baseBudget is the per-organization planning baseline in USD; the size and
// maturity multipliers scale it.
const baseBudget = 25000.0

type planTemplate struct {
	shortTerm  []string
	mediumTerm []string
	longTerm   []string
	timeframe  string
	multiplier float64
}

var planTemplates = map[string]planTemplate{
	TierBuilding: {
		shortTerm: []string{
			"Inventory all hardware, software, and subscriptions",
			"Set up reliable data backup",
			"Assign a technology point person",
		},
		mediumTerm: []string{
			"Migrate shared files to managed cloud storage",
			"Adopt a basic donor or case management system",
			"Establish password management and MFA",
		},
		longTerm: []string{
			"Develop a three-year technology roadmap",
			"Budget for hardware refresh cycles",
		},
		timeframe:  "18-24 months",
		multiplier: 2.0,
	},
	TierEmerging: {
		shortTerm: []string{
			"Audit data quality across core systems",
			"Standardize onboarding for digital tools",
			"Close the highest-risk security gaps",
		},
		mediumTerm: []string{
			"Integrate core systems to remove duplicate entry",
			"Launch staff digital skills curriculum",
			"Formalize technology governance",
		},
		longTerm: []string{
			"Build outcome dashboards from integrated data",
			"Plan for dedicated technology staffing",
		},
		timeframe:  "12-18 months",
		multiplier: 1.5,
	},
	TierThriving: {
		shortTerm: []string{
			"Benchmark against peer organizations",
			"Review vendor contracts for consolidation",
			"Refresh the technology risk register",
		},
		mediumTerm: []string{
			"Pilot automation for top manual workflows",
			"Expand analytics to program impact measurement",
			"Mentor a partner organization",
		},
		longTerm: []string{
			"Evaluate emerging technology for mission fit",
			"Institutionalize continuous improvement reviews",
		},
		timeframe:  "6-12 months",
		multiplier: 1.0,
	},
}

var sizeMultipliers = map[model.OrgSize]float64{
	model.OrgSmall:  1,
	model.OrgMedium: 2,
	model.OrgLarge:  3,
}

// buildActionPlan populates the tier template and computes the budget as
// baseBudget × sizeMultiplier × maturityMultiplier. Unknown tiers use the
// building template; unknown sizes use the small multiplier.
func buildActionPlan(tierID string, size model.OrgSize) ActionPlan {
	tmpl, ok := planTemplates[tierID]
	if !ok {
		tmpl = planTemplates[TierBuilding]
	}
	sizeMult, ok := sizeMultipliers[size]
	if !ok {
		sizeMult = 1
	}
	return ActionPlan{
		ShortTerm:       tmpl.shortTerm,
		MediumTerm:      tmpl.mediumTerm,
		LongTerm:        tmpl.longTerm,
		EstimatedBudget: baseBudget * sizeMult * tmpl.multiplier,
		EstimatedTime:   tmpl.timeframe,
	}
}
