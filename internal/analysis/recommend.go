package analysis

import "github.com/civicstack/maturity-cli/internal/model"

// Canonical maturity tier ids. Schemas may carry different ladders; the
// recommendation and action plan templates fall back to the building set
// for tiers outside this vocabulary.
const (
	TierBuilding = "building"
	TierEmerging = "emerging"
	TierThriving = "thriving"
)

// maxRecommendations caps the report list; items keep insertion order and
// are not ranked by severity.
const maxRecommendations = 5

// tierRecommendations are the fixed per-tier template sets.
var tierRecommendations = map[string][]string{
	TierBuilding: {
		"Establish a basic technology plan with clear priorities",
		"Document current systems and identify single points of failure",
	},
	TierEmerging: {
		"Formalize technology governance and decision-making",
		"Invest in staff digital skills training",
	},
	TierThriving: {
		"Share technology practices with peer organizations",
		"Pilot emerging tools that extend your mission impact",
	},
}

// domainRecommendations maps a weak domain to one canned recommendation.
var domainRecommendations = map[string]string{
	"infrastructure":     "Upgrade core infrastructure and address end-of-life hardware",
	"data":               "Consolidate data into a single system of record",
	"security":           "Adopt baseline security controls and staff awareness training",
	"digital_presence":   "Refresh your website and online engagement channels",
	"staff_capacity":     "Build internal technology skills through structured training",
	"process_automation": "Automate the highest-volume manual workflows first",
	"strategy":           "Align technology investments with a written strategic plan",
}

// Attribute-driven recommendation texts.
const (
	recHireITStaff    = "Consider hiring dedicated IT staff"
	recIncreaseBudget = "Increase technology budget allocation"
)

// lowITBudgetPct is the IT budget share (percent of total) below which the
// budget recommendation fires.
const lowITBudgetPct = 5.0

// buildRecommendations assembles the rule-based list: tier templates, then
// one entry per weak domain, then organization attribute rules, capped to
// the first maxRecommendations in insertion order.
func buildRecommendations(tierID string, weaknesses []string, org *model.Organization) []string {
	var recs []string

	tierSet, ok := tierRecommendations[tierID]
	if !ok {
		tierSet = tierRecommendations[TierBuilding]
	}
	recs = append(recs, tierSet...)

	for _, domainID := range weaknesses {
		if text, ok := domainRecommendations[domainID]; ok {
			recs = append(recs, text)
		}
	}

	if !org.HasITStaff && org.Size != model.OrgSmall {
		recs = append(recs, recHireITStaff)
	}
	if org.ITBudgetPercentage < lowITBudgetPct {
		recs = append(recs, recIncreaseBudget)
	}

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}
