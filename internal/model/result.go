package model

import "time"

// Result is the derived scoring view for one (survey, organization) pair.
// Recomputing it from the same response set is idempotent; any persisted
// copy is a cache of this computation.
type Result struct {
	SurveyID       string             `json:"survey_id"`
	OrganizationID string             `json:"organization_id"`
	OverallScore   float64            `json:"overall_score"`
	DomainScores   map[string]float64 `json:"domain_scores"`

	// StakeholderContributions maps stakeholder id -> domain id -> raw
	// (unweighted) sum of that stakeholder's answers in the domain.
	StakeholderContributions map[string]map[string]float64 `json:"stakeholder_contributions,omitempty"`

	MaturityLevel   MaturityLevel `json:"maturity_level"`
	Recommendations []string      `json:"recommendations,omitempty"`
	CompletedAt     time.Time     `json:"completed_at"`
	ResponseCount   int           `json:"response_count"`

	// StakeholderBreakdown marks presence: 1 if the stakeholder responded,
	// absent otherwise.
	StakeholderBreakdown map[string]int `json:"stakeholder_breakdown,omitempty"`
}
