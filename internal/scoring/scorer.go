package scoring

import (
	"time"

	"go.uber.org/zap"

	"github.com/civicstack/maturity-cli/internal/model"
)

// ScoreOrganization produces the Result for one organization from its full
// response set. The computation is deterministic: domains are folded in
// schema order, so identical inputs yield an identical Result.
func ScoreOrganization(survey *model.Survey, orgID string, responses []model.Response) *model.Result {
	agg := Aggregate(survey, responses)

	var overall float64
	for _, d := range survey.Domains {
		overall += agg.DomainScores[d.ID] * survey.DomainWeight(d.ID)
	}

	level := Classify(survey.Scoring.MaturityLevels, overall)

	breakdown := make(map[string]int)
	for i := range responses {
		breakdown[responses[i].StakeholderID] = 1
	}

	recs := make([]string, len(level.Recommendations))
	copy(recs, level.Recommendations)

	zap.L().Debug("scoring: scored organization",
		zap.String("survey_id", survey.ID),
		zap.String("organization_id", orgID),
		zap.Float64("overall_score", overall),
		zap.String("maturity_level", level.ID),
		zap.Int("responses", len(responses)),
	)

	return &model.Result{
		SurveyID:                 survey.ID,
		OrganizationID:           orgID,
		OverallScore:             overall,
		DomainScores:             agg.DomainScores,
		StakeholderContributions: agg.StakeholderContributions,
		MaturityLevel:            level,
		Recommendations:          recs,
		CompletedAt:              time.Now().UTC(),
		ResponseCount:            len(responses),
		StakeholderBreakdown:     breakdown,
	}
}
