package scoring

import (
	"fmt"

	"github.com/civicstack/maturity-cli/internal/model"
)

// Warning flags a data condition that scoring resolves silently. Scoring
// never blocks on these; a warning list lets callers surface them instead
// of shipping a 0 score nobody can explain.
type Warning struct {
	Code       string `json:"code"`
	QuestionID string `json:"question_id,omitempty"`
	DomainID   string `json:"domain_id,omitempty"`
	ResponseID string `json:"response_id,omitempty"`
	Detail     string `json:"detail"`
}

const (
	// WarnNonNumericAnswer marks a text or multi-select answer given to a
	// question whose type feeds domain scoring.
	WarnNonNumericAnswer = "non_numeric_answer"
	// WarnEmptyDomain marks a domain with zero contributing answers; its
	// score of 0 is a default, not a measurement.
	WarnEmptyDomain = "empty_domain"
	// WarnUnknownStakeholder marks a response whose stakeholder has no
	// weight in the schema; its answers accumulate nothing.
	WarnUnknownStakeholder = "unknown_stakeholder"
)

// ValidateResponses inspects an organization's response set against the
// survey and reports the conditions the aggregator would otherwise absorb
// into safe defaults.
func ValidateResponses(survey *model.Survey, responses []model.Response) []Warning {
	var warnings []Warning

	questionTypes := make(map[string]model.QuestionType, len(survey.Questions))
	for _, q := range survey.Questions {
		questionTypes[q.ID] = q.Type
	}

	answeredDomains := make(map[string]bool)
	for i := range responses {
		resp := &responses[i]
		if survey.StakeholderWeight(resp.StakeholderID) == 0 {
			warnings = append(warnings, Warning{
				Code:       WarnUnknownStakeholder,
				ResponseID: resp.ID,
				Detail:     fmt.Sprintf("stakeholder %q has no weight in survey %s", resp.StakeholderID, survey.ID),
			})
		}
		for qid, ans := range resp.Answers {
			qt, known := questionTypes[qid]
			if !known {
				continue
			}
			if _, numeric := ans.Numeric(); numeric {
				answeredDomains[domainOf(survey, qid)] = true
				continue
			}
			if qt.Scorable() {
				warnings = append(warnings, Warning{
					Code:       WarnNonNumericAnswer,
					QuestionID: qid,
					ResponseID: resp.ID,
					Detail:     fmt.Sprintf("question %s expects a numeric answer, got %s", qid, ans.Kind),
				})
			}
		}
	}

	for _, d := range survey.Domains {
		if !answeredDomains[d.ID] {
			warnings = append(warnings, Warning{
				Code:     WarnEmptyDomain,
				DomainID: d.ID,
				Detail:   fmt.Sprintf("domain %s has no numeric answers; its score defaults to 0", d.ID),
			})
		}
	}

	return warnings
}

func domainOf(survey *model.Survey, questionID string) string {
	for _, q := range survey.Questions {
		if q.ID == questionID {
			return q.Domain
		}
	}
	return ""
}
