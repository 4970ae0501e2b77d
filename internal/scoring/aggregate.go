// Package scoring converts per-stakeholder survey responses into domain
// scores, an overall maturity score, and a matched maturity level.
package scoring

import "github.com/civicstack/maturity-cli/internal/model"

// Aggregation holds the output of the response aggregator for one
// organization.
type Aggregation struct {
	// DomainScores maps domain id to the stakeholder-weighted average of
	// numeric answers in that domain. Domains with no accumulated weight
	// score 0.
	DomainScores map[string]float64

	// StakeholderContributions maps stakeholder id -> domain id -> raw
	// unweighted sum of that stakeholder's numeric answers.
	StakeholderContributions map[string]map[string]float64
}

// Aggregate computes per-domain scores for one organization's responses.
//
// For each question in a domain, every response that answered it contributes
// answer * stakeholderWeight to the numerator and stakeholderWeight to the
// denominator. Only numeric answers participate; text and multi-select
// answers are skipped. A zero denominator short-circuits to a 0 score,
// which is indistinguishable from a domain scored 0 by respondents; use
// ValidateResponses to tell those cases apart.
func Aggregate(survey *model.Survey, responses []model.Response) Aggregation {
	agg := Aggregation{
		DomainScores:             make(map[string]float64, len(survey.Domains)),
		StakeholderContributions: make(map[string]map[string]float64),
	}

	for _, d := range survey.Domains {
		var num, den float64
		for _, q := range survey.QuestionsForDomain(d.ID) {
			for i := range responses {
				resp := &responses[i]
				ans, ok := resp.Answers[q.ID]
				if !ok {
					continue
				}
				v, numeric := ans.Numeric()
				if !numeric {
					continue
				}
				w := survey.StakeholderWeight(resp.StakeholderID)
				num += v * w
				den += w

				contrib := agg.StakeholderContributions[resp.StakeholderID]
				if contrib == nil {
					contrib = make(map[string]float64)
					agg.StakeholderContributions[resp.StakeholderID] = contrib
				}
				contrib[d.ID] += v
			}
		}
		if den > 0 {
			agg.DomainScores[d.ID] = num / den
		} else {
			agg.DomainScores[d.ID] = 0
		}
	}

	return agg
}
