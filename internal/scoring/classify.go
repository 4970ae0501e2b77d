package scoring

import "github.com/civicstack/maturity-cli/internal/model"

// Classify maps an overall score to the first maturity level whose range
// contains it. When no level matches (a malformed ladder, or a score
// outside [1,5]) it falls back to the first level so every organization
// still gets a classification. Returns a zero level only for an empty
// ladder.
func Classify(levels []model.MaturityLevel, score float64) model.MaturityLevel {
	for _, l := range levels {
		if l.Contains(score) {
			return l
		}
	}
	if len(levels) > 0 {
		return levels[0]
	}
	return model.MaturityLevel{}
}
