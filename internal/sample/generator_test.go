package sample

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicstack/maturity-cli/internal/model"
)

func TestDefaultSurvey(t *testing.T) {
	t.Parallel()

	s := DefaultSurvey()
	assert.NoError(t, s.Validate())
	assert.Equal(t, "digital-maturity-v1", s.ID)
	assert.Len(t, s.Scoring.MaturityLevels, 3)
}

func TestGeneratorOrganizations(t *testing.T) {
	t.Parallel()

	t.Run("deterministic for a seed", func(t *testing.T) {
		t.Parallel()
		a := NewGenerator(42).Organizations(10)
		b := NewGenerator(42).Organizations(10)
		assert.Equal(t, a, b)
	})

	t.Run("different seeds diverge", func(t *testing.T) {
		t.Parallel()
		a := NewGenerator(1).Organizations(10)
		b := NewGenerator(2).Organizations(10)
		assert.NotEqual(t, a, b)
	})

	t.Run("profiles are plausible", func(t *testing.T) {
		t.Parallel()
		orgs := NewGenerator(7).Organizations(50)
		require.Len(t, orgs, 50)
		for _, org := range orgs {
			assert.NotEmpty(t, org.Sector)
			assert.GreaterOrEqual(t, org.StaffCount, 5)
			assert.GreaterOrEqual(t, org.ITBudgetPercentage, 1.0)
			assert.LessOrEqual(t, org.ITBudgetPercentage, 10.0)
			if org.Size == model.OrgSmall {
				assert.False(t, org.HasITStaff)
			}
		}
	})
}

func TestGeneratorResponses(t *testing.T) {
	t.Parallel()
	survey := DefaultSurvey()

	t.Run("one response per stakeholder per org", func(t *testing.T) {
		t.Parallel()
		gen := NewGenerator(42)
		orgs := gen.Organizations(5)
		responses := gen.Responses(survey, orgs)
		assert.Len(t, responses, 5*len(survey.Stakeholders))
	})

	t.Run("response ids are stable across runs", func(t *testing.T) {
		t.Parallel()
		genA := NewGenerator(42)
		a := genA.Responses(survey, genA.Organizations(3))
		genB := NewGenerator(42)
		b := genB.Responses(survey, genB.Organizations(3))

		require.Len(t, b, len(a))
		for i := range a {
			assert.Equal(t, a[i].ID, b[i].ID)
			assert.Equal(t, a[i].Answers, b[i].Answers)
		}
	})

	t.Run("responses are completed and in range", func(t *testing.T) {
		t.Parallel()
		gen := NewGenerator(9)
		responses := gen.Responses(survey, gen.Organizations(4))
		for _, resp := range responses {
			assert.True(t, resp.Completed())
			for _, ans := range resp.Answers {
				if v, ok := ans.Numeric(); ok {
					assert.GreaterOrEqual(t, v, model.MinScore)
					assert.LessOrEqual(t, v, model.MaxScore)
				}
			}
		}
	})

	t.Run("answers respect question targeting", func(t *testing.T) {
		t.Parallel()
		byID := make(map[string]model.Question)
		for _, q := range survey.Questions {
			byID[q.ID] = q
		}
		gen := NewGenerator(11)
		responses := gen.Responses(survey, gen.Organizations(3))
		for _, resp := range responses {
			for qid := range resp.Answers {
				q, ok := byID[qid]
				require.True(t, ok)
				assert.True(t, targets(q, resp.StakeholderID))
			}
		}
	})
}

func TestClampScore(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, model.MinScore, clampScore(0.2), 1e-9)
	assert.InDelta(t, model.MaxScore, clampScore(7.0), 1e-9)
	// Rounds to the nearest half point.
	assert.InDelta(t, 3.5, clampScore(3.4), 1e-9)
	assert.InDelta(t, 3.0, clampScore(3.2), 1e-9)
}
