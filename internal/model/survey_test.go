package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSurvey() *Survey {
	return &Survey{
		ID: "test-survey",
		Domains: []Domain{
			{ID: "infrastructure", Weight: 0.6},
			{ID: "data", Weight: 0.4},
		},
		Stakeholders: []Stakeholder{
			{ID: "executive", Weight: 0.7},
			{ID: "tech_lead", Weight: 0.3},
		},
		Questions: []Question{
			{ID: "q1", Domain: "infrastructure", Type: QuestionRating},
			{ID: "q2", Domain: "data", Type: QuestionText},
		},
		Scoring: ScoringPolicy{
			MaturityLevels: []MaturityLevel{
				{ID: "building", MinScore: 1.0, MaxScore: 2.5},
				{ID: "emerging", MinScore: 2.5, MaxScore: 3.8},
				{ID: "thriving", MinScore: 3.8, MaxScore: 5.0},
			},
		},
	}
}

func TestSurveyValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid schema passes", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, validSurvey().Validate())
	})

	t.Run("domain weights must sum to one", func(t *testing.T) {
		t.Parallel()
		s := validSurvey()
		s.Domains[0].Weight = 0.9
		err := s.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "domain weights")
	})

	t.Run("policy weights override definitions", func(t *testing.T) {
		t.Parallel()
		s := validSurvey()
		s.Domains[0].Weight = 0.9
		s.Scoring.DomainWeights = map[string]float64{"infrastructure": 0.6, "data": 0.4}
		assert.NoError(t, s.Validate())
	})

	t.Run("question referencing unknown domain", func(t *testing.T) {
		t.Parallel()
		s := validSurvey()
		s.Questions = append(s.Questions, Question{ID: "q3", Domain: "governance"})
		err := s.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown domain")
	})

	t.Run("ladder gap detected", func(t *testing.T) {
		t.Parallel()
		s := validSurvey()
		s.Scoring.MaturityLevels[1].MinScore = 3.0
		err := s.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "gap between maturity levels")
	})

	t.Run("ladder must cover the full scale", func(t *testing.T) {
		t.Parallel()
		s := validSurvey()
		s.Scoring.MaturityLevels = s.Scoring.MaturityLevels[:2]
		err := s.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "maturity levels end at")
	})

	t.Run("missing id and domains", func(t *testing.T) {
		t.Parallel()
		err := (&Survey{}).Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "survey id is required")
		assert.Contains(t, err.Error(), "at least one domain")
	})
}

func TestStakeholderWeight(t *testing.T) {
	t.Parallel()

	s := validSurvey()
	assert.InDelta(t, 0.7, s.StakeholderWeight("executive"), 1e-9)
	assert.Zero(t, s.StakeholderWeight("board_member"))

	s.Scoring.StakeholderWeights = map[string]float64{"executive": 0.5}
	assert.InDelta(t, 0.5, s.StakeholderWeight("executive"), 1e-9)
}

func TestQuestionsForDomain(t *testing.T) {
	t.Parallel()

	s := validSurvey()
	qs := s.QuestionsForDomain("infrastructure")
	require.Len(t, qs, 1)
	assert.Equal(t, "q1", qs[0].ID)
	assert.Empty(t, s.QuestionsForDomain("governance"))
}

func TestQuestionTypeScorable(t *testing.T) {
	t.Parallel()

	assert.True(t, QuestionRating.Scorable())
	assert.True(t, QuestionBoolean.Scorable())
	assert.False(t, QuestionText.Scorable())
	assert.False(t, QuestionMultiSelect.Scorable())
}

func TestLoadSurvey(t *testing.T) {
	t.Parallel()

	t.Run("parses yaml schema", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "survey.yaml")
		data := `
id: yaml-survey
name: YAML Survey
version: 2
domains:
  - id: infrastructure
    name: Infrastructure
    weight: 1.0
questions:
  - id: q1
    domain: infrastructure
    type: rating
scoring:
  maturity_levels:
    - id: building
      min_score: 1.0
      max_score: 5.0
`
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

		s, err := LoadSurvey(path)
		require.NoError(t, err)
		assert.Equal(t, "yaml-survey", s.ID)
		assert.Equal(t, 2, s.Version)
		require.Len(t, s.Domains, 1)
		assert.InDelta(t, 1.0, s.Domains[0].Weight, 1e-9)
		require.Len(t, s.Scoring.MaturityLevels, 1)
	})

	t.Run("missing file errors", func(t *testing.T) {
		t.Parallel()
		_, err := LoadSurvey(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}
