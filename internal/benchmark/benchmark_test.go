package benchmark

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicstack/maturity-cli/internal/model"
)

func benchSurvey() *model.Survey {
	return &model.Survey{
		ID: "test-survey",
		Domains: []model.Domain{
			{ID: "infrastructure", Weight: 0.5},
			{ID: "data", Weight: 0.5},
		},
		Stakeholders: []model.Stakeholder{
			{ID: "executive", Weight: 0.5},
			{ID: "tech_lead", Weight: 0.5},
		},
		Questions: []model.Question{
			{ID: "q1", Domain: "infrastructure", Type: model.QuestionRating},
			{ID: "q2", Domain: "data", Type: model.QuestionRating},
		},
		Scoring: model.ScoringPolicy{
			MaturityLevels: []model.MaturityLevel{
				{ID: "building", MinScore: 1.0, MaxScore: 2.5},
				{ID: "emerging", MinScore: 2.5, MaxScore: 3.8},
				{ID: "thriving", MinScore: 3.8, MaxScore: 5.0},
			},
		},
	}
}

func benchResult(orgID string, overall float64, levelID string, domains map[string]float64) model.Result {
	return model.Result{
		SurveyID:       "test-survey",
		OrganizationID: orgID,
		OverallScore:   overall,
		DomainScores:   domains,
		MaturityLevel:  model.MaturityLevel{ID: levelID},
	}
}

func benchCorpus() ([]model.Result, []model.Organization) {
	results := []model.Result{
		benchResult("org-a", 1.5, "building", map[string]float64{"infrastructure": 1.0, "data": 2.0}),
		benchResult("org-b", 3.0, "emerging", map[string]float64{"infrastructure": 3.0, "data": 3.0}),
		benchResult("org-c", 4.5, "thriving", map[string]float64{"infrastructure": 5.0, "data": 4.0}),
	}
	orgs := []model.Organization{
		{ID: "org-a", Sector: "education", Size: model.OrgSmall},
		{ID: "org-b", Sector: "education", Size: model.OrgMedium},
		{ID: "org-c", Sector: "healthcare", Size: model.OrgMedium},
	}
	return results, orgs
}

func TestCompute(t *testing.T) {
	t.Parallel()

	t.Run("overall metrics", func(t *testing.T) {
		t.Parallel()
		results, orgs := benchCorpus()
		b := Compute(benchSurvey(), results, orgs, nil)

		assert.Equal(t, 3, b.OrganizationCount)
		assert.InDelta(t, 3.0, b.OverallMetrics.Mean, 1e-9)
		assert.InDelta(t, 3.0, b.OverallMetrics.Median, 1e-9)
		assert.InDelta(t, 1.224744871391589, b.OverallMetrics.StdDev, 1e-9)
	})

	t.Run("distribution covers every schema level", func(t *testing.T) {
		t.Parallel()
		results, orgs := benchCorpus()
		b := Compute(benchSurvey(), results[:1], orgs, nil)

		// Unoccupied levels still appear with a zero count.
		assert.Equal(t, map[string]int{"building": 1, "emerging": 0, "thriving": 0}, b.MaturityDistribution)
	})

	t.Run("domain averages", func(t *testing.T) {
		t.Parallel()
		results, orgs := benchCorpus()
		b := Compute(benchSurvey(), results, orgs, nil)

		assert.InDelta(t, 3.0, b.DomainAverages["infrastructure"], 1e-9)
		assert.InDelta(t, 3.0, b.DomainAverages["data"], 1e-9)
	})

	t.Run("sector analysis with challenges", func(t *testing.T) {
		t.Parallel()
		results, orgs := benchCorpus()
		b := Compute(benchSurvey(), results, orgs, nil)

		edu := b.SectorAnalysis["education"]
		assert.Equal(t, 2, edu.Count)
		assert.InDelta(t, 2.25, edu.AverageScore, 1e-9)
		assert.Equal(t, sectorChallenges["education"], edu.CommonChallenges)

		health := b.SectorAnalysis["healthcare"]
		assert.Equal(t, 1, health.Count)
		// Top domains sorted by descending average.
		assert.Equal(t, []string{"infrastructure", "data"}, health.TopDomains)
	})

	t.Run("size analysis", func(t *testing.T) {
		t.Parallel()
		results, orgs := benchCorpus()
		b := Compute(benchSurvey(), results, orgs, nil)

		assert.Equal(t, 1, b.SizeAnalysis["small"].Count)
		assert.Equal(t, 2, b.SizeAnalysis["medium"].Count)
		assert.InDelta(t, 3.75, b.SizeAnalysis["medium"].AverageScore, 1e-9)
	})

	t.Run("stakeholder engagement", func(t *testing.T) {
		t.Parallel()
		results, orgs := benchCorpus()
		responses := []model.Response{
			{StakeholderID: "executive", Answers: map[string]model.Answer{"q1": model.NumberAnswer(4)}},
			{StakeholderID: "executive", Answers: map[string]model.Answer{"q1": model.NumberAnswer(2)}},
			{StakeholderID: "tech_lead", Answers: map[string]model.Answer{"q2": model.TextAnswer("n/a")}},
		}
		b := Compute(benchSurvey(), results, orgs, responses)

		exec := b.StakeholderInsights["executive"]
		assert.InDelta(t, 2.0/3.0, exec.Engagement, 1e-9)
		assert.InDelta(t, 3.0, exec.QuestionAverages["q1"], 1e-9)

		// Text answers never enter question averages.
		lead := b.StakeholderInsights["tech_lead"]
		assert.InDelta(t, 1.0/3.0, lead.Engagement, 1e-9)
		assert.Empty(t, lead.QuestionAverages)
	})

	t.Run("top performers descend by score", func(t *testing.T) {
		t.Parallel()
		results, orgs := benchCorpus()
		b := Compute(benchSurvey(), results, orgs, nil)
		assert.Equal(t, []string{"org-c", "org-b", "org-a"}, b.TopPerformers)
	})

	t.Run("ties break by organization id", func(t *testing.T) {
		t.Parallel()
		results := []model.Result{
			benchResult("org-z", 3.0, "emerging", nil),
			benchResult("org-a", 3.0, "emerging", nil),
		}
		b := Compute(benchSurvey(), results, nil, nil)
		assert.Equal(t, []string{"org-a", "org-z"}, b.TopPerformers)
	})

	t.Run("empty corpus", func(t *testing.T) {
		t.Parallel()
		b := Compute(benchSurvey(), nil, nil, nil)
		require.NotNil(t, b)
		assert.Zero(t, b.OrganizationCount)
		assert.Zero(t, b.OverallMetrics.Mean)
		assert.Empty(t, b.TopPerformers)
	})
}

func TestChallengesForSector(t *testing.T) {
	t.Parallel()

	assert.Equal(t, sectorChallenges["healthcare"], ChallengesForSector("healthcare"))
	assert.Equal(t, defaultChallenges, ChallengesForSector("space exploration"))
}
