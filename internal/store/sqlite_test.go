package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicstack/maturity-cli/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func storeSurvey() *model.Survey {
	return &model.Survey{
		ID:      "test-survey",
		Name:    "Test Survey",
		Version: 1,
		Domains: []model.Domain{{ID: "infrastructure", Weight: 1.0}},
		Questions: []model.Question{
			{ID: "q1", Domain: "infrastructure", Type: model.QuestionRating},
		},
		Scoring: model.ScoringPolicy{
			MaturityLevels: []model.MaturityLevel{
				{ID: "building", MinScore: 1.0, MaxScore: 5.0},
			},
		},
	}
}

func TestSQLiteSurveys(t *testing.T) {
	t.Parallel()
	st := newTestSQLite(t)
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		survey := storeSurvey()
		require.NoError(t, st.SaveSurvey(ctx, survey))

		got, err := st.GetSurvey(ctx, "test-survey")
		require.NoError(t, err)
		assert.Equal(t, survey, got)
	})

	t.Run("upsert replaces schema", func(t *testing.T) {
		survey := storeSurvey()
		survey.Version = 2
		require.NoError(t, st.SaveSurvey(ctx, survey))

		got, err := st.GetSurvey(ctx, "test-survey")
		require.NoError(t, err)
		assert.Equal(t, 2, got.Version)
	})

	t.Run("missing survey errors", func(t *testing.T) {
		_, err := st.GetSurvey(ctx, "absent")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "survey not found")
	})
}

func TestSQLiteOrganizations(t *testing.T) {
	t.Parallel()
	st := newTestSQLite(t)
	ctx := context.Background()

	t.Run("save assigns id when empty", func(t *testing.T) {
		org := &model.Organization{Name: "Anonymous Org", Sector: "education", Size: model.OrgSmall}
		require.NoError(t, st.SaveOrganization(ctx, org))
		assert.NotEmpty(t, org.ID)
	})

	t.Run("list sorted by id", func(t *testing.T) {
		require.NoError(t, st.SaveOrganization(ctx, &model.Organization{ID: "zzz-org", Sector: "healthcare", Size: model.OrgLarge}))
		require.NoError(t, st.SaveOrganization(ctx, &model.Organization{ID: "aaa-org", Sector: "education", Size: model.OrgSmall}))

		orgs, err := st.ListOrganizations(ctx)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(orgs), 2)
		assert.Equal(t, "aaa-org", orgs[0].ID)
	})
}

func TestSQLiteResponses(t *testing.T) {
	t.Parallel()
	st := newTestSQLite(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	save := func(id, orgID string, completed bool) {
		resp := &model.Response{
			ID:             id,
			SurveyID:       "test-survey",
			OrganizationID: orgID,
			StakeholderID:  "executive",
			Answers:        map[string]model.Answer{"q1": model.NumberAnswer(3)},
			StartedAt:      now,
		}
		if completed {
			resp.CompletedAt = &now
			resp.Progress = 100
		}
		require.NoError(t, st.SaveResponse(ctx, resp))
	}

	save("resp-1", "org-a", true)
	save("resp-2", "org-a", false)
	save("resp-3", "org-b", true)

	t.Run("filter by organization", func(t *testing.T) {
		got, err := st.ListResponses(ctx, "test-survey", ResponseFilter{OrganizationID: "org-a"})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("completed only", func(t *testing.T) {
		got, err := st.ListResponses(ctx, "test-survey", ResponseFilter{CompletedOnly: true})
		require.NoError(t, err)
		require.Len(t, got, 2)
		for _, resp := range got {
			assert.True(t, resp.Completed())
		}
	})

	t.Run("limit", func(t *testing.T) {
		got, err := st.ListResponses(ctx, "test-survey", ResponseFilter{Limit: 1})
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("answers survive the round trip", func(t *testing.T) {
		got, err := st.ListResponses(ctx, "test-survey", ResponseFilter{OrganizationID: "org-b"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		v, ok := got[0].Answers["q1"].Numeric()
		assert.True(t, ok)
		assert.InDelta(t, 3, v, 1e-9)
	})

	t.Run("unknown survey is empty", func(t *testing.T) {
		got, err := st.ListResponses(ctx, "other-survey", ResponseFilter{})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestSQLiteResults(t *testing.T) {
	t.Parallel()
	st := newTestSQLite(t)
	ctx := context.Background()

	result := &model.Result{
		SurveyID:       "test-survey",
		OrganizationID: "org-a",
		OverallScore:   3.2,
		DomainScores:   map[string]float64{"infrastructure": 3.2},
		MaturityLevel:  model.MaturityLevel{ID: "emerging", MinScore: 2.5, MaxScore: 3.8},
		CompletedAt:    time.Now().UTC().Truncate(time.Second),
		ResponseCount:  4,
	}

	t.Run("round trip", func(t *testing.T) {
		require.NoError(t, st.SaveResult(ctx, result))
		got, err := st.GetResult(ctx, "test-survey", "org-a")
		require.NoError(t, err)
		assert.Equal(t, result, got)
	})

	t.Run("upsert on recompute", func(t *testing.T) {
		updated := *result
		updated.OverallScore = 3.9
		require.NoError(t, st.SaveResult(ctx, &updated))

		got, err := st.GetResult(ctx, "test-survey", "org-a")
		require.NoError(t, err)
		assert.InDelta(t, 3.9, got.OverallScore, 1e-9)

		results, err := st.ListResults(ctx, "test-survey")
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("missing result errors", func(t *testing.T) {
		_, err := st.GetResult(ctx, "test-survey", "org-x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "result not found")
	})
}
