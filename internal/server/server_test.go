package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicstack/maturity-cli/internal/config"
	"github.com/civicstack/maturity-cli/internal/model"
	"github.com/civicstack/maturity-cli/internal/sample"
	"github.com/civicstack/maturity-cli/internal/store"
)

func testServerConfig() config.ServerConfig {
	return config.ServerConfig{
		Port:           0,
		RateLimit:      1000,
		RateBurst:      1000,
		AllowedOrigins: []string{"*"},
	}
}

// newTestServer seeds a sqlite store with the sample corpus and returns a
// running httptest server.
func newTestServer(t *testing.T) (*httptest.Server, store.Store) {
	t.Helper()
	ctx := context.Background()

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(ctx))

	survey := sample.DefaultSurvey()
	require.NoError(t, st.SaveSurvey(ctx, survey))

	gen := sample.NewGenerator(42)
	orgs := gen.Organizations(5)
	for i := range orgs {
		require.NoError(t, st.SaveOrganization(ctx, &orgs[i]))
	}
	for _, resp := range gen.Responses(survey, orgs) {
		resp := resp
		require.NoError(t, st.SaveResponse(ctx, &resp))
	}

	ts := httptest.NewServer(New(st, testServerConfig()).Router())
	t.Cleanup(ts.Close)
	return ts, st
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func postJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t)

	var body map[string]string
	resp := getJSON(t, ts.URL+"/health", &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestScoreEndpoint(t *testing.T) {
	ts, st := newTestServer(t)

	var body map[string]any
	resp := postJSON(t, ts.URL+"/api/surveys/digital-maturity-v1/score", &body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.InDelta(t, 5, body["organizations_scored"], 0.1)

	results, err := st.ListResults(context.Background(), "digital-maturity-v1")
	require.NoError(t, err)
	assert.Len(t, results, 5)
	for _, r := range results {
		assert.NotEmpty(t, r.MaturityLevel.ID)
		assert.GreaterOrEqual(t, r.OverallScore, 0.0)
		assert.LessOrEqual(t, r.OverallScore, model.MaxScore)
	}
}

func TestScoreEndpointUnknownSurvey(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/surveys/nope/score", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestResultsEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)

	// Score first so results exist.
	resp := postJSON(t, ts.URL+"/api/surveys/digital-maturity-v1/score", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	t.Run("list", func(t *testing.T) {
		var results []model.Result
		resp := getJSON(t, ts.URL+"/api/surveys/digital-maturity-v1/results", &results)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, results, 5)
	})

	t.Run("get one", func(t *testing.T) {
		var result model.Result
		resp := getJSON(t, ts.URL+"/api/surveys/digital-maturity-v1/results/org-001", &result)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "org-001", result.OrganizationID)
	})

	t.Run("get missing", func(t *testing.T) {
		resp := getJSON(t, ts.URL+"/api/surveys/digital-maturity-v1/results/org-999", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestBenchmarkEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/surveys/digital-maturity-v1/score", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var bench struct {
		SurveyID             string         `json:"survey_id"`
		OrganizationCount    int            `json:"organization_count"`
		MaturityDistribution map[string]int `json:"maturity_distribution"`
		TopPerformers        []string       `json:"top_performers"`
	}
	resp = getJSON(t, ts.URL+"/api/surveys/digital-maturity-v1/benchmark", &bench)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "digital-maturity-v1", bench.SurveyID)
	assert.Equal(t, 5, bench.OrganizationCount)
	assert.Len(t, bench.TopPerformers, 3)

	var counted int
	for _, n := range bench.MaturityDistribution {
		counted += n
	}
	assert.Equal(t, 5, counted)
}

func TestAnalysisEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/surveys/digital-maturity-v1/score", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	t.Run("known organization", func(t *testing.T) {
		var report struct {
			OrganizationID string             `json:"organization_id"`
			PercentileRank float64            `json:"percentile_rank"`
			Domains        map[string]any     `json:"domains"`
			ActionPlan     map[string]any     `json:"action_plan"`
			Corpus         map[string]float64 `json:"corpus"`
		}
		resp := getJSON(t, ts.URL+"/api/surveys/digital-maturity-v1/organizations/org-001/analysis", &report)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		assert.Equal(t, "org-001", report.OrganizationID)
		assert.GreaterOrEqual(t, report.PercentileRank, 0.0)
		assert.LessOrEqual(t, report.PercentileRank, 100.0)
		assert.NotEmpty(t, report.Domains)
		assert.NotEmpty(t, report.ActionPlan)
	})

	t.Run("unknown organization", func(t *testing.T) {
		resp := getJSON(t, ts.URL+"/api/surveys/digital-maturity-v1/organizations/org-999/analysis", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestThrottle(t *testing.T) {
	ctx := context.Background()

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	require.NoError(t, st.Migrate(ctx))

	cfg := testServerConfig()
	cfg.RateLimit = 1
	cfg.RateBurst = 2

	ts := httptest.NewServer(New(st, cfg).Router())
	t.Cleanup(ts.Close)

	// Burst allows the first two, the third is rejected.
	var last int
	for i := 0; i < 3; i++ {
		resp, err := http.Get(ts.URL + "/health")
		require.NoError(t, err)
		resp.Body.Close()
		last = resp.StatusCode
	}
	assert.Equal(t, http.StatusTooManyRequests, last)

	// The bucket refills at one request per second.
	time.Sleep(1100 * time.Millisecond)
	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
