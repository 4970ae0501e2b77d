// Package analysis produces a single organization's positional report
// relative to the corpus: percentile ranks, peer groups, rule-based
// recommendations, and a tiered action plan.
package analysis

import (
	"sort"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/civicstack/maturity-cli/internal/benchmark"
	"github.com/civicstack/maturity-cli/internal/model"
)

// Strength/weakness cutoffs on the domain percentile scale.
const (
	strengthThreshold = 75.0
	weaknessThreshold = 25.0
)

// DomainComparison positions one domain score against the corpus and the
// organization's sector and size cohorts.
type DomainComparison struct {
	Score      float64 `json:"score"`
	Percentile float64 `json:"percentile"`
	// SectorDelta is this organization's domain score minus the sector
	// average for the same domain; SizeDelta likewise for the size cohort.
	SectorDelta float64 `json:"sector_delta"`
	SizeDelta   float64 `json:"size_delta"`
}

// PeerComparison lists peer organization ids by relationship.
type PeerComparison struct {
	// Similar shares both sector and size class.
	Similar []string `json:"similar,omitempty"`
	// BetterPerforming are the closest organizations scoring strictly
	// higher, ascending by score.
	BetterPerforming []string `json:"better_performing,omitempty"`
	// PotentialMentors are top-tier organizations scoring at least
	// mentorScoreGap above this one, descending by score.
	PotentialMentors []string `json:"potential_mentors,omitempty"`
}

// Analysis is the detailed per-organization report.
type Analysis struct {
	SurveyID        string                      `json:"survey_id"`
	OrganizationID  string                      `json:"organization_id"`
	GeneratedAt     time.Time                   `json:"generated_at"`
	OverallScore    float64                     `json:"overall_score"`
	MaturityLevelID string                      `json:"maturity_level_id"`
	PercentileRank  float64                     `json:"percentile_rank"`
	Corpus          benchmark.OverallMetrics    `json:"corpus"`
	Domains         map[string]DomainComparison `json:"domains"`
	Strengths       []string                    `json:"strengths,omitempty"`
	Weaknesses      []string                    `json:"weaknesses,omitempty"`
	Recommendations []string                    `json:"recommendations,omitempty"`
	Peers           PeerComparison              `json:"peers"`
	ActionPlan      ActionPlan                  `json:"action_plan"`
}

const (
	maxPeers       = 3
	mentorScoreGap = 0.5
)

// Analyze builds the detailed report for one organization. The organization
// must be present in both the profile directory and the results list; a
// missing id is a caller error, not a recoverable condition.
func Analyze(survey *model.Survey, orgID string, orgs []model.Organization, results []model.Result, bench *benchmark.Benchmark) (*Analysis, error) {
	var org *model.Organization
	for i := range orgs {
		if orgs[i].ID == orgID {
			org = &orgs[i]
			break
		}
	}
	if org == nil {
		return nil, eris.Errorf("analysis: organization %s not found in profile directory", orgID)
	}

	var result *model.Result
	for i := range results {
		if results[i].OrganizationID == orgID {
			result = &results[i]
			break
		}
	}
	if result == nil {
		return nil, eris.Errorf("analysis: organization %s has no survey result", orgID)
	}

	profile := make(map[string]*model.Organization, len(orgs))
	for i := range orgs {
		profile[orgs[i].ID] = &orgs[i]
	}

	a := &Analysis{
		SurveyID:        survey.ID,
		OrganizationID:  orgID,
		GeneratedAt:     time.Now().UTC(),
		OverallScore:    result.OverallScore,
		MaturityLevelID: result.MaturityLevel.ID,
		PercentileRank:  percentileRank(results, result.OverallScore),
		Corpus:          bench.OverallMetrics,
		Domains:         make(map[string]DomainComparison, len(survey.Domains)),
	}

	sectorAvg := cohortDomainAverages(survey, results, profile, func(p *model.Organization) string { return p.Sector }, org.Sector)
	sizeAvg := cohortDomainAverages(survey, results, profile, func(p *model.Organization) string { return string(p.Size) }, string(org.Size))

	for _, d := range survey.Domains {
		score, ok := result.DomainScores[d.ID]
		if !ok {
			continue
		}
		dc := DomainComparison{
			Score:      score,
			Percentile: domainPercentile(results, d.ID, score),
		}
		if avg, ok := sectorAvg[d.ID]; ok {
			dc.SectorDelta = score - avg
		}
		if avg, ok := sizeAvg[d.ID]; ok {
			dc.SizeDelta = score - avg
		}
		a.Domains[d.ID] = dc

		if dc.Percentile > strengthThreshold {
			a.Strengths = append(a.Strengths, d.ID)
		}
		if dc.Percentile < weaknessThreshold {
			a.Weaknesses = append(a.Weaknesses, d.ID)
		}
	}

	a.Recommendations = buildRecommendations(result.MaturityLevel.ID, a.Weaknesses, org)
	a.Peers = peerComparison(survey, org, result, results, profile)
	a.ActionPlan = buildActionPlan(result.MaturityLevel.ID, org.Size)

	zap.L().Debug("analysis: built organization report",
		zap.String("organization_id", orgID),
		zap.Float64("percentile_rank", a.PercentileRank),
		zap.Int("strengths", len(a.Strengths)),
		zap.Int("weaknesses", len(a.Weaknesses)),
	)

	return a, nil
}

// percentileRank ranks a score by its first-occurrence index in the sorted
// score list: (organizations strictly below) / total × 100. Ties share the
// rank of their first occurrence, an approximation the reporting layer
// depends on. Kept as-is.
func percentileRank(results []model.Result, score float64) float64 {
	if len(results) == 0 {
		return 0
	}
	scores := make([]float64, 0, len(results))
	for i := range results {
		scores = append(scores, results[i].OverallScore)
	}
	sort.Float64s(scores)
	idx := sort.SearchFloat64s(scores, score)
	return float64(idx) / float64(len(scores)) * 100
}

// domainPercentile is the fraction of all organizations' domain scores at
// or below the given score, expressed 0-100.
func domainPercentile(results []model.Result, domainID string, score float64) float64 {
	var atOrBelow, total int
	for i := range results {
		v, ok := results[i].DomainScores[domainID]
		if !ok {
			continue
		}
		total++
		if v <= score {
			atOrBelow++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(atOrBelow) / float64(total) * 100
}

// cohortDomainAverages computes per-domain averages across organizations in
// the same cohort (sector or size class).
func cohortDomainAverages(survey *model.Survey, results []model.Result, profile map[string]*model.Organization, keyFn func(*model.Organization) string, key string) map[string]float64 {
	sums := make(map[string]float64)
	ns := make(map[string]int)
	for i := range results {
		p, ok := profile[results[i].OrganizationID]
		if !ok || keyFn(p) != key {
			continue
		}
		for _, d := range survey.Domains {
			if v, ok := results[i].DomainScores[d.ID]; ok {
				sums[d.ID] += v
				ns[d.ID]++
			}
		}
	}
	avgs := make(map[string]float64, len(sums))
	for id, sum := range sums {
		avgs[id] = sum / float64(ns[id])
	}
	return avgs
}

// peerComparison selects similar, closest-better, and mentor organizations.
func peerComparison(survey *model.Survey, org *model.Organization, result *model.Result, results []model.Result, profile map[string]*model.Organization) PeerComparison {
	var pc PeerComparison

	for i := range results {
		other := &results[i]
		if other.OrganizationID == org.ID {
			continue
		}
		p, ok := profile[other.OrganizationID]
		if !ok {
			continue
		}
		if p.Sector == org.Sector && p.Size == org.Size && len(pc.Similar) < maxPeers {
			pc.Similar = append(pc.Similar, other.OrganizationID)
		}
	}

	// Closest better performers: strictly higher, ascending by score.
	var better []model.Result
	for i := range results {
		if results[i].OrganizationID != org.ID && results[i].OverallScore > result.OverallScore {
			better = append(better, results[i])
		}
	}
	sort.Slice(better, func(i, j int) bool {
		if better[i].OverallScore != better[j].OverallScore {
			return better[i].OverallScore < better[j].OverallScore
		}
		return better[i].OrganizationID < better[j].OrganizationID
	})
	for i := 0; i < len(better) && i < maxPeers; i++ {
		pc.BetterPerforming = append(pc.BetterPerforming, better[i].OrganizationID)
	}

	// Mentors: organizations in the ladder's top tier scoring at least
	// mentorScoreGap above this one, descending by score.
	topTier := topTierID(survey)
	var mentors []model.Result
	for i := range results {
		if results[i].OrganizationID == org.ID {
			continue
		}
		if results[i].MaturityLevel.ID == topTier && results[i].OverallScore >= result.OverallScore+mentorScoreGap {
			mentors = append(mentors, results[i])
		}
	}
	sort.Slice(mentors, func(i, j int) bool {
		if mentors[i].OverallScore != mentors[j].OverallScore {
			return mentors[i].OverallScore > mentors[j].OverallScore
		}
		return mentors[i].OrganizationID < mentors[j].OrganizationID
	})
	for i := 0; i < len(mentors) && i < maxPeers; i++ {
		pc.PotentialMentors = append(pc.PotentialMentors, mentors[i].OrganizationID)
	}

	return pc
}

// topTierID returns the id of the last maturity level in the schema's
// ladder, the mentor-eligible tier.
func topTierID(survey *model.Survey) string {
	levels := survey.Scoring.MaturityLevels
	if len(levels) == 0 {
		return ""
	}
	return levels[len(levels)-1].ID
}
