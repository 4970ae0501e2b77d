// Package benchmark computes corpus-wide descriptive statistics across all
// organizations' survey results. Everything is recomputed fresh per call;
// persisted output is a cache, never a source of truth.
package benchmark

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/civicstack/maturity-cli/internal/model"
)

// OverallMetrics summarizes the distribution of overall scores.
type OverallMetrics struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
}

// GroupStats describes one sector or size cohort.
type GroupStats struct {
	AverageScore     float64  `json:"average_score"`
	Count            int      `json:"count"`
	TopDomains       []string `json:"top_domains,omitempty"`
	CommonChallenges []string `json:"common_challenges,omitempty"`
}

// StakeholderInsight describes engagement and answer patterns for one
// stakeholder role across the corpus.
type StakeholderInsight struct {
	// Engagement is the average response count per organization for this
	// stakeholder (responses / total organizations).
	Engagement       float64            `json:"engagement"`
	QuestionAverages map[string]float64 `json:"question_averages,omitempty"`
}

// Benchmark is the full corpus statistics report for one survey.
type Benchmark struct {
	SurveyID             string                        `json:"survey_id"`
	GeneratedAt          time.Time                     `json:"generated_at"`
	OrganizationCount    int                           `json:"organization_count"`
	OverallMetrics       OverallMetrics                `json:"overall_metrics"`
	MaturityDistribution map[string]int                `json:"maturity_distribution"`
	DomainAverages       map[string]float64            `json:"domain_averages"`
	SectorAnalysis       map[string]GroupStats         `json:"sector_analysis"`
	SizeAnalysis         map[string]GroupStats         `json:"organization_size_analysis"`
	StakeholderInsights  map[string]StakeholderInsight `json:"stakeholder_insights"`
	TopPerformers        []string                      `json:"top_performers"`
}

// sectorChallenges is a static lookup of known pain points per sector.
// Unknown sectors fall back to defaultChallenges.
var sectorChallenges = map[string][]string{
	"education": {
		"Limited funding for technology upgrades",
		"Staff training on digital tools",
		"Student data privacy compliance",
	},
	"healthcare": {
		"Regulatory compliance burden",
		"Legacy system integration",
		"Patient data security",
	},
	"human services": {
		"Case management system fragmentation",
		"Volunteer coordination tooling",
		"Grant reporting overhead",
	},
	"arts and culture": {
		"Digital audience engagement",
		"Online ticketing and donations",
		"Collection digitization backlog",
	},
	"environment": {
		"Field data collection infrastructure",
		"Remote team connectivity",
		"Impact measurement tooling",
	},
}

var defaultChallenges = []string{
	"Limited IT budget",
	"Staff capacity for technology adoption",
	"Data management maturity",
}

// ChallengesForSector returns the static challenge list for a sector,
// falling back to a generic default for unknown sectors.
func ChallengesForSector(sector string) []string {
	if c, ok := sectorChallenges[sector]; ok {
		return c
	}
	return defaultChallenges
}

// Compute derives the full benchmark report from the survey schema, all
// results, the organization directory, and the raw response list.
func Compute(survey *model.Survey, results []model.Result, orgs []model.Organization, responses []model.Response) *Benchmark {
	b := &Benchmark{
		SurveyID:             survey.ID,
		GeneratedAt:          time.Now().UTC(),
		OrganizationCount:    len(results),
		MaturityDistribution: make(map[string]int),
		DomainAverages:       make(map[string]float64),
		SectorAnalysis:       make(map[string]GroupStats),
		SizeAnalysis:         make(map[string]GroupStats),
		StakeholderInsights:  make(map[string]StakeholderInsight),
	}

	scores := make([]float64, 0, len(results))
	for i := range results {
		scores = append(scores, results[i].OverallScore)
	}
	b.OverallMetrics = OverallMetrics{
		Mean:   Mean(scores),
		Median: Median(scores),
		StdDev: StdDev(scores),
	}

	// Maturity distribution, keyed by the schema's own level ids so foreign
	// ladders are never undercounted.
	for _, l := range survey.Scoring.MaturityLevels {
		b.MaturityDistribution[l.ID] = 0
	}
	for i := range results {
		b.MaturityDistribution[results[i].MaturityLevel.ID]++
	}

	for _, d := range survey.Domains {
		var vals []float64
		for i := range results {
			if v, ok := results[i].DomainScores[d.ID]; ok {
				vals = append(vals, v)
			}
		}
		if len(vals) > 0 {
			b.DomainAverages[d.ID] = Mean(vals)
		}
	}

	profile := make(map[string]*model.Organization, len(orgs))
	for i := range orgs {
		profile[orgs[i].ID] = &orgs[i]
	}

	b.SectorAnalysis = groupStats(survey, results, func(r *model.Result) (string, bool) {
		if p, ok := profile[r.OrganizationID]; ok {
			return p.Sector, true
		}
		return "", false
	})
	for sector, gs := range b.SectorAnalysis {
		gs.CommonChallenges = ChallengesForSector(sector)
		b.SectorAnalysis[sector] = gs
	}

	b.SizeAnalysis = groupStats(survey, results, func(r *model.Result) (string, bool) {
		if p, ok := profile[r.OrganizationID]; ok {
			return string(p.Size), true
		}
		return "", false
	})

	b.StakeholderInsights = stakeholderInsights(survey, results, responses)
	b.TopPerformers = topPerformers(results, 3)

	zap.L().Info("benchmark: computed corpus statistics",
		zap.String("survey_id", survey.ID),
		zap.Int("organizations", len(results)),
		zap.Float64("mean_score", b.OverallMetrics.Mean),
	)

	return b
}

// groupStats buckets results by the given key and computes per-group
// averages plus the top-3 domains by average domain score.
func groupStats(survey *model.Survey, results []model.Result, keyFn func(*model.Result) (string, bool)) map[string]GroupStats {
	type bucket struct {
		scores     []float64
		domainSums map[string]float64
		domainNs   map[string]int
	}
	buckets := make(map[string]*bucket)

	for i := range results {
		key, ok := keyFn(&results[i])
		if !ok || key == "" {
			continue
		}
		bk := buckets[key]
		if bk == nil {
			bk = &bucket{
				domainSums: make(map[string]float64),
				domainNs:   make(map[string]int),
			}
			buckets[key] = bk
		}
		bk.scores = append(bk.scores, results[i].OverallScore)
		for _, d := range survey.Domains {
			if v, ok := results[i].DomainScores[d.ID]; ok {
				bk.domainSums[d.ID] += v
				bk.domainNs[d.ID]++
			}
		}
	}

	out := make(map[string]GroupStats, len(buckets))
	for key, bk := range buckets {
		type domAvg struct {
			id  string
			avg float64
		}
		avgs := make([]domAvg, 0, len(bk.domainSums))
		for id, sum := range bk.domainSums {
			avgs = append(avgs, domAvg{id: id, avg: sum / float64(bk.domainNs[id])})
		}
		sort.Slice(avgs, func(i, j int) bool {
			if avgs[i].avg != avgs[j].avg {
				return avgs[i].avg > avgs[j].avg
			}
			return avgs[i].id < avgs[j].id
		})
		top := make([]string, 0, 3)
		for i := 0; i < len(avgs) && i < 3; i++ {
			top = append(top, avgs[i].id)
		}
		out[key] = GroupStats{
			AverageScore: Mean(bk.scores),
			Count:        len(bk.scores),
			TopDomains:   top,
		}
	}
	return out
}

// stakeholderInsights computes per-role engagement and average answer
// values, normalized by the total organization count.
func stakeholderInsights(survey *model.Survey, results []model.Result, responses []model.Response) map[string]StakeholderInsight {
	totalOrgs := len(results)
	insights := make(map[string]StakeholderInsight, len(survey.Stakeholders))

	for _, st := range survey.Stakeholders {
		var respCount int
		sums := make(map[string]float64)
		ns := make(map[string]int)

		for i := range responses {
			resp := &responses[i]
			if resp.StakeholderID != st.ID {
				continue
			}
			respCount++
			for qid, ans := range resp.Answers {
				if v, ok := ans.Numeric(); ok {
					sums[qid] += v
					ns[qid]++
				}
			}
		}

		insight := StakeholderInsight{}
		if totalOrgs > 0 {
			insight.Engagement = float64(respCount) / float64(totalOrgs)
		}
		if len(sums) > 0 {
			insight.QuestionAverages = make(map[string]float64, len(sums))
			for qid, sum := range sums {
				insight.QuestionAverages[qid] = sum / float64(ns[qid])
			}
		}
		insights[st.ID] = insight
	}
	return insights
}

// topPerformers returns up to n organization ids by descending overall
// score, ties broken by organization id for stable output.
func topPerformers(results []model.Result, n int) []string {
	sorted := make([]model.Result, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].OverallScore != sorted[j].OverallScore {
			return sorted[i].OverallScore > sorted[j].OverallScore
		}
		return sorted[i].OrganizationID < sorted[j].OrganizationID
	})
	var top []string
	for i := 0; i < len(sorted) && i < n; i++ {
		top = append(top, sorted[i].OrganizationID)
	}
	return top
}
