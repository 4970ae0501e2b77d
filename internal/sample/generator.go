// Package sample generates deterministic sample organizations and survey
// responses for demos, benchmarking baselines, and tests. The generator is
// an explicit value constructed with a seed; there is no global instance.
package sample

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/civicstack/maturity-cli/internal/model"
)

// Generator produces sample data from a seeded random source. The same
// seed always yields the same organizations and responses.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a Generator with the given seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

var sampleSectors = []string{
	"education", "healthcare", "human services", "arts and culture", "environment",
}

var sampleSizes = []model.OrgSize{model.OrgSmall, model.OrgMedium, model.OrgLarge}

// Organizations generates n organization profiles. Sector and size skew the
// staffing and budget covariates so benchmark group-bys have real spread.
func (g *Generator) Organizations(n int) []model.Organization {
	orgs := make([]model.Organization, 0, n)
	for i := 0; i < n; i++ {
		sector := sampleSectors[g.rng.Intn(len(sampleSectors))]
		size := sampleSizes[g.rng.Intn(len(sampleSizes))]

		staff := 5 + g.rng.Intn(20)
		switch size {
		case model.OrgMedium:
			staff = 25 + g.rng.Intn(75)
		case model.OrgLarge:
			staff = 100 + g.rng.Intn(400)
		}

		orgs = append(orgs, model.Organization{
			ID:                 fmt.Sprintf("org-%03d", i+1),
			Name:               fmt.Sprintf("Sample Organization %d", i+1),
			Sector:             sector,
			Size:               size,
			StaffCount:         staff,
			HasITStaff:         size != model.OrgSmall && g.rng.Float64() < 0.7,
			ITBudgetPercentage: 1 + g.rng.Float64()*9,
		})
	}
	return orgs
}

// Responses generates one completed response per stakeholder role for each
// organization. Answer values cluster around a per-organization baseline so
// the corpus spans the maturity ladder.
func (g *Generator) Responses(survey *model.Survey, orgs []model.Organization) []model.Response {
	var responses []model.Response
	now := time.Now().UTC()

	for _, org := range orgs {
		// Baseline maturity for the org, 1.5 to 4.5.
		baseline := 1.5 + g.rng.Float64()*3.0

		for _, st := range survey.Stakeholders {
			answers := make(map[string]model.Answer)
			for _, q := range survey.Questions {
				if !targets(q, st.ID) {
					continue
				}
				switch q.Type {
				case model.QuestionRating:
					answers[q.ID] = model.NumberAnswer(clampScore(baseline + g.rng.NormFloat64()*0.6))
				case model.QuestionBoolean:
					if g.rng.Float64() < baseline/model.MaxScore {
						answers[q.ID] = model.NumberAnswer(model.MaxScore)
					} else {
						answers[q.ID] = model.NumberAnswer(model.MinScore)
					}
				case model.QuestionText:
					answers[q.ID] = model.TextAnswer("Staff bandwidth is our main constraint.")
				case model.QuestionMultiSelect:
					answers[q.ID] = model.MultiSelectAnswer("budget", "training")
				}
			}

			started := now.Add(-time.Duration(1+g.rng.Intn(72)) * time.Hour)
			completed := started.Add(time.Duration(10+g.rng.Intn(50)) * time.Minute)
			responses = append(responses, model.Response{
				ID:             uuid.NewSHA1(uuid.NameSpaceOID, []byte(org.ID+"/"+st.ID)).String(),
				SurveyID:       survey.ID,
				OrganizationID: org.ID,
				RespondentID:   fmt.Sprintf("%s-%s", org.ID, st.ID),
				StakeholderID:  st.ID,
				Expertise:      st.RequiredExpertise,
				Answers:        answers,
				StartedAt:      started,
				CompletedAt:    &completed,
				Progress:       100,
			})
		}
	}
	return responses
}

func targets(q model.Question, stakeholderID string) bool {
	if len(q.Stakeholders) == 0 {
		return true
	}
	for _, id := range q.Stakeholders {
		if id == stakeholderID {
			return true
		}
	}
	return false
}

func clampScore(v float64) float64 {
	if v < model.MinScore {
		return model.MinScore
	}
	if v > model.MaxScore {
		return model.MaxScore
	}
	// Round to half points like a real rating widget.
	return float64(int(v*2+0.5)) / 2
}
