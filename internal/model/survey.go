// Package model defines the survey schema, response, and result types shared
// across the scoring, benchmark, and analysis engines.
package model

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Score scale bounds. All domain and overall scores live on this scale.
const (
	MinScore = 1.0
	MaxScore = 5.0
)

// QuestionType identifies how a question is answered.
type QuestionType string

const (
	QuestionRating      QuestionType = "rating"
	QuestionText        QuestionType = "text"
	QuestionMultiSelect QuestionType = "multiselect"
	QuestionBoolean     QuestionType = "boolean"
)

// Scorable reports whether answers of this type feed domain scoring.
// Only numeric answer types aggregate; text and multi-select are
// collected for reporting but never enter the arithmetic.
func (t QuestionType) Scorable() bool {
	return t == QuestionRating || t == QuestionBoolean
}

// Domain is a named category of questions with a scoring weight.
type Domain struct {
	ID     string  `json:"id" yaml:"id"`
	Name   string  `json:"name" yaml:"name"`
	Weight float64 `json:"weight" yaml:"weight"`
	Color  string  `json:"color,omitempty" yaml:"color,omitempty"`
}

// Stakeholder is a respondent role with a scoring weight.
type Stakeholder struct {
	ID                string   `json:"id" yaml:"id"`
	Name              string   `json:"name" yaml:"name"`
	Weight            float64  `json:"weight" yaml:"weight"`
	RequiredExpertise []string `json:"required_expertise,omitempty" yaml:"required_expertise,omitempty"`
}

// Question belongs to one domain and targets one or more stakeholder roles.
type Question struct {
	ID           string       `json:"id" yaml:"id"`
	Text         string       `json:"text" yaml:"text"`
	Domain       string       `json:"domain" yaml:"domain"`
	Stakeholders []string     `json:"stakeholders" yaml:"stakeholders"`
	Type         QuestionType `json:"type" yaml:"type"`
	Required     bool         `json:"required" yaml:"required"`
	Validation   *Validation  `json:"validation,omitempty" yaml:"validation,omitempty"`
}

// Validation holds per-question answer constraints.
type Validation struct {
	Min       *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max       *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	MaxLength int      `json:"max_length,omitempty" yaml:"max_length,omitempty"`
}

// MaturityLevel is a named tier matched by overall score range.
type MaturityLevel struct {
	ID              string   `json:"id" yaml:"id"`
	Name            string   `json:"name" yaml:"name"`
	MinScore        float64  `json:"min_score" yaml:"min_score"`
	MaxScore        float64  `json:"max_score" yaml:"max_score"`
	Color           string   `json:"color,omitempty" yaml:"color,omitempty"`
	Recommendations []string `json:"recommendations,omitempty" yaml:"recommendations,omitempty"`
}

// Contains reports whether the score falls inside this level's range.
// Both bounds are inclusive.
func (l MaturityLevel) Contains(score float64) bool {
	return score >= l.MinScore && score <= l.MaxScore
}

// ScoringPolicy carries the weight maps and the ordered maturity ladder.
type ScoringPolicy struct {
	Method             string             `json:"method" yaml:"method"`
	StakeholderWeights map[string]float64 `json:"stakeholder_weights" yaml:"stakeholder_weights"`
	DomainWeights      map[string]float64 `json:"domain_weights" yaml:"domain_weights"`
	MaturityLevels     []MaturityLevel    `json:"maturity_levels" yaml:"maturity_levels"`
}

// Survey is an immutable survey schema version.
type Survey struct {
	ID           string        `json:"id" yaml:"id"`
	Name         string        `json:"name" yaml:"name"`
	Version      int           `json:"version" yaml:"version"`
	Domains      []Domain      `json:"domains" yaml:"domains"`
	Stakeholders []Stakeholder `json:"stakeholders" yaml:"stakeholders"`
	Questions    []Question    `json:"questions" yaml:"questions"`
	Scoring      ScoringPolicy `json:"scoring" yaml:"scoring"`
}

// QuestionsForDomain returns the survey's questions whose domain matches id,
// in schema order.
func (s *Survey) QuestionsForDomain(id string) []Question {
	var qs []Question
	for _, q := range s.Questions {
		if q.Domain == id {
			qs = append(qs, q)
		}
	}
	return qs
}

// StakeholderWeight returns the scoring weight for a stakeholder id. The
// policy weight map wins; the stakeholder definition is the fallback.
// Unknown stakeholders weigh 0 and therefore never contribute.
func (s *Survey) StakeholderWeight(id string) float64 {
	if w, ok := s.Scoring.StakeholderWeights[id]; ok {
		return w
	}
	for _, st := range s.Stakeholders {
		if st.ID == id {
			return st.Weight
		}
	}
	return 0
}

// DomainWeight returns the scoring weight for a domain id, preferring the
// policy map over the domain definition.
func (s *Survey) DomainWeight(id string) float64 {
	if w, ok := s.Scoring.DomainWeights[id]; ok {
		return w
	}
	for _, d := range s.Domains {
		if d.ID == id {
			return d.Weight
		}
	}
	return 0
}

// weightTolerance is how far a weight sum may drift from 1.0 before
// Validate flags it.
const weightTolerance = 0.01

// Validate checks the schema invariants that scoring itself never enforces:
// weight sums near 1.0 and a contiguous maturity ladder covering the full
// score range. Violations are advisory, scoring stays fail-open, and the
// caller decides whether to reject the schema or just log.
func (s *Survey) Validate() error {
	var errs []string

	if s.ID == "" {
		errs = append(errs, "survey id is required")
	}
	if len(s.Domains) == 0 {
		errs = append(errs, "at least one domain is required")
	}

	var domainSum float64
	for _, d := range s.Domains {
		domainSum += s.DomainWeight(d.ID)
	}
	if len(s.Domains) > 0 && math.Abs(domainSum-1.0) > weightTolerance {
		errs = append(errs, fmt.Sprintf("domain weights sum to %.3f, expected 1.0", domainSum))
	}

	var stakeholderSum float64
	for _, st := range s.Stakeholders {
		stakeholderSum += s.StakeholderWeight(st.ID)
	}
	if len(s.Stakeholders) > 0 && math.Abs(stakeholderSum-1.0) > weightTolerance {
		errs = append(errs, fmt.Sprintf("stakeholder weights sum to %.3f, expected 1.0", stakeholderSum))
	}

	domainIDs := make(map[string]bool, len(s.Domains))
	for _, d := range s.Domains {
		domainIDs[d.ID] = true
	}
	for _, q := range s.Questions {
		if !domainIDs[q.Domain] {
			errs = append(errs, fmt.Sprintf("question %s references unknown domain %q", q.ID, q.Domain))
		}
	}

	levels := s.Scoring.MaturityLevels
	if len(levels) == 0 {
		errs = append(errs, "at least one maturity level is required")
	} else {
		if levels[0].MinScore > MinScore {
			errs = append(errs, fmt.Sprintf("maturity levels start at %.2f, leaving [%.0f, %.2f) uncovered", levels[0].MinScore, MinScore, levels[0].MinScore))
		}
		if levels[len(levels)-1].MaxScore < MaxScore {
			errs = append(errs, fmt.Sprintf("maturity levels end at %.2f, leaving (%.2f, %.0f] uncovered", levels[len(levels)-1].MaxScore, levels[len(levels)-1].MaxScore, MaxScore))
		}
		for i := 1; i < len(levels); i++ {
			if levels[i].MinScore > levels[i-1].MaxScore {
				errs = append(errs, fmt.Sprintf("gap between maturity levels %q and %q", levels[i-1].ID, levels[i].ID))
			}
		}
		for _, l := range levels {
			if l.MinScore > l.MaxScore {
				errs = append(errs, fmt.Sprintf("maturity level %q has min_score > max_score", l.ID))
			}
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("survey %s: schema validation failed: %s", s.ID, strings.Join(errs, "; "))
	}
	return nil
}

// LoadSurvey reads a survey schema from a YAML file.
func LoadSurvey(path string) (*Survey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "model: read survey %s", path)
	}
	var s Survey
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, eris.Wrapf(err, "model: parse survey %s", path)
	}
	return &s, nil
}
