package sample

import "github.com/civicstack/maturity-cli/internal/model"

// DefaultSurvey returns the canonical digital maturity assessment schema:
// five weighted domains, four stakeholder roles, and a three-tier maturity
// ladder covering the full 1-5 score range.
func DefaultSurvey() *model.Survey {
	return &model.Survey{
		ID:      "digital-maturity-v1",
		Name:    "Digital Maturity Assessment",
		Version: 1,
		Domains: []model.Domain{
			{ID: "infrastructure", Name: "Infrastructure", Weight: 0.25, Color: "#2563eb"},
			{ID: "data", Name: "Data Management", Weight: 0.20, Color: "#16a34a"},
			{ID: "security", Name: "Security", Weight: 0.20, Color: "#dc2626"},
			{ID: "staff_capacity", Name: "Staff Capacity", Weight: 0.20, Color: "#9333ea"},
			{ID: "strategy", Name: "Technology Strategy", Weight: 0.15, Color: "#ea580c"},
		},
		Stakeholders: []model.Stakeholder{
			{ID: "executive", Name: "Executive Director", Weight: 0.30, RequiredExpertise: []string{"leadership"}},
			{ID: "tech_lead", Name: "Technology Lead", Weight: 0.30, RequiredExpertise: []string{"technology"}},
			{ID: "program", Name: "Program Manager", Weight: 0.25, RequiredExpertise: []string{"operations"}},
			{ID: "frontline", Name: "Frontline Staff", Weight: 0.15},
		},
		Questions: []model.Question{
			{ID: "q_infra_1", Text: "How reliable is your core hardware?", Domain: "infrastructure", Stakeholders: []string{"tech_lead", "frontline"}, Type: model.QuestionRating, Required: true},
			{ID: "q_infra_2", Text: "How well do cloud services cover your needs?", Domain: "infrastructure", Stakeholders: []string{"tech_lead"}, Type: model.QuestionRating, Required: true},
			{ID: "q_data_1", Text: "How consistently is program data captured in one system?", Domain: "data", Stakeholders: []string{"program", "tech_lead"}, Type: model.QuestionRating, Required: true},
			{ID: "q_data_2", Text: "How confident are you in your reporting data?", Domain: "data", Stakeholders: []string{"executive", "program"}, Type: model.QuestionRating, Required: true},
			{ID: "q_sec_1", Text: "How mature are your access controls?", Domain: "security", Stakeholders: []string{"tech_lead"}, Type: model.QuestionRating, Required: true},
			{ID: "q_sec_2", Text: "How regularly is security training delivered?", Domain: "security", Stakeholders: []string{"executive", "frontline"}, Type: model.QuestionRating, Required: true},
			{ID: "q_staff_1", Text: "How comfortable is staff with your core tools?", Domain: "staff_capacity", Stakeholders: []string{"frontline", "program"}, Type: model.QuestionRating, Required: true},
			{ID: "q_staff_2", Text: "How available is technology support to staff?", Domain: "staff_capacity", Stakeholders: []string{"frontline"}, Type: model.QuestionRating, Required: true},
			{ID: "q_strat_1", Text: "How aligned is technology spend with strategy?", Domain: "strategy", Stakeholders: []string{"executive"}, Type: model.QuestionRating, Required: true},
			{ID: "q_strat_2", Text: "Describe your biggest technology obstacle.", Domain: "strategy", Stakeholders: []string{"executive", "tech_lead"}, Type: model.QuestionText},
		},
		Scoring: model.ScoringPolicy{
			Method: "weighted_average",
			StakeholderWeights: map[string]float64{
				"executive": 0.30,
				"tech_lead": 0.30,
				"program":   0.25,
				"frontline": 0.15,
			},
			DomainWeights: map[string]float64{
				"infrastructure": 0.25,
				"data":           0.20,
				"security":       0.20,
				"staff_capacity": 0.20,
				"strategy":       0.15,
			},
			MaturityLevels: []model.MaturityLevel{
				{
					ID: "building", Name: "Building", MinScore: 1.0, MaxScore: 2.5, Color: "#f59e0b",
					Recommendations: []string{
						"Stabilize core infrastructure before adding new tools",
						"Establish basic data backup and recovery",
					},
				},
				{
					ID: "emerging", Name: "Emerging", MinScore: 2.5, MaxScore: 3.8, Color: "#3b82f6",
					Recommendations: []string{
						"Integrate systems to reduce duplicate data entry",
						"Invest in staff digital skills",
					},
				},
				{
					ID: "thriving", Name: "Thriving", MinScore: 3.8, MaxScore: 5.0, Color: "#22c55e",
					Recommendations: []string{
						"Use analytics to drive program decisions",
						"Mentor peer organizations",
					},
				},
			},
		},
	}
}
