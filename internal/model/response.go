package model

import (
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
)

// AnswerKind tags the variant held by an Answer.
type AnswerKind string

const (
	AnswerNumber      AnswerKind = "number"
	AnswerText        AnswerKind = "text"
	AnswerMultiSelect AnswerKind = "multiselect"
)

// Answer is a tagged variant for raw survey answers. Aggregation is defined
// only over AnswerNumber; text and multi-select answers are carried through
// for reporting but never scored.
type Answer struct {
	Kind    AnswerKind `json:"kind"`
	Number  float64    `json:"number,omitempty"`
	Text    string     `json:"text,omitempty"`
	Options []string   `json:"options,omitempty"`
}

// NumberAnswer builds a numeric answer.
func NumberAnswer(v float64) Answer {
	return Answer{Kind: AnswerNumber, Number: v}
}

// TextAnswer builds a free-text answer.
func TextAnswer(s string) Answer {
	return Answer{Kind: AnswerText, Text: s}
}

// MultiSelectAnswer builds a multi-select answer.
func MultiSelectAnswer(opts ...string) Answer {
	return Answer{Kind: AnswerMultiSelect, Options: opts}
}

// Numeric returns the numeric value and whether this answer is scorable.
func (a Answer) Numeric() (float64, bool) {
	if a.Kind == AnswerNumber {
		return a.Number, true
	}
	return 0, false
}

// UnmarshalJSON accepts either the tagged form or the raw wire values the
// survey frontend submits: a bare number, a string, or an array of strings.
func (a *Answer) UnmarshalJSON(data []byte) error {
	var tagged struct {
		Kind    AnswerKind `json:"kind"`
		Number  float64    `json:"number"`
		Text    string     `json:"text"`
		Options []string   `json:"options"`
	}
	if err := json.Unmarshal(data, &tagged); err == nil && tagged.Kind != "" {
		a.Kind = tagged.Kind
		a.Number = tagged.Number
		a.Text = tagged.Text
		a.Options = tagged.Options
		return nil
	}

	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*a = NumberAnswer(num)
		return nil
	}
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*a = TextAnswer(str)
		return nil
	}
	var opts []string
	if err := json.Unmarshal(data, &opts); err == nil {
		*a = MultiSelectAnswer(opts...)
		return nil
	}
	return eris.Errorf("model: answer is not a number, string, string array, or tagged object: %s", string(data))
}

// Response is one respondent's submission for a (survey, organization,
// stakeholder) triple. Immutable once CompletedAt is set; partial autosaves
// may be overwritten before completion.
type Response struct {
	ID             string            `json:"id"`
	SurveyID       string            `json:"survey_id"`
	OrganizationID string            `json:"organization_id"`
	RespondentID   string            `json:"respondent_id"`
	StakeholderID  string            `json:"stakeholder_id"`
	Expertise      []string          `json:"expertise,omitempty"`
	Answers        map[string]Answer `json:"answers"`
	StartedAt      time.Time         `json:"started_at"`
	CompletedAt    *time.Time        `json:"completed_at,omitempty"`
	Progress       float64           `json:"progress"`
}

// Completed reports whether the response has been finalized.
func (r *Response) Completed() bool {
	return r.CompletedAt != nil
}
