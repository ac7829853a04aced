package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Question types supported by the builder. The set is closed; adding a type
// means touching Validate, the answer union in respond, and the normalizer.
const (
	QuestionLikert   = "likert"
	QuestionOpenText = "open_text"
)

// DefaultLikertScale is used when a likert question omits its scale.
const DefaultLikertScale = 5

// Question is one entry of a survey's ordered question list. Likert-only
// fields are ignored for open_text questions.
type Question struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Scale     int    `json:"scale,omitempty"`
	LowLabel  string `json:"lowLabel,omitempty"`
	HighLabel string `json:"highLabel,omitempty"`
}

// questionJSON mirrors Question but leaves the id raw, so configs written by
// the SPA client (numeric ids) and by the template library (string ids) both
// load.
type questionJSON struct {
	ID        json.RawMessage `json:"id"`
	Type      string          `json:"type"`
	Title     string          `json:"title"`
	Scale     int             `json:"scale,omitempty"`
	LowLabel  string          `json:"lowLabel,omitempty"`
	HighLabel string          `json:"highLabel,omitempty"`
}

// UnmarshalJSON accepts both integer and string question ids, normalizing to
// the string form used everywhere downstream (response rows key on it).
func (q *Question) UnmarshalJSON(data []byte) error {
	var raw questionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	q.Type = raw.Type
	q.Title = raw.Title
	q.Scale = raw.Scale
	q.LowLabel = raw.LowLabel
	q.HighLabel = raw.HighLabel

	if len(raw.ID) == 0 {
		q.ID = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(raw.ID, &s); err == nil {
		q.ID = s
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw.ID, &n); err != nil {
		return fmt.Errorf("question id must be a string or number: %w", err)
	}
	q.ID = n.String()
	return nil
}

// Validate checks a single question definition and applies the likert scale
// default in place.
func (q *Question) Validate() error {
	if q.ID == "" {
		return fmt.Errorf("question is missing an id")
	}
	switch q.Type {
	case QuestionLikert:
		if q.Scale == 0 {
			q.Scale = DefaultLikertScale
		}
		if q.Scale < 2 {
			return fmt.Errorf("question %s: likert scale must be at least 2, got %d", q.ID, q.Scale)
		}
	case QuestionOpenText:
		// Scale and endpoint labels carry no meaning for open text.
		q.Scale = 0
		q.LowLabel = ""
		q.HighLabel = ""
	default:
		return fmt.Errorf("question %s: unknown type %q", q.ID, q.Type)
	}
	return nil
}

// ValidateQuestions validates an ordered question list and rejects duplicate
// ids, which would make response rows ambiguous.
func ValidateQuestions(questions []Question) error {
	seen := make(map[string]struct{}, len(questions))
	for i := range questions {
		if err := questions[i].Validate(); err != nil {
			return err
		}
		if _, dup := seen[questions[i].ID]; dup {
			return fmt.Errorf("duplicate question id %s", questions[i].ID)
		}
		seen[questions[i].ID] = struct{}{}
	}
	return nil
}

// Survey holds one project's questionnaire. The ordered question list is
// serialized into config_json; order is significant, it is the respondent's
// traversal order.
type Survey struct {
	ID         uint `gorm:"primaryKey"`
	ProjectID  uint `gorm:"uniqueIndex"`
	Title      string
	ConfigJSON string `gorm:"column:config_json;type:jsonb"`
	ShareToken string `gorm:"uniqueIndex"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Questions decodes the stored question list.
func (s *Survey) Questions() ([]Question, error) {
	if s.ConfigJSON == "" {
		return nil, nil
	}
	var questions []Question
	if err := json.Unmarshal([]byte(s.ConfigJSON), &questions); err != nil {
		return nil, fmt.Errorf("failed to decode survey config: %w", err)
	}
	return questions, nil
}

// SetQuestions validates and stores the question list.
func (s *Survey) SetQuestions(questions []Question) error {
	if err := ValidateQuestions(questions); err != nil {
		return err
	}
	data, err := json.Marshal(questions)
	if err != nil {
		return fmt.Errorf("failed to encode survey config: %w", err)
	}
	s.ConfigJSON = string(data)
	return nil
}
