package respond

import "github.com/lifeinnovator/InsightFlow/internal/models"

// Row is one normalized response row, one per question per participant.
// Exactly one of ValueNumeric/ValueText is set for an answered question,
// chosen by the question's type; both stay nil when the question went
// unanswered. SurveyID and ParticipantID are stamped by Submit once the
// participant exists.
type Row struct {
	SurveyID      uint
	ParticipantID string
	QuestionID    string
	ValueNumeric  *int
	ValueText     *string
}

// Normalize flattens the in-memory answer map into one row per question, in
// question order. Pure: the same (questions, answers) pair always yields the
// same rows.
func Normalize(questions []models.Question, answers map[int]Answer) []Row {
	rows := make([]Row, len(questions))
	for i, q := range questions {
		row := Row{QuestionID: q.ID}
		switch q.Type {
		case models.QuestionLikert:
			if a, ok := answers[i].(LikertAnswer); ok {
				v := int(a)
				row.ValueNumeric = &v
			}
		case models.QuestionOpenText:
			if a, ok := answers[i].(TextAnswer); ok && a.answered() {
				s := string(a)
				row.ValueText = &s
			}
		}
		rows[i] = row
	}
	return rows
}
