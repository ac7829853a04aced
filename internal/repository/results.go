package repository

import (
	"context"

	"github.com/lifeinnovator/InsightFlow/internal/database"
	"github.com/lifeinnovator/InsightFlow/internal/models"
	"github.com/lifeinnovator/InsightFlow/internal/quality"
)

// QuestionSummary is the per-question aggregate shown on the results page.
// Likert questions fill Mean/StdDev/Distribution; open-text questions fill
// Texts. Answered counts rows with a value; unanswered rows still exist but
// carry neither value slot.
type QuestionSummary struct {
	QuestionID   string      `json:"questionId"`
	Title        string      `json:"title"`
	Type         string      `json:"type"`
	Answered     int         `json:"answered"`
	Mean         float64     `json:"mean,omitempty"`
	StdDev       float64     `json:"stdDev,omitempty"`
	Distribution map[int]int `json:"distribution,omitempty"`
	Texts        []string    `json:"texts,omitempty"`
}

// SurveySummary aggregates one survey's collected responses per question.
type SurveySummary struct {
	SurveyID     uint              `json:"surveyId"`
	Participants int64             `json:"participants"`
	Questions    []QuestionSummary `json:"questions"`
}

// SummarizeSurvey loads all response rows for a survey and folds them into
// per-question aggregates, in question order.
func SummarizeSurvey(ctx context.Context, survey *models.Survey) (*SurveySummary, error) {
	questions, err := survey.Questions()
	if err != nil {
		return nil, err
	}

	var rows []models.Response
	if err := database.DB.WithContext(ctx).
		Where("survey_id = ?", survey.ID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	participants, err := CountParticipants(ctx, survey.ProjectID)
	if err != nil {
		return nil, err
	}

	numeric := make(map[string][]int)
	texts := make(map[string][]string)
	for _, row := range rows {
		switch {
		case row.ValueNumeric != nil:
			numeric[row.QuestionID] = append(numeric[row.QuestionID], *row.ValueNumeric)
		case row.ValueText != nil:
			texts[row.QuestionID] = append(texts[row.QuestionID], *row.ValueText)
		}
	}

	summary := &SurveySummary{
		SurveyID:     survey.ID,
		Participants: participants,
		Questions:    make([]QuestionSummary, 0, len(questions)),
	}
	for _, q := range questions {
		qs := QuestionSummary{QuestionID: q.ID, Title: q.Title, Type: q.Type}
		switch q.Type {
		case models.QuestionLikert:
			values := numeric[q.ID]
			qs.Answered = len(values)
			qs.Mean = quality.Mean(values)
			qs.StdDev = quality.StdDev(values)
			qs.Distribution = make(map[int]int, q.Scale)
			for _, v := range values {
				qs.Distribution[v]++
			}
		case models.QuestionOpenText:
			qs.Texts = texts[q.ID]
			qs.Answered = len(qs.Texts)
		}
		summary.Questions = append(summary.Questions, qs)
	}
	return summary, nil
}
