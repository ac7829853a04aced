package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/lifeinnovator/InsightFlow/internal/database"
	"github.com/lifeinnovator/InsightFlow/internal/models"
)

// ErrHasResponses blocks questionnaire edits once response rows exist; a
// changed question list would make already-collected rows unreadable.
var ErrHasResponses = errors.New("survey already has responses")

func GetSurveyByProject(ctx context.Context, projectID uint) (*models.Survey, error) {
	var survey models.Survey
	result := database.DB.WithContext(ctx).First(&survey, "project_id = ?", projectID)
	return &survey, result.Error
}

func GetSurveyByShareToken(ctx context.Context, token string) (*models.Survey, error) {
	var survey models.Survey
	result := database.DB.WithContext(ctx).First(&survey, "share_token = ?", token)
	return &survey, result.Error
}

// SaveSurvey creates or replaces a project's questionnaire. The replace path
// is refused once any responses have been collected.
func SaveSurvey(ctx context.Context, projectID uint, title string, questions []models.Question) (*models.Survey, error) {
	survey := &models.Survey{}
	err := database.DB.WithContext(ctx).First(survey, "project_id = ?", projectID).Error
	switch {
	case err == nil:
		count, countErr := CountResponses(ctx, survey.ID)
		if countErr != nil {
			return nil, countErr
		}
		if count > 0 {
			return nil, ErrHasResponses
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		survey = &models.Survey{ProjectID: projectID}
	default:
		return nil, err
	}

	survey.Title = title
	if err := survey.SetQuestions(questions); err != nil {
		return nil, err
	}
	if err := database.DB.WithContext(ctx).Save(survey).Error; err != nil {
		return nil, err
	}
	return survey, nil
}

// SetShareToken stores the public link token for a survey.
func SetShareToken(ctx context.Context, surveyID uint, token string) error {
	return database.DB.WithContext(ctx).
		Model(&models.Survey{}).
		Where("id = ?", surveyID).
		Update("share_token", token).Error
}

func CountResponses(ctx context.Context, surveyID uint) (int64, error) {
	var count int64
	err := database.DB.WithContext(ctx).
		Model(&models.Response{}).
		Where("survey_id = ?", surveyID).
		Count(&count).Error
	return count, err
}
