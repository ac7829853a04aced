package repository

import (
	"context"

	"github.com/lifeinnovator/InsightFlow/internal/database"
	"github.com/lifeinnovator/InsightFlow/internal/models"
)

func ListParticipants(ctx context.Context, projectID uint, status string) ([]models.Participant, error) {
	query := database.DB.WithContext(ctx).Where("project_id = ?", projectID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var participants []models.Participant
	err := query.Order("created_at DESC").Find(&participants).Error
	return participants, err
}

func GetParticipant(ctx context.Context, id string) (*models.Participant, error) {
	var participant models.Participant
	result := database.DB.WithContext(ctx).First(&participant, "id = ?", id)
	return &participant, result.Error
}

func UpdateParticipantStatus(ctx context.Context, id string, status string) error {
	return database.DB.WithContext(ctx).
		Model(&models.Participant{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func CountParticipants(ctx context.Context, projectID uint) (int64, error) {
	var count int64
	err := database.DB.WithContext(ctx).
		Model(&models.Participant{}).
		Where("project_id = ?", projectID).
		Count(&count).Error
	return count, err
}
