package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/lifeinnovator/InsightFlow/internal/database"
	"github.com/lifeinnovator/InsightFlow/internal/models"
)

// ErrNotOwner is returned when a researcher touches a project they do not own.
var ErrNotOwner = errors.New("project does not belong to this user")

func CreateProject(ctx context.Context, project *models.Project) error {
	return database.DB.WithContext(ctx).Create(project).Error
}

func ListProjects(ctx context.Context, ownerID uint) ([]models.Project, error) {
	var projects []models.Project
	err := database.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("updated_at DESC").
		Find(&projects).Error
	return projects, err
}

// GetOwnedProject fetches a project and verifies ownership in one step. All
// console handlers go through this.
func GetOwnedProject(ctx context.Context, projectID, ownerID uint) (*models.Project, error) {
	var project models.Project
	if err := database.DB.WithContext(ctx).First(&project, projectID).Error; err != nil {
		return nil, err
	}
	if project.OwnerID != ownerID {
		return nil, ErrNotOwner
	}
	return &project, nil
}

func UpdateProjectStatus(ctx context.Context, projectID uint, status string) error {
	return database.DB.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ?", projectID).
		Update("status", status).Error
}

// DeleteProject removes a project together with its survey, participants and
// response rows.
func DeleteProject(ctx context.Context, projectID uint) error {
	return database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var survey models.Survey
		err := tx.First(&survey, "project_id = ?", projectID).Error
		if err == nil {
			if err := tx.Where("survey_id = ?", survey.ID).Delete(&models.Response{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&survey).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := tx.Where("project_id = ?", projectID).Delete(&models.Participant{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Project{}, projectID).Error
	})
}
