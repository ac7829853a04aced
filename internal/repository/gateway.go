package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lifeinnovator/InsightFlow/internal/database"
	"github.com/lifeinnovator/InsightFlow/internal/models"
	"github.com/lifeinnovator/InsightFlow/internal/respond"
)

// ErrCollectionClosed is returned for share links whose project is not
// currently collecting (paused, or still a draft).
var ErrCollectionClosed = errors.New("survey is not accepting responses")

// Gateway backs the respondent session layer with the surveys, participants
// and responses tables. It implements respond.DefinitionSource and
// respond.Gateway.
//
// CreateParticipant and InsertResponseRows run in separate transactions on
// purpose: a retry after the second call fails resends everything, which can
// leave an orphaned participant behind. That at-least-once tradeoff is
// preferred over losing a completed run.
type Gateway struct{}

func NewGateway() *Gateway { return &Gateway{} }

// Definition resolves a public share token to the survey definition a
// session starts from.
func (g *Gateway) Definition(ctx context.Context, shareToken string) (*respond.Definition, error) {
	survey, err := GetSurveyByShareToken(ctx, shareToken)
	if err != nil {
		return nil, err
	}

	var project models.Project
	if err := database.DB.WithContext(ctx).First(&project, survey.ProjectID).Error; err != nil {
		return nil, err
	}
	if !project.Accepting() {
		return nil, ErrCollectionClosed
	}

	questions, err := survey.Questions()
	if err != nil {
		return nil, err
	}
	return &respond.Definition{
		SurveyID:  survey.ID,
		ProjectID: survey.ProjectID,
		Title:     survey.Title,
		Questions: questions,
	}, nil
}

func (g *Gateway) CreateParticipant(ctx context.Context, p respond.NewParticipant) (string, error) {
	participant := &models.Participant{
		ID:              uuid.NewString(),
		ProjectID:       p.ProjectID,
		Status:          models.ParticipantPending,
		DurationSeconds: p.DurationSeconds,
		StraightLined:   p.StraightLined,
	}
	if err := database.DB.WithContext(ctx).Create(participant).Error; err != nil {
		return "", err
	}
	return participant.ID, nil
}

// InsertResponseRows writes the full row set of one completed run in a
// single transaction, so a reported error means none of this call's rows
// landed.
func (g *Gateway) InsertResponseRows(ctx context.Context, rows []respond.Row) error {
	return database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, row := range rows {
			response := models.Response{
				SurveyID:      row.SurveyID,
				ParticipantID: row.ParticipantID,
				QuestionID:    row.QuestionID,
				ValueNumeric:  row.ValueNumeric,
				ValueText:     row.ValueText,
			}
			if err := tx.Create(&response).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
