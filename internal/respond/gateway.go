package respond

import (
	"context"

	"github.com/lifeinnovator/InsightFlow/internal/models"
)

// Definition is the survey definition fetched at session start. The question
// order is the respondent's traversal order and is immutable for the
// session's lifetime.
type Definition struct {
	SurveyID  uint
	ProjectID uint
	Title     string
	Questions []models.Question
}

// DefinitionSource resolves a public share token into a survey definition.
type DefinitionSource interface {
	Definition(ctx context.Context, shareToken string) (*Definition, error)
}

// NewParticipant carries the participant metadata computed at submission.
type NewParticipant struct {
	ProjectID       uint
	DurationSeconds float64
	StraightLined   bool
}

// Gateway is the persistence boundary for a completed run. CreateParticipant
// must succeed before any rows are written; the underlying store offers no
// cross-call transaction, so a retry after a partial write can duplicate a
// participant and its rows.
type Gateway interface {
	CreateParticipant(ctx context.Context, p NewParticipant) (string, error)
	InsertResponseRows(ctx context.Context, rows []Row) error
}
