package models

import "time"

// Participant review statuses, driven from the researcher console.
const (
	ParticipantPending  = "pending"
	ParticipantApproved = "approved"
	ParticipantRejected = "rejected"
)

// Participant is one respondent's completed run. Created at submission time,
// never before, so an abandoned session leaves no participant row behind.
type Participant struct {
	ID              string  `gorm:"primaryKey"`
	ProjectID       uint    `gorm:"index"`
	Project         Project `gorm:"foreignKey:ProjectID"`
	Status          string  `gorm:"default:pending"`
	DurationSeconds float64
	StraightLined   bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Response is one normalized row per question per participant. Exactly one
// of ValueNumeric/ValueText is set for an answered question, depending on
// the question type; both are null when the question went unanswered.
type Response struct {
	ID            uint        `gorm:"primaryKey"`
	SurveyID      uint        `gorm:"index"`
	Survey        Survey      `gorm:"foreignKey:SurveyID"`
	ParticipantID string      `gorm:"index"`
	Participant   Participant `gorm:"foreignKey:ParticipantID"`
	QuestionID    string
	ValueNumeric  *int
	ValueText     *string
	CreatedAt     time.Time
}
