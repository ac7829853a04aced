package models

import (
	"time"

	"github.com/lib/pq"
)

// Project statuses. A paused project keeps its share link but the public
// respond endpoints refuse new sessions.
const (
	ProjectDraft      = "draft"
	ProjectCollecting = "collecting"
	ProjectPaused     = "paused"
)

type Project struct {
	ID          uint `gorm:"primaryKey"`
	OwnerID     uint `gorm:"index"`
	Owner       User `gorm:"foreignKey:OwnerID"`
	Name        string
	Description string
	Tags        pq.StringArray `gorm:"type:text[]"`
	Status      string         `gorm:"default:draft"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Accepting can this project accept new respondent sessions.
func (p *Project) Accepting() bool {
	return p.Status == ProjectCollecting
}
