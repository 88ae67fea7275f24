package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PathwayStatusDraft     = "DRAFT"
	PathwayStatusActive    = "ACTIVE"
	PathwayStatusCompleted = "COMPLETED"
	PathwayStatusArchived  = "ARCHIVED"
)

func ValidPathwayStatus(status string) bool {
	switch status {
	case PathwayStatusDraft, PathwayStatusActive, PathwayStatusCompleted, PathwayStatusArchived:
		return true
	default:
		return false
	}
}

// Pathway is the persisted, user-confirmed form of a roadmap. At most one
// exists per chat; repeated saves update the same row.
type Pathway struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	ChatID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"chat_id"`

	Title    string         `gorm:"column:title" json:"title"`
	Status   string         `gorm:"column:status;not null;default:'DRAFT'" json:"status"`
	PlanSpec datatypes.JSON `gorm:"type:jsonb;column:plan_spec;not null;default:'{}'" json:"plan_spec,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Pathway) TableName() string { return "pathway" }
