package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GuestEmail is the reserved sentinel address for the single shared guest
// account used when a request carries no identifiable session.
const GuestEmail = "guest@pathwise.local"

type User struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email *string   `gorm:"uniqueIndex;column:email" json:"email,omitempty"`
	Name  string    `gorm:"column:name;index" json:"name,omitempty"`

	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string { return "user" }
