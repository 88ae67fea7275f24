package types

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pathwise/pathwise-backend/internal/roadmap"
)

type Chat struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`

	Title string         `gorm:"column:title" json:"title"`
	Meta  datatypes.JSON `gorm:"type:jsonb;column:meta;not null;default:'{}'" json:"meta,omitempty"`

	StartedAt time.Time      `gorm:"not null;index" json:"started_at"`
	UpdatedAt time.Time      `gorm:"not null;index" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Chat) TableName() string { return "chat" }

// ChatMessage is immutable once appended. IDs are caller-supplied and are
// not deduplicated.
type ChatMessage struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"`
}

const (
	RoleUser = "user"
	RoleAI   = "ai"
)

type ChatEvent struct {
	Type string `json:"type"`
	TS   int64  `json:"ts"`
	Data any    `json:"data,omitempty"`
}

// ChatMeta is the chat's mutable state, stored as one JSON column. Merge
// rules differ per field: Messages and Events are append-only (Messages may
// also be replaced wholesale by a snapshot save), Roadmap is replaced
// wholesale, UI is shallow-merged. Readers tolerate any key being absent.
type ChatMeta struct {
	Messages []ChatMessage `json:"messages,omitempty"`
	// No omitempty: an empty roadmap is a valid zero-topic plan, distinct
	// from null.
	Roadmap roadmap.Roadmap `json:"roadmap"`
	UI      map[string]any  `json:"ui,omitempty"`
	Events  []ChatEvent     `json:"events,omitempty"`
}

func DecodeChatMeta(raw datatypes.JSON) ChatMeta {
	var meta ChatMeta
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &meta)
	}
	return meta
}

func EncodeChatMeta(meta ChatMeta) (datatypes.JSON, error) {
	b, err := json.Marshal(meta)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}
