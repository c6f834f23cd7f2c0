package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
	RoleError     = "error"
)

// ChatMessage is the persisted form of a conversation turn. Persistence is
// best-effort: the workspace keeps the authoritative session log and failures
// to write here never block the chat flow.
type ChatMessage struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProjectID uuid.UUID      `gorm:"type:uuid;not null;index" json:"project_id" validate:"required"`
	Role      string         `gorm:"type:varchar(16);not null" json:"role" validate:"required,oneof=user assistant system error"`
	Content   string         `gorm:"type:text" json:"content"`
	Files     datatypes.JSON `gorm:"type:jsonb" json:"files,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
