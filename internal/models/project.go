package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project types supported by the generator.
const (
	ProjectTypeReactApp  = "react-app"
	ProjectTypeComponent = "component"
	ProjectTypeFullstack = "fullstack"
)

// Project statuses.
const (
	ProjectStatusActive   = "active"
	ProjectStatusArchived = "archived"
)

// Project represents a generated application owned by a client session.
type Project struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SessionID   string         `gorm:"type:varchar(64);not null;uniqueIndex:idx_projects_session_name" json:"session_id" validate:"required"`
	Name        string         `gorm:"not null;uniqueIndex:idx_projects_session_name" json:"name" validate:"required"`
	Description string         `gorm:"type:text" json:"description"`
	Type        string         `gorm:"type:varchar(32);not null;default:'react-app'" json:"type" validate:"required,oneof=react-app component fullstack"`
	Status      string         `gorm:"type:varchar(16);not null;default:'active';index" json:"status" validate:"oneof=active archived"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
