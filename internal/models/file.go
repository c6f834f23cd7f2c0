package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectFile is the persisted form of a workspace file. The (project_id, path)
// pair is the logical key: writing an existing path is an update, never a
// duplicate row.
type ProjectFile struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProjectID uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:idx_files_project_path" json:"project_id" validate:"required"`
	Path      string         `gorm:"not null;uniqueIndex:idx_files_project_path" json:"path" validate:"required"`
	Content   string         `gorm:"type:text" json:"content"`
	Language  string         `gorm:"type:varchar(32)" json:"language"`
	Size      int64          `json:"size"`
	Checksum  string         `gorm:"type:varchar(64)" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
