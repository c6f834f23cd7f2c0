package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/react-studio/engine/internal/models"
	appErr "github.com/react-studio/engine/pkg/errors"
)

type ProjectRepository interface {
	BaseRepository[models.Project]
	ListBySession(ctx context.Context, sessionID string) ([]models.Project, error)
	Archive(ctx context.Context, projectID uuid.UUID) error
}

type projectRepository struct {
	BaseRepository[models.Project]
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{BaseRepository: NewBaseRepository[models.Project](db), db: db}
}

func (r *projectRepository) ListBySession(ctx context.Context, sessionID string) ([]models.Project, error) {
	var out []models.Project
	if err := r.db.WithContext(ctx).
		Where("session_id = ? AND status = ?", sessionID, models.ProjectStatusActive).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list projects by session failed")
	}
	return out, nil
}

func (r *projectRepository) Archive(ctx context.Context, projectID uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ?", projectID).
		Update("status", models.ProjectStatusArchived)
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, "archive project failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, "project not found")
	}
	return nil
}
