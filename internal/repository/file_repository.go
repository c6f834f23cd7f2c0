package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/react-studio/engine/internal/models"
	appErr "github.com/react-studio/engine/pkg/errors"
)

type FileRepository interface {
	// Upsert writes a file record keyed by (project_id, path): an existing
	// path is updated in place, never duplicated.
	Upsert(ctx context.Context, file *models.ProjectFile) error
	GetByPath(ctx context.Context, projectID uuid.UUID, path string) (*models.ProjectFile, error)
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.ProjectFile, error)
	DeleteByPath(ctx context.Context, projectID uuid.UUID, path string) error
	DeleteByProject(ctx context.Context, projectID uuid.UUID) error
	CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error)
}

type fileRepository struct {
	db *gorm.DB
}

func NewFileRepository(db *gorm.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) Upsert(ctx context.Context, file *models.ProjectFile) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "project_id"}, {Name: "path"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"content", "language", "size", "checksum", "updated_at",
		}),
	}).Create(file).Error
	if err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "upsert file failed")
	}
	return nil
}

func (r *fileRepository) GetByPath(ctx context.Context, projectID uuid.UUID, path string) (*models.ProjectFile, error) {
	var f models.ProjectFile
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND path = ?", projectID, path).
		First(&f).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, appErr.New(appErr.CodeNotFound, "file not found")
		}
		return nil, appErr.Wrap(err, appErr.CodeInternal, "get file failed")
	}
	return &f, nil
}

func (r *fileRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.ProjectFile, error) {
	var out []models.ProjectFile
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("path ASC").
		Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list files failed")
	}
	return out, nil
}

func (r *fileRepository) DeleteByPath(ctx context.Context, projectID uuid.UUID, path string) error {
	res := r.db.WithContext(ctx).
		Where("project_id = ? AND path = ?", projectID, path).
		Delete(&models.ProjectFile{})
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, "delete file failed")
	}
	if res.RowsAffected == 0 {
		return appErr.New(appErr.CodeNotFound, "file not found")
	}
	return nil
}

func (r *fileRepository) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Delete(&models.ProjectFile{}).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "delete project files failed")
	}
	return nil
}

func (r *fileRepository) CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.ProjectFile{}).
		Where("project_id = ?", projectID).
		Count(&n).Error; err != nil {
		return 0, appErr.Wrap(err, appErr.CodeInternal, "count files failed")
	}
	return n, nil
}
