package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/react-studio/engine/internal/models"
	appErr "github.com/react-studio/engine/pkg/errors"
)

type MessageRepository interface {
	Append(ctx context.Context, msg *models.ChatMessage) error
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.ChatMessage, error)
	DeleteByProject(ctx context.Context, projectID uuid.UUID) error
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Append inserts a chat message. Messages arrive with client-assigned IDs, so
// re-delivery of a persistence task must not duplicate or fail the insert.
func (r *messageRepository) Append(ctx context.Context, msg *models.ChatMessage) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(msg).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "append chat message failed")
	}
	return nil
}

func (r *messageRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.ChatMessage, error) {
	var out []models.ChatMessage
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list chat messages failed")
	}
	return out, nil
}

func (r *messageRepository) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Delete(&models.ChatMessage{}).Error; err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "delete chat messages failed")
	}
	return nil
}
