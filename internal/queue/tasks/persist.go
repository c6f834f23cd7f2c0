package tasks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/react-studio/engine/internal/models"
	"github.com/react-studio/engine/internal/repository"
	appErr "github.com/react-studio/engine/pkg/errors"
	"github.com/react-studio/engine/pkg/logger"
	"github.com/react-studio/engine/pkg/utils"
)

// TypeGenerationPersist writes a generation result to the database after the
// workspace has already been updated. The workspace is authoritative for the
// live session; this task only has to catch the database up.
const TypeGenerationPersist = "generation:persist"

// PersistFile is one generated file carried in the task payload.
type PersistFile struct {
	Path     string `json:"path"`
	Content  string `json:"content"`
	Language string `json:"language"`
}

// PersistMessage is one chat turn carried in the task payload.
type PersistMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Files     []string  `json:"files,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// PersistPayload is the task payload for generation persistence.
type PersistPayload struct {
	ProjectID string           `json:"project_id"`
	Files     []PersistFile    `json:"files"`
	Messages  []PersistMessage `json:"messages"`
}

// NewPersistTask builds the asynq task for a generation result.
func NewPersistTask(p PersistPayload) (*asynq.Task, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "marshal persist payload")
	}
	return asynq.NewTask(TypeGenerationPersist, b), nil
}

// PersistTaskHandler handles generation persistence tasks.
type PersistTaskHandler struct {
	fileRepo    repository.FileRepository
	messageRepo repository.MessageRepository
}

func NewPersistTaskHandler(fileRepo repository.FileRepository, messageRepo repository.MessageRepository) *PersistTaskHandler {
	return &PersistTaskHandler{fileRepo: fileRepo, messageRepo: messageRepo}
}

func (h *PersistTaskHandler) HandlePersist(ctx context.Context, t *asynq.Task) error {
	var p PersistPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		logger.L().Error("invalid persist task payload", zap.Error(err))
		return err
	}
	projectID, err := uuid.Parse(p.ProjectID)
	if err != nil {
		logger.L().Error("invalid project id in task", zap.Error(err))
		return err
	}

	logger.L().Info("handling persist task",
		zap.String("project_id", projectID.String()),
		zap.Int("files", len(p.Files)),
		zap.Int("messages", len(p.Messages)),
	)

	for _, f := range p.Files {
		rec := &models.ProjectFile{
			ProjectID: projectID,
			Path:      f.Path,
			Content:   f.Content,
			Language:  f.Language,
			Size:      int64(len(f.Content)),
			Checksum:  utils.ChecksumSHA256([]byte(f.Content)),
		}
		if err := h.fileRepo.Upsert(ctx, rec); err != nil {
			logger.L().Error("persist file failed",
				zap.String("project_id", projectID.String()),
				zap.String("path", f.Path),
				zap.Error(err),
			)
			// Returning the error lets asynq retry the whole batch; Upsert is
			// idempotent so already-written files are safe to write again.
			return err
		}
	}

	for _, m := range p.Messages {
		msg := &models.ChatMessage{
			ProjectID: projectID,
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		}
		if id, err := uuid.Parse(m.ID); err == nil {
			msg.ID = id
		}
		if len(m.Files) > 0 {
			if b, err := json.Marshal(m.Files); err == nil {
				msg.Files = datatypes.JSON(b)
			}
		}
		if err := h.messageRepo.Append(ctx, msg); err != nil {
			logger.L().Error("persist message failed",
				zap.String("project_id", projectID.String()),
				zap.Error(err),
			)
			return err
		}
	}

	return nil
}
