package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/react-studio/engine/internal/llm"
	"github.com/react-studio/engine/internal/models"
	"github.com/react-studio/engine/internal/queue/tasks"
	"github.com/react-studio/engine/internal/workspace"
	appErr "github.com/react-studio/engine/pkg/errors"
	"github.com/react-studio/engine/pkg/logger"
)

// TaskEnqueuer is the slice of asynq.Client the generation service needs.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// GenerationService runs one prompt through the model and merges the result
// into the session workspace. The workspace is updated synchronously so the
// caller sees the new files in the response; database persistence is handed to
// the worker.
type GenerationService interface {
	Generate(ctx context.Context, sessionID string, input *GenerateInput) (*GenerateResult, error)
}

type GenerateInput struct {
	ProjectID uuid.UUID
	Prompt    string
	// Type overrides the project's type for this one prompt, e.g. asking for
	// a standalone component inside a react-app project.
	Type string
}

// GenerateResult is what a completed generation produced. Stale means the
// session moved to another project while the model was working and the result
// was discarded without touching the workspace.
type GenerateResult struct {
	Explanation string                  `json:"explanation"`
	Files       []workspace.File        `json:"files"`
	Applied     []string                `json:"applied"`
	Skipped     []workspace.Skip        `json:"skipped,omitempty"`
	ActivePath  string                  `json:"active_path,omitempty"`
	Stale       bool                    `json:"stale,omitempty"`
	Messages    []workspace.ChatMessage `json:"messages"`
}

type generationService struct {
	projects  ProjectService
	client    llm.Client
	workspace *workspace.Manager
	enqueuer  TaskEnqueuer
}

func NewGenerationService(projects ProjectService, client llm.Client, ws *workspace.Manager, enqueuer TaskEnqueuer) GenerationService {
	return &generationService{projects: projects, client: client, workspace: ws, enqueuer: enqueuer}
}

var _ GenerationService = (*generationService)(nil)

func (s *generationService) Generate(ctx context.Context, sessionID string, input *GenerateInput) (*GenerateResult, error) {
	prompt := strings.TrimSpace(input.Prompt)
	if prompt == "" {
		// Rejected before any model call; nothing is appended to the chat.
		return nil, appErr.New(appErr.CodeInvalid, "prompt must not be empty")
	}

	store := s.workspace.Get(sessionID)
	project, open := store.Project()
	if !open || project.ID != input.ProjectID {
		// Hydrate the workspace so generation works on a fresh session too.
		p, _, err := s.projects.OpenProject(ctx, sessionID, input.ProjectID)
		if err != nil {
			return nil, err
		}
		project = workspace.Project{ID: p.ID, Name: p.Name, Type: p.Type}
	}

	userMsg := store.AppendMessage(workspace.ChatMessage{
		Role:    models.RoleUser,
		Content: prompt,
	})

	// The ticket pins this request to the project open right now. If the
	// session switches projects before the model answers, the batch is dropped
	// instead of landing in the wrong workspace.
	ticket := store.Ticket()

	projectType := project.Type
	if input.Type != "" {
		projectType = input.Type
	}
	messages := llm.BuildMessages(projectType, store.Files(), prompt)

	logger.L().Info("generation started",
		zap.String("session", sessionID),
		zap.String("project_id", project.ID.String()),
		zap.String("model", s.client.ModelName()),
		zap.Int("context_files", store.FileCount()),
	)

	raw, err := s.client.Complete(ctx, messages)
	if err != nil {
		store.AppendMessage(workspace.ChatMessage{
			Role:    models.RoleError,
			Content: "Generation failed: " + err.Error(),
		})
		return nil, appErr.Wrap(err, appErr.CodeUnavailable, "model completion failed")
	}

	result := llm.ParseResult(raw)

	batch := store.ApplyGenerationBatch(ticket, result.Files)
	if batch.Stale {
		logger.L().Info("generation result discarded",
			zap.String("session", sessionID),
			zap.String("project_id", input.ProjectID.String()),
		)
		return &GenerateResult{Explanation: result.Explanation, Stale: true}, nil
	}

	assistantMsg := store.AppendMessage(workspace.ChatMessage{
		Role:    models.RoleAssistant,
		Content: result.Explanation,
		Files:   batch.Applied,
	})

	s.enqueuePersist(ctx, project.ID, result.Files, batch.Applied, []workspace.ChatMessage{userMsg, assistantMsg})

	out := &GenerateResult{
		Explanation: result.Explanation,
		Files:       store.Files(),
		Applied:     batch.Applied,
		Skipped:     batch.Skipped,
		Messages:    []workspace.ChatMessage{userMsg, assistantMsg},
	}
	if f, ok := store.ActiveFile(); ok {
		out.ActivePath = f.Path
	}

	logger.L().Info("generation applied",
		zap.String("session", sessionID),
		zap.String("project_id", project.ID.String()),
		zap.Int("applied", len(batch.Applied)),
		zap.Int("skipped", len(batch.Skipped)),
	)
	return out, nil
}

// enqueuePersist hands the applied batch to the worker. Persistence failure
// does not fail the generation: the workspace already has the files, and the
// saved-state snapshots tell callers what never reached the database.
func (s *generationService) enqueuePersist(ctx context.Context, projectID uuid.UUID, entries []workspace.BatchEntry, applied []string, msgs []workspace.ChatMessage) {
	if s.enqueuer == nil {
		return
	}

	appliedSet := make(map[string]struct{}, len(applied))
	for _, p := range applied {
		appliedSet[p] = struct{}{}
	}

	payload := tasks.PersistPayload{ProjectID: projectID.String()}
	for _, e := range entries {
		path := workspace.NormalizePath(e.Path)
		if _, ok := appliedSet[path]; !ok || e.Content == nil {
			continue
		}
		lang := e.Language
		if lang == "" {
			lang = workspace.LanguageForPath(path)
		}
		payload.Files = append(payload.Files, tasks.PersistFile{Path: path, Content: *e.Content, Language: lang})
	}
	for _, m := range msgs {
		payload.Messages = append(payload.Messages, tasks.PersistMessage{
			ID:        m.ID.String(),
			Role:      m.Role,
			Content:   m.Content,
			Files:     m.Files,
			CreatedAt: m.CreatedAt,
		})
	}

	task, err := tasks.NewPersistTask(payload)
	if err != nil {
		logger.L().Error("build persist task failed", zap.Error(err))
		return
	}
	if _, err := s.enqueuer.EnqueueContext(ctx, task, asynq.MaxRetry(5)); err != nil {
		logger.L().Warn("enqueue persist task failed",
			zap.String("project_id", projectID.String()),
			zap.Error(err),
		)
	}
}
