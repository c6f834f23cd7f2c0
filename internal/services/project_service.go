package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/react-studio/engine/internal/models"
	"github.com/react-studio/engine/internal/repository"
	"github.com/react-studio/engine/internal/workspace"
	appErr "github.com/react-studio/engine/pkg/errors"
	"github.com/react-studio/engine/pkg/logger"
)

// ProjectService owns project CRUD and the workspace hydration that happens
// when a session opens a project.
type ProjectService interface {
	CreateProject(ctx context.Context, sessionID string, input *CreateProjectInput) (*models.Project, error)
	// OpenProject loads a project with its files, replacing the session's
	// workspace. It returns the project and the workspace file snapshot.
	OpenProject(ctx context.Context, sessionID string, projectID uuid.UUID) (*models.Project, []workspace.File, error)
	ListProjects(ctx context.Context, sessionID string) ([]models.Project, error)
	UpdateProject(ctx context.Context, sessionID string, projectID uuid.UUID, updates *UpdateProjectInput) (*models.Project, error)
	DeleteProject(ctx context.Context, sessionID string, projectID uuid.UUID) error
	ListMessages(ctx context.Context, sessionID string, projectID uuid.UUID) ([]models.ChatMessage, error)
}

type CreateProjectInput struct {
	Name        string
	Description string
	Type        string
}

type UpdateProjectInput struct {
	Name        *string
	Description *string
	Type        *string
	Status      *string
}

type projectService struct {
	projects  repository.ProjectRepository
	files     repository.FileRepository
	messages  repository.MessageRepository
	workspace *workspace.Manager
}

func NewProjectService(projects repository.ProjectRepository, files repository.FileRepository, messages repository.MessageRepository, ws *workspace.Manager) ProjectService {
	return &projectService{projects: projects, files: files, messages: messages, workspace: ws}
}

var _ ProjectService = (*projectService)(nil)

// requireOwned loads a project and checks the session owns it.
func (s *projectService) requireOwned(ctx context.Context, sessionID string, projectID uuid.UUID) (*models.Project, error) {
	var p models.Project
	if err := s.projects.GetByID(ctx, projectID, &p); err != nil {
		return nil, err
	}
	if p.SessionID != sessionID {
		return nil, appErr.New(appErr.CodeForbidden, "session does not own project")
	}
	return &p, nil
}

func (s *projectService) CreateProject(ctx context.Context, sessionID string, input *CreateProjectInput) (*models.Project, error) {
	logger.L().Info("create project", zap.String("session", sessionID), zap.String("name", input.Name))

	projectType := input.Type
	if projectType == "" {
		projectType = models.ProjectTypeReactApp
	}
	p := &models.Project{
		SessionID:   sessionID,
		Name:        input.Name,
		Description: input.Description,
		Type:        projectType,
		Status:      models.ProjectStatusActive,
	}
	if err := s.projects.Create(ctx, p); err != nil {
		return nil, err
	}
	logger.L().Info("project created", zap.String("project_id", p.ID.String()), zap.String("session", sessionID))
	return p, nil
}

func (s *projectService) OpenProject(ctx context.Context, sessionID string, projectID uuid.UUID) (*models.Project, []workspace.File, error) {
	p, err := s.requireOwned(ctx, sessionID, projectID)
	if err != nil {
		return nil, nil, err
	}

	records, err := s.files.ListByProject(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}

	files := make([]workspace.File, 0, len(records))
	for _, rec := range records {
		files = append(files, workspace.File{
			Path:      rec.Path,
			Content:   rec.Content,
			Language:  rec.Language,
			Size:      rec.Size,
			UpdatedAt: rec.UpdatedAt,
			Origin:    workspace.OriginRemote,
			Saved: &workspace.SavedState{
				Content: rec.Content,
				Size:    rec.Size,
				SavedAt: rec.UpdatedAt,
			},
		})
	}

	store := s.workspace.Get(sessionID)
	store.ReplaceProject(workspace.Project{ID: p.ID, Name: p.Name, Type: p.Type}, files)

	logger.L().Info("project opened",
		zap.String("project_id", p.ID.String()),
		zap.String("session", sessionID),
		zap.Int("files", len(files)),
	)
	return p, store.Files(), nil
}

func (s *projectService) ListProjects(ctx context.Context, sessionID string) ([]models.Project, error) {
	return s.projects.ListBySession(ctx, sessionID)
}

func (s *projectService) UpdateProject(ctx context.Context, sessionID string, projectID uuid.UUID, updates *UpdateProjectInput) (*models.Project, error) {
	p, err := s.requireOwned(ctx, sessionID, projectID)
	if err != nil {
		return nil, err
	}

	if updates.Name != nil {
		p.Name = *updates.Name
	}
	if updates.Description != nil {
		p.Description = *updates.Description
	}
	if updates.Type != nil {
		p.Type = *updates.Type
	}
	if updates.Status != nil {
		p.Status = *updates.Status
	}

	if err := s.projects.Update(ctx, p); err != nil {
		return nil, err
	}
	logger.L().Info("project updated", zap.String("project_id", projectID.String()), zap.String("session", sessionID))
	return p, nil
}

func (s *projectService) DeleteProject(ctx context.Context, sessionID string, projectID uuid.UUID) error {
	if _, err := s.requireOwned(ctx, sessionID, projectID); err != nil {
		return err
	}

	if err := s.files.DeleteByProject(ctx, projectID); err != nil {
		return err
	}
	if err := s.messages.DeleteByProject(ctx, projectID); err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, projectID); err != nil {
		return err
	}

	// If the deleted project is the one open in the workspace, evict it so no
	// consumer can keep observing its files.
	if store, ok := s.workspace.Peek(sessionID); ok {
		if p, open := store.Project(); open && p.ID == projectID {
			store.Reset()
		}
	}

	logger.L().Info("project deleted", zap.String("project_id", projectID.String()), zap.String("session", sessionID))
	return nil
}

func (s *projectService) ListMessages(ctx context.Context, sessionID string, projectID uuid.UUID) ([]models.ChatMessage, error) {
	if _, err := s.requireOwned(ctx, sessionID, projectID); err != nil {
		return nil, err
	}
	return s.messages.ListByProject(ctx, projectID)
}
