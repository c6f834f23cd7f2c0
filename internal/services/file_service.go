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
	"github.com/react-studio/engine/pkg/utils"
)

// FileService bridges workspace file operations and their persistence. Writes
// are optimistic: the workspace is updated first so the editor never waits on
// the database, then the row is written and the confirmation folded back in.
type FileService interface {
	CreateFile(ctx context.Context, sessionID string, projectID uuid.UUID, path, content, language string) (*models.ProjectFile, error)
	UpdateFile(ctx context.Context, sessionID string, projectID uuid.UUID, path, content string) (*models.ProjectFile, error)
	DeleteFile(ctx context.Context, sessionID string, projectID uuid.UUID, path string) error
	ListFiles(ctx context.Context, sessionID string, projectID uuid.UUID) ([]models.ProjectFile, error)
	GetFile(ctx context.Context, sessionID string, projectID uuid.UUID, path string) (*models.ProjectFile, error)
	SetActiveFile(sessionID string, projectID uuid.UUID, path string) (*workspace.File, error)
}

type fileService struct {
	projects  repository.ProjectRepository
	files     repository.FileRepository
	workspace *workspace.Manager
}

func NewFileService(projects repository.ProjectRepository, files repository.FileRepository, ws *workspace.Manager) FileService {
	return &fileService{projects: projects, files: files, workspace: ws}
}

var _ FileService = (*fileService)(nil)

func (s *fileService) requireOwned(ctx context.Context, sessionID string, projectID uuid.UUID) (*models.Project, error) {
	var p models.Project
	if err := s.projects.GetByID(ctx, projectID, &p); err != nil {
		return nil, err
	}
	if p.SessionID != sessionID {
		return nil, appErr.New(appErr.CodeForbidden, "session does not own project")
	}
	return &p, nil
}

// openStore returns the session's workspace store only when it currently has
// this project open. A store pointed at another project must not receive
// writes meant for this one.
func (s *fileService) openStore(sessionID string, projectID uuid.UUID) (*workspace.Store, bool) {
	store, ok := s.workspace.Peek(sessionID)
	if !ok {
		return nil, false
	}
	p, open := store.Project()
	if !open || p.ID != projectID {
		return nil, false
	}
	return store, true
}

func (s *fileService) persist(ctx context.Context, projectID uuid.UUID, path, content, language string) (*models.ProjectFile, error) {
	rec := &models.ProjectFile{
		ProjectID: projectID,
		Path:      path,
		Content:   content,
		Language:  language,
		Size:      int64(len(content)),
		Checksum:  utils.ChecksumSHA256([]byte(content)),
	}
	if err := s.files.Upsert(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *fileService) CreateFile(ctx context.Context, sessionID string, projectID uuid.UUID, path, content, language string) (*models.ProjectFile, error) {
	if _, err := s.requireOwned(ctx, sessionID, projectID); err != nil {
		return nil, err
	}

	path = workspace.NormalizePath(path)
	if path == "" {
		return nil, appErr.New(appErr.CodeInvalid, "empty file path")
	}
	if language == "" {
		language = workspace.LanguageForPath(path)
	}

	store, open := s.openStore(sessionID, projectID)
	if open {
		if _, err := store.UpsertFile(path, content, language); err != nil {
			return nil, err
		}
	}

	rec, err := s.persist(ctx, projectID, path, content, language)
	if err != nil {
		// The optimistic entry stays; its Origin remains local so the caller
		// can see the write was never confirmed.
		return nil, err
	}
	if open {
		store.ConfirmPersisted(path, workspace.RemoteFile{
			Path:     rec.Path,
			Content:  rec.Content,
			Language: rec.Language,
			Size:     rec.Size,
			SavedAt:  rec.UpdatedAt,
		})
	}

	logger.L().Info("file created",
		zap.String("project_id", projectID.String()),
		zap.String("path", path),
		zap.Int64("size", rec.Size),
	)
	return rec, nil
}

func (s *fileService) UpdateFile(ctx context.Context, sessionID string, projectID uuid.UUID, path, content string) (*models.ProjectFile, error) {
	if _, err := s.requireOwned(ctx, sessionID, projectID); err != nil {
		return nil, err
	}

	path = workspace.NormalizePath(path)
	if path == "" {
		return nil, appErr.New(appErr.CodeInvalid, "empty file path")
	}

	language := ""
	store, open := s.openStore(sessionID, projectID)
	if open {
		if err := store.SetFileContent(path, content); err != nil {
			return nil, err
		}
		if f, ok := store.File(path); ok {
			language = f.Language
		}
	} else {
		existing, err := s.files.GetByPath(ctx, projectID, path)
		if err != nil {
			return nil, err
		}
		language = existing.Language
	}

	rec, err := s.persist(ctx, projectID, path, content, language)
	if err != nil {
		return nil, err
	}
	if open {
		store.ConfirmPersisted(path, workspace.RemoteFile{
			Path:     rec.Path,
			Content:  rec.Content,
			Language: rec.Language,
			Size:     rec.Size,
			SavedAt:  rec.UpdatedAt,
		})
	}
	return rec, nil
}

func (s *fileService) DeleteFile(ctx context.Context, sessionID string, projectID uuid.UUID, path string) error {
	if _, err := s.requireOwned(ctx, sessionID, projectID); err != nil {
		return err
	}

	path = workspace.NormalizePath(path)
	if path == "" {
		return appErr.New(appErr.CodeInvalid, "empty file path")
	}

	if err := s.files.DeleteByPath(ctx, projectID, path); err != nil && !appErr.IsCode(err, appErr.CodeNotFound) {
		return err
	}
	if store, open := s.openStore(sessionID, projectID); open {
		if err := store.DeleteFile(path); err != nil {
			return err
		}
	}

	logger.L().Info("file deleted", zap.String("project_id", projectID.String()), zap.String("path", path))
	return nil
}

func (s *fileService) ListFiles(ctx context.Context, sessionID string, projectID uuid.UUID) ([]models.ProjectFile, error) {
	if _, err := s.requireOwned(ctx, sessionID, projectID); err != nil {
		return nil, err
	}
	return s.files.ListByProject(ctx, projectID)
}

func (s *fileService) GetFile(ctx context.Context, sessionID string, projectID uuid.UUID, path string) (*models.ProjectFile, error) {
	if _, err := s.requireOwned(ctx, sessionID, projectID); err != nil {
		return nil, err
	}
	return s.files.GetByPath(ctx, projectID, workspace.NormalizePath(path))
}

func (s *fileService) SetActiveFile(sessionID string, projectID uuid.UUID, path string) (*workspace.File, error) {
	store, open := s.openStore(sessionID, projectID)
	if !open {
		return nil, appErr.New(appErr.CodeConflict, "project is not open in this session")
	}
	if !store.SetActiveFile(path) {
		return nil, appErr.New(appErr.CodeNotFound, "file not found").WithMeta("path", path)
	}
	f, _ := store.ActiveFile()
	return &f, nil
}
