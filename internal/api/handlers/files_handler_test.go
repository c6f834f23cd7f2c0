package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/react-studio/engine/internal/api/types"
	"github.com/react-studio/engine/internal/models"
	"github.com/react-studio/engine/internal/workspace"
	appErr "github.com/react-studio/engine/pkg/errors"
)

type mockFileService struct {
	mock.Mock
}

func (m *mockFileService) CreateFile(ctx context.Context, sessionID string, projectID uuid.UUID, path, content, language string) (*models.ProjectFile, error) {
	args := m.Called(ctx, sessionID, projectID, path, content, language)
	if v := args.Get(0); v != nil {
		return v.(*models.ProjectFile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFileService) UpdateFile(ctx context.Context, sessionID string, projectID uuid.UUID, path, content string) (*models.ProjectFile, error) {
	args := m.Called(ctx, sessionID, projectID, path, content)
	if v := args.Get(0); v != nil {
		return v.(*models.ProjectFile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFileService) DeleteFile(ctx context.Context, sessionID string, projectID uuid.UUID, path string) error {
	args := m.Called(ctx, sessionID, projectID, path)
	return args.Error(0)
}

func (m *mockFileService) ListFiles(ctx context.Context, sessionID string, projectID uuid.UUID) ([]models.ProjectFile, error) {
	args := m.Called(ctx, sessionID, projectID)
	if v := args.Get(0); v != nil {
		return v.([]models.ProjectFile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFileService) GetFile(ctx context.Context, sessionID string, projectID uuid.UUID, path string) (*models.ProjectFile, error) {
	args := m.Called(ctx, sessionID, projectID, path)
	if v := args.Get(0); v != nil {
		return v.(*models.ProjectFile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFileService) SetActiveFile(sessionID string, projectID uuid.UUID, path string) (*workspace.File, error) {
	args := m.Called(sessionID, projectID, path)
	if v := args.Get(0); v != nil {
		return v.(*workspace.File), args.Error(1)
	}
	return nil, args.Error(1)
}

// routeRequest runs the request through a chi route so URL params resolve.
func routeRequest(t *testing.T, method, pattern string, handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.MethodFunc(method, pattern, handler)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestFilesHandlerCreate(t *testing.T) {
	projectID := uuid.New()
	svc := new(mockFileService)
	svc.On("CreateFile", mock.Anything, "sess-1", projectID, "src/New.js", "content", "").
		Return(&models.ProjectFile{ProjectID: projectID, Path: "src/New.js", Content: "content"}, nil)

	h := NewFilesHandler(svc, validator.New())
	req := sessionRequest(http.MethodPost, "/files/"+projectID.String(), `{"path":"src/New.js","content":"content"}`, "sess-1")
	rr := routeRequest(t, http.MethodPost, "/files/{projectID}", h.Create, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	var resp types.APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	svc.AssertExpectations(t)
}

func TestFilesHandlerSetActiveNotFound(t *testing.T) {
	projectID := uuid.New()
	svc := new(mockFileService)
	svc.On("SetActiveFile", "sess-1", projectID, "missing.js").
		Return(nil, appErr.New(appErr.CodeNotFound, "file not found"))

	h := NewFilesHandler(svc, validator.New())
	req := sessionRequest(http.MethodPost, "/files/"+projectID.String()+"/active", `{"path":"missing.js"}`, "sess-1")
	rr := routeRequest(t, http.MethodPost, "/files/{projectID}/active", h.SetActive, req)

	require.Equal(t, http.StatusNotFound, rr.Code)
	var resp types.APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.False(t, resp.Success)
	require.Equal(t, string(appErr.CodeNotFound), resp.Error.Code)
}

func TestFilesHandlerRejectsBadProjectID(t *testing.T) {
	h := NewFilesHandler(new(mockFileService), validator.New())
	req := sessionRequest(http.MethodGet, "/files/not-a-uuid", "", "sess-1")
	rr := routeRequest(t, http.MethodGet, "/files/{projectID}", h.List, req)
	require.Equal(t, http.StatusBadRequest, rr.Code)
}
