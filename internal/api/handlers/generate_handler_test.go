package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/react-studio/engine/internal/api/middleware"
	"github.com/react-studio/engine/internal/api/types"
	"github.com/react-studio/engine/internal/services"
	appErr "github.com/react-studio/engine/pkg/errors"
	"github.com/react-studio/engine/pkg/logger"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests (required by handlers)
	_, err := logger.Init("info", "json")
	if err != nil {
		panic("failed to init logger: " + err.Error())
	}
	os.Exit(m.Run())
}

type mockGenerationService struct {
	mock.Mock
}

func (m *mockGenerationService) Generate(ctx context.Context, sessionID string, input *services.GenerateInput) (*services.GenerateResult, error) {
	args := m.Called(ctx, sessionID, input)
	if v := args.Get(0); v != nil {
		return v.(*services.GenerateResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func sessionRequest(method, target, body, sessionID string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return r.WithContext(context.WithValue(r.Context(), middleware.SessionIDKey, sessionID))
}

func TestGenerateHandler(t *testing.T) {
	projectID := uuid.New()

	t.Run("success envelope", func(t *testing.T) {
		svc := new(mockGenerationService)
		svc.On("Generate", mock.Anything, "sess-1", mock.MatchedBy(func(in *services.GenerateInput) bool {
			return in.ProjectID == projectID && in.Prompt == "make a todo app"
		})).Return(&services.GenerateResult{Explanation: "Done.", Applied: []string{"src/App.js"}}, nil)

		h := NewGenerateHandler(svc, validator.New())
		body := `{"project_id":"` + projectID.String() + `","prompt":"make a todo app"}`
		rr := httptest.NewRecorder()
		h.Generate(rr, sessionRequest(http.MethodPost, "/api/v1/ai/generate", body, "sess-1"))

		require.Equal(t, http.StatusOK, rr.Code)
		var resp types.APIResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.True(t, resp.Success)
		require.Nil(t, resp.Error)
		svc.AssertExpectations(t)
	})

	t.Run("missing prompt rejected before service", func(t *testing.T) {
		svc := new(mockGenerationService)
		h := NewGenerateHandler(svc, validator.New())
		body := `{"project_id":"` + projectID.String() + `"}`
		rr := httptest.NewRecorder()
		h.Generate(rr, sessionRequest(http.MethodPost, "/api/v1/ai/generate", body, "sess-1"))

		require.Equal(t, http.StatusBadRequest, rr.Code)
		svc.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("service error maps to status", func(t *testing.T) {
		svc := new(mockGenerationService)
		svc.On("Generate", mock.Anything, "sess-1", mock.Anything).
			Return(nil, appErr.New(appErr.CodeUnavailable, "model completion failed"))

		h := NewGenerateHandler(svc, validator.New())
		body := `{"project_id":"` + projectID.String() + `","prompt":"x"}`
		rr := httptest.NewRecorder()
		h.Generate(rr, sessionRequest(http.MethodPost, "/api/v1/ai/generate", body, "sess-1"))

		require.Equal(t, http.StatusServiceUnavailable, rr.Code)
		var resp types.APIResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.False(t, resp.Success)
		require.Equal(t, string(appErr.CodeUnavailable), resp.Error.Code)
	})

	t.Run("invalid json", func(t *testing.T) {
		h := NewGenerateHandler(new(mockGenerationService), validator.New())
		rr := httptest.NewRecorder()
		h.Generate(rr, sessionRequest(http.MethodPost, "/api/v1/ai/generate", "{not json", "sess-1"))
		require.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
