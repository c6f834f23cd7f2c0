package tasks

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/react-studio/engine/internal/models"
	appErr "github.com/react-studio/engine/pkg/errors"
	"github.com/react-studio/engine/pkg/logger"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests (required by tasks)
	_, err := logger.Init("info", "json")
	if err != nil {
		panic("failed to init logger: " + err.Error())
	}
	os.Exit(m.Run())
}

// Mock implementations
type mockFileRepository struct {
	mock.Mock
}

func (m *mockFileRepository) Upsert(ctx context.Context, file *models.ProjectFile) error {
	args := m.Called(ctx, file)
	return args.Error(0)
}

func (m *mockFileRepository) GetByPath(ctx context.Context, projectID uuid.UUID, path string) (*models.ProjectFile, error) {
	args := m.Called(ctx, projectID, path)
	if v := args.Get(0); v != nil {
		return v.(*models.ProjectFile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFileRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.ProjectFile, error) {
	args := m.Called(ctx, projectID)
	if v := args.Get(0); v != nil {
		return v.([]models.ProjectFile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockFileRepository) DeleteByPath(ctx context.Context, projectID uuid.UUID, path string) error {
	args := m.Called(ctx, projectID, path)
	return args.Error(0)
}

func (m *mockFileRepository) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	args := m.Called(ctx, projectID)
	return args.Error(0)
}

func (m *mockFileRepository) CountByProject(ctx context.Context, projectID uuid.UUID) (int64, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(int64), args.Error(1)
}

type mockMessageRepository struct {
	mock.Mock
}

func (m *mockMessageRepository) Append(ctx context.Context, msg *models.ChatMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *mockMessageRepository) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.ChatMessage, error) {
	args := m.Called(ctx, projectID)
	if v := args.Get(0); v != nil {
		return v.([]models.ChatMessage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockMessageRepository) DeleteByProject(ctx context.Context, projectID uuid.UUID) error {
	args := m.Called(ctx, projectID)
	return args.Error(0)
}

func TestHandlePersistWritesFilesAndMessages(t *testing.T) {
	projectID := uuid.New()
	msgID := uuid.New()

	payload := PersistPayload{
		ProjectID: projectID.String(),
		Files: []PersistFile{
			{Path: "src/App.js", Content: "export default function App() {}", Language: "javascript"},
			{Path: "src/index.css", Content: "body {}", Language: "css"},
		},
		Messages: []PersistMessage{
			{ID: msgID.String(), Role: models.RoleUser, Content: "build it", CreatedAt: time.Now()},
			{ID: uuid.New().String(), Role: models.RoleAssistant, Content: "Done.", Files: []string{"src/App.js"}, CreatedAt: time.Now()},
		},
	}
	task, err := NewPersistTask(payload)
	require.NoError(t, err)
	require.Equal(t, TypeGenerationPersist, task.Type())

	fileRepo := new(mockFileRepository)
	fileRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(f *models.ProjectFile) bool {
		return f.ProjectID == projectID && f.Checksum != "" && f.Size == int64(len(f.Content))
	})).Return(nil)

	msgRepo := new(mockMessageRepository)
	msgRepo.On("Append", mock.Anything, mock.MatchedBy(func(m *models.ChatMessage) bool {
		return m.ProjectID == projectID && m.Role != ""
	})).Return(nil)

	h := NewPersistTaskHandler(fileRepo, msgRepo)
	require.NoError(t, h.HandlePersist(context.Background(), task))

	fileRepo.AssertNumberOfCalls(t, "Upsert", 2)
	msgRepo.AssertNumberOfCalls(t, "Append", 2)

	// The workspace message ID travels into the persisted row so retried
	// deliveries collapse onto the same record.
	first := msgRepo.Calls[0].Arguments.Get(1).(*models.ChatMessage)
	require.Equal(t, msgID, first.ID)
}

func TestHandlePersistRejectsBadPayload(t *testing.T) {
	h := NewPersistTaskHandler(new(mockFileRepository), new(mockMessageRepository))

	t.Run("malformed json", func(t *testing.T) {
		task := asynq.NewTask(TypeGenerationPersist, []byte("{not json"))
		require.Error(t, h.HandlePersist(context.Background(), task))
	})

	t.Run("bad project id", func(t *testing.T) {
		b, err := json.Marshal(PersistPayload{ProjectID: "not-a-uuid"})
		require.NoError(t, err)
		task := asynq.NewTask(TypeGenerationPersist, b)
		require.Error(t, h.HandlePersist(context.Background(), task))
	})
}

func TestHandlePersistReturnsUpsertErrorForRetry(t *testing.T) {
	projectID := uuid.New()
	payload := PersistPayload{
		ProjectID: projectID.String(),
		Files:     []PersistFile{{Path: "src/App.js", Content: "x"}},
	}
	task, err := NewPersistTask(payload)
	require.NoError(t, err)

	fileRepo := new(mockFileRepository)
	fileRepo.On("Upsert", mock.Anything, mock.Anything).Return(appErr.New(appErr.CodeUnavailable, "db down"))

	msgRepo := new(mockMessageRepository)

	h := NewPersistTaskHandler(fileRepo, msgRepo)
	require.Error(t, h.HandlePersist(context.Background(), task))
	msgRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}
