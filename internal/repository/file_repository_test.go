package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/react-studio/engine/internal/models"
	appErr "github.com/react-studio/engine/pkg/errors"
)

// setupTestDB starts a throwaway postgres and migrates the schema. Skipped in
// short mode because it needs a container runtime.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed repository test in short mode")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("engine_test"),
		tcpostgres.WithUsername("engine"),
		tcpostgres.WithPassword("engine"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error)
	require.NoError(t, db.AutoMigrate(&models.Project{}, &models.ProjectFile{}, &models.ChatMessage{}))
	return db
}

func createTestProject(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	p := &models.Project{SessionID: "sess-repo", Name: "repo-test-" + uuid.NewString()[:8], Type: models.ProjectTypeReactApp, Status: models.ProjectStatusActive}
	require.NoError(t, NewProjectRepository(db).Create(context.Background(), p))
	return p.ID
}

func TestFileRepositoryUpsert(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFileRepository(db)
	ctx := context.Background()
	projectID := createTestProject(t, db)

	first := &models.ProjectFile{ProjectID: projectID, Path: "src/App.js", Content: "v1", Language: "javascript", Size: 2}
	require.NoError(t, repo.Upsert(ctx, first))

	// Same path again updates in place instead of creating a second row.
	second := &models.ProjectFile{ProjectID: projectID, Path: "src/App.js", Content: "v2 longer", Language: "javascript", Size: 9}
	require.NoError(t, repo.Upsert(ctx, second))

	got, err := repo.GetByPath(ctx, projectID, "src/App.js")
	require.NoError(t, err)
	require.Equal(t, "v2 longer", got.Content)

	count, err := repo.CountByProject(ctx, projectID)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestFileRepositoryListAndDelete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFileRepository(db)
	ctx := context.Background()
	projectID := createTestProject(t, db)

	for _, path := range []string{"src/index.css", "package.json", "src/App.js"} {
		require.NoError(t, repo.Upsert(ctx, &models.ProjectFile{ProjectID: projectID, Path: path, Content: "x", Size: 1}))
	}

	files, err := repo.ListByProject(ctx, projectID)
	require.NoError(t, err)
	require.Len(t, files, 3)
	require.Equal(t, "package.json", files[0].Path)

	require.NoError(t, repo.DeleteByPath(ctx, projectID, "src/App.js"))
	err = repo.DeleteByPath(ctx, projectID, "src/App.js")
	require.True(t, appErr.IsCode(err, appErr.CodeNotFound))

	_, err = repo.GetByPath(ctx, projectID, "src/App.js")
	require.True(t, appErr.IsCode(err, appErr.CodeNotFound))

	require.NoError(t, repo.DeleteByProject(ctx, projectID))
	count, err := repo.CountByProject(ctx, projectID)
	require.NoError(t, err)
	require.EqualValues(t, 0, count)
}

func TestMessageRepositoryAppendIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMessageRepository(db)
	ctx := context.Background()
	projectID := createTestProject(t, db)

	msg := &models.ChatMessage{ID: uuid.New(), ProjectID: projectID, Role: models.RoleUser, Content: "hello", CreatedAt: time.Now()}
	require.NoError(t, repo.Append(ctx, msg))
	// Re-delivery of the same message collapses onto the existing row.
	require.NoError(t, repo.Append(ctx, msg))

	msgs, err := repo.ListByProject(ctx, projectID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, "hello", msgs[0].Content)
}
