package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/react-studio/engine/internal/api"
	"github.com/react-studio/engine/internal/api/handlers"
	"github.com/react-studio/engine/internal/llm"
	"github.com/react-studio/engine/internal/repository"
	"github.com/react-studio/engine/internal/services"
	"github.com/react-studio/engine/internal/workspace"
	"github.com/react-studio/engine/pkg/config"
	"github.com/react-studio/engine/pkg/database"
	"github.com/react-studio/engine/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.MustLoad()

	// Initialize logger
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	log.Info("Starting React Studio Engine",
		zap.String("env", cfg.AppEnv),
		zap.String("addr", cfg.HTTPAddr),
	)

	// Connect to database
	ctx := context.Background()
	db, err := database.OpenPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Repositories
	projectRepo := repository.NewProjectRepository(db)
	fileRepo := repository.NewFileRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	// Session workspaces
	manager := workspace.NewManager(cfg.WorkspaceMaxSessions, cfg.WorkspaceTTL)

	// Queue client for generation persistence
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer asynqClient.Close()

	// LLM backend
	llmClient := llm.NewOpenAIClient(llm.Config{
		Model:   cfg.OpenAIModel,
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Timeout: cfg.GenerateTimeout,
	})

	// Services
	projectSvc := services.NewProjectService(projectRepo, fileRepo, messageRepo, manager)
	fileSvc := services.NewFileService(projectRepo, fileRepo, manager)
	generationSvc := services.NewGenerationService(projectSvc, llmClient, manager, asynqClient)

	v := validator.New()

	// Create router with dependencies
	router := api.NewRouter(api.Dependencies{
		ProjectsHandler: handlers.NewProjectsHandler(projectSvc, v),
		FilesHandler:    handlers.NewFilesHandler(fileSvc, v),
		GenerateHandler: handlers.NewGenerateHandler(generationSvc, v),
		WatchHandler:    handlers.NewWatchHandler(manager),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	} else {
		log.Info("server exited gracefully")
	}
}
