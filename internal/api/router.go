package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"

	"github.com/react-studio/engine/internal/api/handlers"
	mw "github.com/react-studio/engine/internal/api/middleware"
)

type Dependencies struct {
	ProjectsHandler *handlers.ProjectsHandler
	FilesHandler    *handlers.FilesHandler
	GenerateHandler *handlers.GenerateHandler
	WatchHandler    *handlers.WatchHandler
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()

	// Built-in middleware
	r.Use(mw.RequestID)
	r.Use(mw.Recovery)
	r.Use(mw.Logging)
	r.Use(mw.CORS)
	r.Use(mw.RateLimit(10, 20))
	r.Use(chimid.Compress(5))

	// Health endpoints
	hh := handlers.NewHealthHandler()
	r.Get("/healthz", hh.Liveness)
	r.Get("/readyz", hh.Readiness)

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(mw.Session)

		// Projects
		api.Route("/projects", func(pr chi.Router) {
			pr.Get("/", dep.ProjectsHandler.List)
			pr.Post("/", dep.ProjectsHandler.Create)
			pr.Get("/{id}", dep.ProjectsHandler.Get)
			pr.Put("/{id}", dep.ProjectsHandler.Update)
			pr.Delete("/{id}", dep.ProjectsHandler.Delete)
			pr.Get("/{id}/messages", dep.ProjectsHandler.Messages)
			pr.Get("/{id}/watch", dep.WatchHandler.Watch)
		})

		// Files
		api.Route("/files/{projectID}", func(fr chi.Router) {
			fr.Get("/", dep.FilesHandler.List)
			fr.Post("/", dep.FilesHandler.Create)
			fr.Put("/", dep.FilesHandler.Update)
			fr.Delete("/", dep.FilesHandler.Delete)
			fr.Get("/tree", dep.FilesHandler.Tree)
			fr.Get("/content", dep.FilesHandler.Get)
			fr.Post("/active", dep.FilesHandler.SetActive)
		})

		// AI
		api.Route("/ai", func(ar chi.Router) {
			ar.Post("/generate", dep.GenerateHandler.Generate)
			ar.Get("/status", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(200)
				w.Write([]byte(`{"success":true,"data":{"status":"ready"}}`))
			})
		})
	})

	return r
}
