package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/react-studio/engine/internal/api/middleware"
	"github.com/react-studio/engine/internal/api/types"
	"github.com/react-studio/engine/internal/services"
	"github.com/react-studio/engine/internal/workspace"
	appErr "github.com/react-studio/engine/pkg/errors"
)

type ProjectsHandler struct {
	svc      services.ProjectService
	validate interface{ Struct(any) error }
}

func NewProjectsHandler(svc services.ProjectService, v interface{ Struct(any) error }) *ProjectsHandler {
	return &ProjectsHandler{svc: svc, validate: v}
}

func projectID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, appErr.New(appErr.CodeInvalid, "invalid project id")
	}
	return id, nil
}

func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())
	items, err := h.svc.ListProjects(r.Context(), sessionID)
	if err != nil {
		writeError(w, err)
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("page_size"))
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	start := (page - 1) * size
	end := start + size
	if start > len(items) {
		start = len(items)
	}
	if end > len(items) {
		end = len(items)
	}
	resp := types.APIResponse{Success: true, Data: items[start:end], Meta: &types.Meta{Page: page, PageSize: size, Total: int64(len(items))}}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, err.Error())
		return
	}
	sessionID := middleware.GetSessionID(r.Context())
	p, err := h.svc.CreateProject(r.Context(), sessionID, &services.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, types.APIResponse{Success: true, Data: p})
}

// Get opens the project in the session workspace and returns it with the full
// file snapshot, which is what the client renders as tree plus editor.
func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	sessionID := middleware.GetSessionID(r.Context())
	p, files, err := h.svc.OpenProject(r.Context(), sessionID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: map[string]any{
		"project": p,
		"files":   files,
		"tree":    workspace.BuildTree(files),
	}})
}

func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req types.UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, err.Error())
		return
	}
	sessionID := middleware.GetSessionID(r.Context())
	p, err := h.svc.UpdateProject(r.Context(), sessionID, id, &services.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		Status:      req.Status,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: p})
}

func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	sessionID := middleware.GetSessionID(r.Context())
	if err := h.svc.DeleteProject(r.Context(), sessionID, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true})
}

// Messages returns the persisted conversation history for a project.
func (h *ProjectsHandler) Messages(w http.ResponseWriter, r *http.Request) {
	id, err := projectID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	sessionID := middleware.GetSessionID(r.Context())
	msgs, err := h.svc.ListMessages(r.Context(), sessionID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: msgs})
}
