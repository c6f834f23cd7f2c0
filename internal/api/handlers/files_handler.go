package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/react-studio/engine/internal/api/middleware"
	"github.com/react-studio/engine/internal/api/types"
	"github.com/react-studio/engine/internal/services"
	"github.com/react-studio/engine/internal/workspace"
	appErr "github.com/react-studio/engine/pkg/errors"
)

type FilesHandler struct {
	svc      services.FileService
	validate interface{ Struct(any) error }
}

func NewFilesHandler(svc services.FileService, v interface{ Struct(any) error }) *FilesHandler {
	return &FilesHandler{svc: svc, validate: v}
}

func fileProjectID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "projectID"))
	if err != nil {
		return uuid.Nil, appErr.New(appErr.CodeInvalid, "invalid project id")
	}
	return id, nil
}

func (h *FilesHandler) List(w http.ResponseWriter, r *http.Request) {
	id, err := fileProjectID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	sessionID := middleware.GetSessionID(r.Context())
	files, err := h.svc.ListFiles(r.Context(), sessionID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: files})
}

// Tree returns the directory view of the persisted file set.
func (h *FilesHandler) Tree(w http.ResponseWriter, r *http.Request) {
	id, err := fileProjectID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	sessionID := middleware.GetSessionID(r.Context())
	records, err := h.svc.ListFiles(r.Context(), sessionID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	files := make([]workspace.File, 0, len(records))
	for _, rec := range records {
		files = append(files, workspace.File{Path: rec.Path, Language: rec.Language, Size: rec.Size})
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: workspace.BuildTree(files)})
}

// Get returns one file by path; the path travels as a query parameter because
// it contains slashes.
func (h *FilesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := fileProjectID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		writeErrorStr(w, http.StatusBadRequest, "path query parameter is required")
		return
	}
	sessionID := middleware.GetSessionID(r.Context())
	f, err := h.svc.GetFile(r.Context(), sessionID, id, path)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: f})
}

func (h *FilesHandler) Create(w http.ResponseWriter, r *http.Request) {
	id, err := fileProjectID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req types.CreateFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, err.Error())
		return
	}
	sessionID := middleware.GetSessionID(r.Context())
	f, err := h.svc.CreateFile(r.Context(), sessionID, id, req.Path, req.Content, req.Language)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, types.APIResponse{Success: true, Data: f})
}

func (h *FilesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := fileProjectID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req types.UpdateFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, err.Error())
		return
	}
	sessionID := middleware.GetSessionID(r.Context())
	f, err := h.svc.UpdateFile(r.Context(), sessionID, id, req.Path, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: f})
}

func (h *FilesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := fileProjectID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req types.DeleteFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, err.Error())
		return
	}
	sessionID := middleware.GetSessionID(r.Context())
	if err := h.svc.DeleteFile(r.Context(), sessionID, id, req.Path); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true})
}

// SetActive moves the editor selection for the session's open project.
func (h *FilesHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, err := fileProjectID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	var req types.SetActiveFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, err.Error())
		return
	}
	sessionID := middleware.GetSessionID(r.Context())
	f, err := h.svc.SetActiveFile(sessionID, id, req.Path)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: f})
}
