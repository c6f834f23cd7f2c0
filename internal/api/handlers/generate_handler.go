package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/react-studio/engine/internal/api/middleware"
	"github.com/react-studio/engine/internal/api/types"
	"github.com/react-studio/engine/internal/services"
)

type GenerateHandler struct {
	svc      services.GenerationService
	validate interface{ Struct(any) error }
}

func NewGenerateHandler(svc services.GenerationService, v interface{ Struct(any) error }) *GenerateHandler {
	return &GenerateHandler{svc: svc, validate: v}
}

func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req types.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeErrorStr(w, http.StatusBadRequest, err.Error())
		return
	}
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		writeErrorStr(w, http.StatusBadRequest, "invalid project id")
		return
	}

	sessionID := middleware.GetSessionID(r.Context())
	res, err := h.svc.Generate(r.Context(), sessionID, &services.GenerateInput{
		ProjectID: projectID,
		Prompt:    req.Prompt,
		Type:      req.Type,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: res})
}
