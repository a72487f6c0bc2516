package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/footbot/services"
)

type WorkspaceHandler struct {
	teamService services.TeamService
}

func NewWorkspaceHandler(ts services.TeamService) *WorkspaceHandler {
	return &WorkspaceHandler{teamService: ts}
}

func (h *WorkspaceHandler) GetWorkspace(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	ws, err := h.teamService.GetWorkspace(r.Context(), sessionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"workspace": ws}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *WorkspaceHandler) ResetWorkspace(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	ws, err := h.teamService.Reset(r.Context(), sessionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"workspace": ws}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *WorkspaceHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	var input services.UpdateConfigInput
	err := readJSON(w, r, &input)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if input.TeamCount == nil && input.TournamentType == nil && input.Extra == nil {
		badRequestResponse(w, r, errors.New("no fields provided for update"))
		return
	}

	cfg, err := h.teamService.UpdateConfig(r.Context(), sessionID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"config": cfg}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}
