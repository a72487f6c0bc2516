package handlers

import (
	"net/http"

	"github.com/Dosada05/footbot/models"
	"github.com/Dosada05/footbot/services"
)

// SettingsHandler хранит выбор API (production/testing) на клиента; клиент - это сессия.
type SettingsHandler struct {
	settingsService services.SettingsService
}

func NewSettingsHandler(ss services.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: ss}
}

type apiTargetInput struct {
	Target models.APITarget `json:"target"`
}

func (h *SettingsHandler) GetAPISettings(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	settings, err := h.settingsService.GetAPISettings(r.Context(), sessionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writeSettings(w, r, settings)
}

func (h *SettingsHandler) SetAPITarget(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	var input apiTargetInput
	err := readJSON(w, r, &input)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	settings, err := h.settingsService.SetAPITarget(r.Context(), sessionID, input.Target)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writeSettings(w, r, settings)
}

func (h *SettingsHandler) ResetAPITarget(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	settings, err := h.settingsService.ResetAPITarget(r.Context(), sessionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writeSettings(w, r, settings)
}

func (h *SettingsHandler) writeSettings(w http.ResponseWriter, r *http.Request, settings *services.APISettings) {
	err := writeJSON(w, http.StatusOK, jsonResponse{"api": settings}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}
