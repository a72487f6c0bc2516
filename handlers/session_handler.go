package handlers

import (
	"net/http"

	"github.com/Dosada05/footbot/services"
)

type SessionHandler struct {
	sessionService services.SessionService
}

func NewSessionHandler(ss services.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: ss}
}

// CreateSession открывает новое рабочее пространство и выдаёт токен на него.
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessionService.CreateSession(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusCreated, jsonResponse{"session": session}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func Health(w http.ResponseWriter, r *http.Request) {
	err := writeJSON(w, http.StatusOK, jsonResponse{"status": "ok"}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}
