package handlers

import (
	"net/http"

	"github.com/Dosada05/footbot/models"
	"github.com/Dosada05/footbot/services"
)

type PlayerHandler struct {
	rosterService services.RosterService
}

func NewPlayerHandler(rs services.RosterService) *PlayerHandler {
	return &PlayerHandler{rosterService: rs}
}

type reorderInput struct {
	From *int `json:"from"`
	To   *int `json:"to"`
}

func (h *PlayerHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	players, err := h.rosterService.ListPlayers(r.Context(), sessionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writePlayers(w, r, http.StatusOK, players)
}

func (h *PlayerHandler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}
	index, err := getIndexFromURL(r, "index")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.rosterService.GetPlayer(r.Context(), sessionID, index)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"player": player, "index": index}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayerHandler) AddPlayer(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	var input services.PlayerInput
	err := readJSON(w, r, &input)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	players, err := h.rosterService.AddPlayer(r.Context(), sessionID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writePlayers(w, r, http.StatusCreated, players)
}

func (h *PlayerHandler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}
	index, err := getIndexFromURL(r, "index")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.PlayerInput
	err = readJSON(w, r, &input)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	players, err := h.rosterService.UpdatePlayer(r.Context(), sessionID, index, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writePlayers(w, r, http.StatusOK, players)
}

func (h *PlayerHandler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}
	index, err := getIndexFromURL(r, "index")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	players, err := h.rosterService.DeletePlayer(r.Context(), sessionID, index)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writePlayers(w, r, http.StatusOK, players)
}

func (h *PlayerHandler) ReorderPlayers(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	var input reorderInput
	err := readJSON(w, r, &input)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.From == nil || input.To == nil {
		failedValidationResponse(w, r, "both from and to are required")
		return
	}

	players, err := h.rosterService.ReorderPlayers(r.Context(), sessionID, *input.From, *input.To)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writePlayers(w, r, http.StatusOK, players)
}

func (h *PlayerHandler) writePlayers(w http.ResponseWriter, r *http.Request, status int, players models.Roster) {
	if players == nil {
		players = models.Roster{}
	}
	err := writeJSON(w, status, jsonResponse{"players": players}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}
