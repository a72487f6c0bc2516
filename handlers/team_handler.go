package handlers

import (
	"net/http"

	"github.com/Dosada05/footbot/services"
)

type TeamHandler struct {
	teamService services.TeamService
}

func NewTeamHandler(ts services.TeamService) *TeamHandler {
	return &TeamHandler{teamService: ts}
}

type teamNameInput struct {
	Name string `json:"name"`
}

type confirmNamesInput struct {
	Names []string `json:"names"`
}

// GenerateTeams отправляет текущий состав на удалённый генератор.
func (h *TeamHandler) GenerateTeams(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	ws, err := h.teamService.GenerateTeams(r.Context(), sessionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"teams":           ws.Teams,
		"schedule":        ws.Schedule,
		"names_confirmed": ws.NamesConfirmed,
	}

	err = writeJSON(w, http.StatusOK, response, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) SetTeamName(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}
	index, err := getIndexFromURL(r, "index")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input teamNameInput
	err = readJSON(w, r, &input)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	teams, err := h.teamService.SetTeamName(r.Context(), sessionID, index, input.Name)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"teams": teams}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ConfirmNames принимает необязательный список имён; без тела подтверждаются текущие.
func (h *TeamHandler) ConfirmNames(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	var input confirmNamesInput
	err := readOptionalJSON(w, r, &input)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	teams, err := h.teamService.ConfirmNames(r.Context(), sessionID, input.Names)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"teams": teams, "names_confirmed": true}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}
