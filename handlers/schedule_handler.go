package handlers

import (
	"net/http"

	"github.com/Dosada05/footbot/models"
	"github.com/Dosada05/footbot/services"
)

type ScheduleHandler struct {
	scheduleService   services.ScheduleService
	simulationService services.SimulationService
}

func NewScheduleHandler(ss services.ScheduleService, sim services.SimulationService) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService:   ss,
		simulationService: sim,
	}
}

// simulateInput addresses a flat match by {match} and a bracket slot by {round, match}.
type simulateInput struct {
	Round *int `json:"round"`
	Match *int `json:"match"`
}

type simulateAllInput struct {
	Round *int `json:"round"`
}

func (h *ScheduleHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	view, err := h.scheduleService.GetSchedule(r.Context(), sessionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"schedule": view}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScheduleHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	var input simulateInput
	err := readJSON(w, r, &input)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.Match == nil {
		failedValidationResponse(w, r, "match is required")
		return
	}
	if *input.Match < 0 || (input.Round != nil && *input.Round < 0) {
		failedValidationResponse(w, r, "round and match must not be negative")
		return
	}

	coord := models.FlatCoordinate(*input.Match)
	if input.Round != nil {
		coord = models.BracketCoordinate(*input.Round, *input.Match)
	}

	outcome, err := h.simulationService.Toggle(r.Context(), sessionID, coord)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"simulation": outcome}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScheduleHandler) SimulateAll(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := sessionFromRequest(w, r)
	if !ok {
		return
	}

	var input simulateAllInput
	err := readOptionalJSON(w, r, &input)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	outcomes, err := h.simulationService.SimulateAll(r.Context(), sessionID, input.Round)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if outcomes == nil {
		outcomes = []services.SimulationOutcome{}
	}

	err = writeJSON(w, http.StatusOK, jsonResponse{"simulations": outcomes}, nil)
	if err != nil {
		serverErrorResponse(w, r, err)
	}
}
