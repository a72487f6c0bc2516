package teamapi

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Dosada05/footbot/models"
)

// GenerateRequest is the /generate payload. Extra configuration is flattened
// into the top-level object next to players, teamCount and tournamentType.
type GenerateRequest struct {
	Players        models.Roster
	TeamCount      int
	TournamentType models.TournamentType
	Extra          map[string]any
}

// NewGenerateRequest builds the payload from the roster and config. Player
// records are sent as they are and teamCount is not validated here.
func NewGenerateRequest(roster models.Roster, cfg models.GenerationConfig) GenerateRequest {
	players := roster
	if players == nil {
		players = models.Roster{}
	}
	return GenerateRequest{
		Players:        players,
		TeamCount:      cfg.TeamCount,
		TournamentType: cfg.TournamentType,
		Extra:          cfg.Extra,
	}
}

func (r GenerateRequest) MarshalJSON() ([]byte, error) {
	body := make(map[string]any, len(r.Extra)+3)
	for k, v := range r.Extra {
		body[k] = v
	}
	players := r.Players
	if players == nil {
		players = models.Roster{}
	}
	body["players"] = players
	body["teamCount"] = r.TeamCount
	body["tournamentType"] = r.TournamentType
	return json.Marshal(body)
}

// GenerateResponse is the raw /generate answer. Both fields may be missing.
type GenerateResponse struct {
	Teams    []models.Team    `json:"teams"`
	Schedule *models.Schedule `json:"schedule,omitempty"`
}

// SimulateRequest carries either the two references of a flat match or a
// bracket slot, always with the current teams.
type SimulateRequest struct {
	TeamA   *models.TeamRef  `json:"teamA,omitempty"`
	TeamB   *models.TeamRef  `json:"teamB,omitempty"`
	Bracket *models.Schedule `json:"bracket,omitempty"`
	Round   *int             `json:"round,omitempty"`
	Match   *int             `json:"match,omitempty"`
	Teams   []models.Team    `json:"teams"`
}

func NewFlatSimulateRequest(entry models.ScheduleEntry, teams []models.Team) SimulateRequest {
	a, b := entry.TeamA, entry.TeamB
	return SimulateRequest{TeamA: &a, TeamB: &b, Teams: nonNilTeams(teams)}
}

func NewBracketSimulateRequest(bracket *models.Schedule, round, match int, teams []models.Team) SimulateRequest {
	return SimulateRequest{Bracket: bracket, Round: &round, Match: &match, Teams: nonNilTeams(teams)}
}

func nonNilTeams(teams []models.Team) []models.Team {
	if teams == nil {
		return []models.Team{}
	}
	return teams
}

var resultKeys = []string{"predicted_winner", "win_probability", "simulated_score", "expected_score"}

// SimulateResponse holds a result record, a replacement bracket, or both.
type SimulateResponse struct {
	Result  *models.SimulationResult
	Bracket *models.Schedule
	Error   string
}

func (r *SimulateResponse) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("simulation response must be an object: %w", err)
	}

	out := SimulateResponse{}
	for _, key := range resultKeys {
		if _, ok := fields[key]; ok {
			var result models.SimulationResult
			if err := json.Unmarshal(data, &result); err != nil {
				return fmt.Errorf("decode simulation result: %w", err)
			}
			out.Result = &result
			break
		}
	}
	if raw, ok := fields["bracket"]; ok && string(raw) != "null" {
		var bracket models.Schedule
		if err := json.Unmarshal(raw, &bracket); err != nil {
			return fmt.Errorf("decode bracket: %w", err)
		}
		out.Bracket = &bracket
	}
	if raw, ok := fields["error"]; ok {
		out.Error = errorText(raw)
	}

	*r = out
	return nil
}

// errorText keeps a non-string error value (an object, a number) as its raw
// JSON so the server's message is not lost.
func errorText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	return string(raw)
}
