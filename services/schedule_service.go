package services

import (
	"context"

	"github.com/Dosada05/footbot/brackets"
	"github.com/Dosada05/footbot/models"
	"github.com/Dosada05/footbot/repositories"
)

// SideView is one side of a match as the UI shows it.
type SideView struct {
	Name            string          `json:"name"`
	Index           int             `json:"index"` // -1 when not backed by the teams list
	Bye             bool            `json:"bye"`
	Players         []models.Player `json:"players"`
	RosterAvailable bool            `json:"roster_available"`
}

type MatchView struct {
	Coordinate string                 `json:"coordinate"`
	Round      *int                   `json:"round,omitempty"`
	Match      int                    `json:"match"`
	Title      string                 `json:"title"`
	Time       string                 `json:"time,omitempty"`
	TeamA      SideView               `json:"teamA"`
	TeamB      SideView               `json:"teamB"`
	Simulation *models.SimulationSlot `json:"simulation"`
}

type ScheduleView struct {
	Kind    models.ScheduleKind `json:"kind"`
	Matches []MatchView         `json:"matches,omitempty"`
	Rounds  [][]MatchView       `json:"rounds,omitempty"`
}

type ScheduleService interface {
	GetSchedule(ctx context.Context, sessionID string) (*ScheduleView, error)
}

type scheduleService struct {
	workspaceRepo repositories.WorkspaceRepository
}

func NewScheduleService(workspaceRepo repositories.WorkspaceRepository) ScheduleService {
	return &scheduleService{workspaceRepo: workspaceRepo}
}

func (s *scheduleService) GetSchedule(ctx context.Context, sessionID string) (*ScheduleView, error) {
	ws, err := loadWorkspace(ctx, s.workspaceRepo, sessionID)
	if err != nil {
		return nil, err
	}
	if err := checkSchedulable(ws); err != nil {
		return nil, err
	}
	return BuildScheduleView(ws), nil
}

// checkSchedulable is shared by the view and the simulation flow: both only
// exist once teams are generated and their names confirmed.
func checkSchedulable(ws *models.Workspace) error {
	if !ws.HasTeams() {
		return ErrTeamsNotGenerated
	}
	if !ws.NamesConfirmed {
		return ErrNamesNotConfirmed
	}
	if ws.Schedule == nil {
		return ErrScheduleUnavailable
	}
	return nil
}

// BuildScheduleView resolves every match of the workspace schedule against
// its teams. It reads ws only.
func BuildScheduleView(ws *models.Workspace) *ScheduleView {
	resolver := brackets.NewResolver(ws.Teams)
	schedule := ws.Schedule
	if schedule == nil {
		return &ScheduleView{Kind: models.ScheduleFlat, Matches: []MatchView{}}
	}

	if schedule.IsBracket() {
		view := &ScheduleView{Kind: models.ScheduleBracket, Rounds: make([][]MatchView, len(schedule.Rounds))}
		for r, round := range schedule.Rounds {
			view.Rounds[r] = make([]MatchView, len(round))
			for m, entry := range round {
				view.Rounds[r][m] = buildMatchView(resolver, ws.Results, models.BracketCoordinate(r, m), entry)
			}
		}
		return view
	}

	view := &ScheduleView{Kind: models.ScheduleFlat, Matches: make([]MatchView, len(schedule.Matches))}
	for i, entry := range schedule.Matches {
		view.Matches[i] = buildMatchView(resolver, ws.Results, models.FlatCoordinate(i), entry)
	}
	return view
}

func buildMatchView(resolver brackets.Resolver, results map[string]*models.SimulationSlot, coord models.Coordinate, entry models.ScheduleEntry) MatchView {
	byeLabel := brackets.ByeLabel
	var round *int
	if coord.Bracket {
		byeLabel = brackets.TBDLabel
		r := coord.Round
		round = &r
	}

	a := buildSideView(resolver, entry.TeamA, byeLabel)
	b := buildSideView(resolver, entry.TeamB, byeLabel)

	return MatchView{
		Coordinate: coord.String(),
		Round:      round,
		Match:      coord.Match,
		Title:      a.Name + " vs " + b.Name,
		Time:       entry.Time,
		TeamA:      a,
		TeamB:      b,
		Simulation: slotOrIdle(results, coord),
	}
}

func buildSideView(resolver brackets.Resolver, ref models.TeamRef, byeLabel string) SideView {
	res := resolver.Resolve(ref)
	if res.Bye {
		return SideView{Name: byeLabel, Index: -1, Bye: true, Players: []models.Player{}}
	}
	players := resolver.Roster(ref)
	view := SideView{Name: res.Label, Index: res.Index, Players: players, RosterAvailable: players != nil}
	if view.Players == nil {
		view.Players = []models.Player{}
	}
	return view
}

func slotOrIdle(results map[string]*models.SimulationSlot, coord models.Coordinate) *models.SimulationSlot {
	if slot, ok := results[coord.String()]; ok && slot != nil {
		return slot
	}
	return &models.SimulationSlot{State: models.SimulationIdle}
}
