package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/footbot/brackets"
	"github.com/Dosada05/footbot/models"
	"github.com/Dosada05/footbot/repositories"
	"github.com/Dosada05/footbot/teamapi"
	"golang.org/x/sync/errgroup"
)

const defaultSimulationConcurrency = 4

var errEmptySimulationResponse = errors.New("simulation response carried neither a result nor a bracket")

// SimulationOutcome reports what a simulate action did to one slot.
type SimulationOutcome struct {
	Coordinate      string                 `json:"coordinate"`
	Slot            *models.SimulationSlot `json:"slot"`
	Hidden          bool                   `json:"hidden"`
	Stale           bool                   `json:"stale"`
	BracketReplaced bool                   `json:"bracket_replaced"`
}

type SimulationService interface {
	// Toggle simulates the match at coord, or hides its stored result or
	// error without any network call.
	Toggle(ctx context.Context, sessionID string, coord models.Coordinate) (*SimulationOutcome, error)
	// SimulateAll requests every idle, non-bye match of a flat schedule or of
	// one bracket round. Per-match failures become error records.
	SimulateAll(ctx context.Context, sessionID string, round *int) ([]SimulationOutcome, error)
}

type simulationService struct {
	workspaceRepo repositories.WorkspaceRepository
	settings      SettingsService
	api           teamapi.Client
	publisher     brackets.Publisher
	logger        *slog.Logger
	concurrency   int
}

func NewSimulationService(
	workspaceRepo repositories.WorkspaceRepository,
	settings SettingsService,
	api teamapi.Client,
	publisher brackets.Publisher,
	logger *slog.Logger,
) SimulationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &simulationService{
		workspaceRepo: workspaceRepo,
		settings:      settings,
		api:           api,
		publisher:     publisher,
		logger:        logger,
		concurrency:   defaultSimulationConcurrency,
	}
}

// pendingSimulation is captured when a slot enters the requested state.
type pendingSimulation struct {
	request    teamapi.SimulateRequest
	epoch      int
	generation int
}

func (s *simulationService) Toggle(ctx context.Context, sessionID string, coord models.Coordinate) (*SimulationOutcome, error) {
	return s.simulate(ctx, sessionID, coord, true)
}

func (s *simulationService) SimulateAll(ctx context.Context, sessionID string, round *int) ([]SimulationOutcome, error) {
	ws, err := loadWorkspace(ctx, s.workspaceRepo, sessionID)
	if err != nil {
		return nil, err
	}
	if err := checkSchedulable(ws); err != nil {
		return nil, err
	}

	coords, err := pendingCoordinates(ws, round)
	if err != nil {
		return nil, err
	}

	outcomes := make([]SimulationOutcome, len(coords))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, coord := range coords {
		g.Go(func() error {
			outcome, err := s.simulate(gCtx, sessionID, coord, false)
			if err != nil {
				return fmt.Errorf("simulate match %s: %w", coord, err)
			}
			outcomes[i] = *outcome
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "bulk simulation finished", slog.String("session_id", sessionID), slog.Int("matches", len(coords)))
	return outcomes, nil
}

// pendingCoordinates lists the matches SimulateAll should request: idle
// slots with two real opponents.
func pendingCoordinates(ws *models.Workspace, round *int) ([]models.Coordinate, error) {
	schedule := ws.Schedule
	var coords []models.Coordinate

	if schedule.IsBracket() {
		if round == nil {
			return nil, ErrRoundRequired
		}
		if *round < 0 || *round >= len(schedule.Rounds) {
			return nil, fmt.Errorf("%w: round %d", ErrMatchNotFound, *round)
		}
		for m := range schedule.Rounds[*round] {
			coords = append(coords, models.BracketCoordinate(*round, m))
		}
	} else {
		if round != nil {
			return nil, ErrRoundNotApplicable
		}
		for m := range schedule.Matches {
			coords = append(coords, models.FlatCoordinate(m))
		}
	}

	out := make([]models.Coordinate, 0, len(coords))
	for _, c := range coords {
		entry, _ := schedule.Entry(c)
		if entry.TeamA.IsBye() || entry.TeamB.IsBye() {
			continue
		}
		if slot, ok := ws.Results[c.String()]; ok && slot.State != models.SimulationIdle {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// simulate runs the per-coordinate state machine in three steps: mark the
// slot requested under the workspace lock, call the remote API without it,
// then fold the answer back in unless the slot was hidden or the teams were
// regenerated meanwhile.
func (s *simulationService) simulate(ctx context.Context, sessionID string, coord models.Coordinate, allowHide bool) (*SimulationOutcome, error) {
	key := coord.String()
	var pending *pendingSimulation
	var outcome SimulationOutcome

	ws, err := updateWorkspace(ctx, s.workspaceRepo, sessionID, func(ws *models.Workspace) error {
		pending = nil
		outcome = SimulationOutcome{Coordinate: key}

		if err := checkSchedulable(ws); err != nil {
			return err
		}
		if coord.Bracket != ws.Schedule.IsBracket() {
			return ErrCoordinateMismatched
		}
		entry, ok := ws.Schedule.Entry(coord)
		if !ok {
			return fmt.Errorf("%w: %s", ErrMatchNotFound, key)
		}

		slot := ws.Results[key]
		if slot == nil {
			slot = &models.SimulationSlot{State: models.SimulationIdle}
		}

		if slot.HasOutcome() {
			if allowHide {
				// Hiding bumps the epoch so in-flight answers for the old
				// request are ignored.
				ws.Results[key] = &models.SimulationSlot{State: models.SimulationIdle, Epoch: slot.Epoch + 1}
				outcome.Hidden = true
			}
			return nil
		}

		var req teamapi.SimulateRequest
		if coord.Bracket {
			req = teamapi.NewBracketSimulateRequest(ws.Schedule, coord.Round, coord.Match, ws.Teams)
		} else {
			req = teamapi.NewFlatSimulateRequest(entry, ws.Teams)
		}
		ws.Results[key] = &models.SimulationSlot{State: models.SimulationRequested, Epoch: slot.Epoch}
		pending = &pendingSimulation{request: req, epoch: slot.Epoch, generation: ws.Generation}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if pending == nil {
		outcome.Slot = ws.Results[key]
		if outcome.Hidden {
			s.publishSlot(sessionID, outcome)
		}
		return &outcome, nil
	}
	s.publishSlot(sessionID, SimulationOutcome{Coordinate: key, Slot: ws.Results[key]})

	baseURL := s.settings.BaseURL(ctx, sessionID)
	resp, callErr := s.api.Simulate(ctx, baseURL, pending.request)
	if callErr != nil {
		s.logger.WarnContext(ctx, "simulation request failed",
			slog.String("session_id", sessionID),
			slog.String("match", key),
			slog.Any("error", callErr),
		)
	}

	ws, err = updateWorkspace(ctx, s.workspaceRepo, sessionID, func(ws *models.Workspace) error {
		outcome = SimulationOutcome{Coordinate: key}
		current := ws.Results[key]
		if ws.Generation != pending.generation || current == nil || current.Epoch != pending.epoch {
			outcome.Stale = true
			return nil
		}

		slot, bracket := foldSimulation(resp, callErr)
		slot.Epoch = pending.epoch
		ws.Results[key] = slot
		if bracket != nil && ws.Schedule.IsBracket() {
			ws.Schedule = bracket
			outcome.BracketReplaced = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	outcome.Slot = ws.Results[key]
	if outcome.Stale {
		s.logger.InfoContext(ctx, "discarding stale simulation response", slog.String("session_id", sessionID), slog.String("match", key))
		return &outcome, nil
	}

	s.publishSlot(sessionID, outcome)
	if outcome.BracketReplaced {
		brackets.Publish(s.publisher, sessionID, brackets.EventBracketUpdated, ws.Schedule)
	}
	return &outcome, nil
}

// foldSimulation turns a finished request into the slot to store and, when
// the server advanced the bracket, the replacement bracket.
func foldSimulation(resp *teamapi.SimulateResponse, callErr error) (*models.SimulationSlot, *models.Schedule) {
	if callErr != nil {
		return &models.SimulationSlot{State: models.SimulationFailed, Error: callErr.Error()}, nil
	}
	if resp == nil {
		return &models.SimulationSlot{State: models.SimulationFailed, Error: errEmptySimulationResponse.Error()}, nil
	}
	if resp.Error != "" {
		return &models.SimulationSlot{State: models.SimulationFailed, Error: resp.Error}, nil
	}

	var bracket *models.Schedule
	if resp.Bracket.IsBracket() && !resp.Bracket.IsEmpty() {
		bracket = resp.Bracket
	}
	if resp.Result == nil && bracket == nil {
		return &models.SimulationSlot{State: models.SimulationFailed, Error: errEmptySimulationResponse.Error()}, nil
	}
	return &models.SimulationSlot{State: models.SimulationResolved, Result: resp.Result}, bracket
}

func (s *simulationService) publishSlot(sessionID string, outcome SimulationOutcome) {
	brackets.Publish(s.publisher, sessionID, brackets.EventSimulationUpdated, outcome)
}
