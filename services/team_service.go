package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/footbot/brackets"
	"github.com/Dosada05/footbot/models"
	"github.com/Dosada05/footbot/repositories"
	"github.com/Dosada05/footbot/teamapi"
)

// UpdateConfigInput - все поля опциональны, nil означает "не менять".
type UpdateConfigInput struct {
	TeamCount      *int                   `json:"teamCount,omitempty"`
	TournamentType *models.TournamentType `json:"tournamentType,omitempty"`
	Extra          *map[string]any        `json:"extra,omitempty"`
}

type TeamService interface {
	GetWorkspace(ctx context.Context, sessionID string) (*models.Workspace, error)
	UpdateConfig(ctx context.Context, sessionID string, input UpdateConfigInput) (*models.GenerationConfig, error)
	GenerateTeams(ctx context.Context, sessionID string) (*models.Workspace, error)
	SetTeamName(ctx context.Context, sessionID string, index int, name string) ([]models.Team, error)
	ConfirmNames(ctx context.Context, sessionID string, names []string) ([]models.Team, error)
	Reset(ctx context.Context, sessionID string) (*models.Workspace, error)
}

type teamService struct {
	workspaceRepo repositories.WorkspaceRepository
	settings      SettingsService
	api           teamapi.Client
	fallback      brackets.ScheduleGenerator
	publisher     brackets.Publisher
	logger        *slog.Logger
}

func NewTeamService(
	workspaceRepo repositories.WorkspaceRepository,
	settings SettingsService,
	api teamapi.Client,
	publisher brackets.Publisher,
	logger *slog.Logger,
) TeamService {
	if logger == nil {
		logger = slog.Default()
	}
	return &teamService{
		workspaceRepo: workspaceRepo,
		settings:      settings,
		api:           api,
		fallback:      brackets.NewRoundRobinGenerator(),
		publisher:     publisher,
		logger:        logger,
	}
}

func (s *teamService) GetWorkspace(ctx context.Context, sessionID string) (*models.Workspace, error) {
	return loadWorkspace(ctx, s.workspaceRepo, sessionID)
}

func (s *teamService) UpdateConfig(ctx context.Context, sessionID string, input UpdateConfigInput) (*models.GenerationConfig, error) {
	if input.TeamCount != nil && *input.TeamCount < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidTeamCount, *input.TeamCount)
	}
	if input.TournamentType != nil && !input.TournamentType.IsValid() {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidTournamentType, *input.TournamentType)
	}

	ws, err := updateWorkspace(ctx, s.workspaceRepo, sessionID, func(ws *models.Workspace) error {
		if input.TeamCount != nil {
			ws.Config.TeamCount = *input.TeamCount
		}
		if input.TournamentType != nil {
			ws.Config.TournamentType = *input.TournamentType
		}
		if input.Extra != nil {
			ws.Config.Extra = *input.Extra
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ws.Config, nil
}

// GenerateTeams sends the roster to the remote generator and folds the answer
// into the workspace. A failed call leaves the workspace untouched and is
// reported to the caller and to the session's live channel.
func (s *teamService) GenerateTeams(ctx context.Context, sessionID string) (*models.Workspace, error) {
	current, err := loadWorkspace(ctx, s.workspaceRepo, sessionID)
	if err != nil {
		return nil, err
	}

	req := teamapi.NewGenerateRequest(current.Players, current.Config)
	baseURL := s.settings.BaseURL(ctx, sessionID)

	s.logger.InfoContext(ctx, "requesting team generation",
		slog.String("session_id", sessionID),
		slog.Int("players", len(req.Players)),
		slog.Int("team_count", req.TeamCount),
		slog.String("tournament_type", string(req.TournamentType)),
	)

	resp, err := s.api.Generate(ctx, baseURL, req)
	if err != nil {
		s.logger.ErrorContext(ctx, "team generation failed", slog.String("session_id", sessionID), slog.Any("error", err))
		brackets.Publish(s.publisher, sessionID, brackets.EventGenerationFailed, map[string]string{"error": ErrGenerationFailed.Error()})
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	ws, err := updateWorkspace(ctx, s.workspaceRepo, sessionID, func(ws *models.Workspace) error {
		applyGeneration(ws, resp, s.fallback)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "teams generated",
		slog.String("session_id", sessionID),
		slog.Int("teams", len(ws.Teams)),
		slog.String("schedule_kind", string(ws.Schedule.Kind)),
		slog.Int("matches", ws.Schedule.Len()),
	)
	brackets.Publish(s.publisher, sessionID, brackets.EventTeamsGenerated, ws)
	return ws, nil
}

// applyGeneration is the state transition for a processed /generate response.
// Name confirmation and simulation results never carry over between generations.
func applyGeneration(ws *models.Workspace, resp *teamapi.GenerateResponse, fallback brackets.ScheduleGenerator) {
	ws.Teams, ws.Schedule = brackets.Normalize(resp.Teams, resp.Schedule, fallback)
	ws.NamesConfirmed = false
	ws.Results = make(map[string]*models.SimulationSlot)
	ws.Generation++
}

func (s *teamService) SetTeamName(ctx context.Context, sessionID string, index int, name string) ([]models.Team, error) {
	ws, err := updateWorkspace(ctx, s.workspaceRepo, sessionID, func(ws *models.Workspace) error {
		if !ws.HasTeams() {
			return ErrTeamsNotGenerated
		}
		if index < 0 || index >= len(ws.Teams) {
			return ErrTeamNotFound
		}
		if ws.NamesConfirmed {
			// Confirmed names must stay non-empty.
			name = strings.TrimSpace(name)
			if name == "" {
				return ErrTeamNameRequired
			}
		}
		ws.Teams[index].Name = name
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ws.Teams, nil
}

// ConfirmNames trims every team name and marks them confirmed. When names is
// non-nil it replaces the current names first. Any blank name aborts without
// changing anything.
func (s *teamService) ConfirmNames(ctx context.Context, sessionID string, names []string) ([]models.Team, error) {
	ws, err := updateWorkspace(ctx, s.workspaceRepo, sessionID, func(ws *models.Workspace) error {
		if !ws.HasTeams() {
			return ErrTeamsNotGenerated
		}
		if names != nil && len(names) != len(ws.Teams) {
			return fmt.Errorf("%w: expected %d team names, got %d", ErrValidationFailed, len(ws.Teams), len(names))
		}

		confirmed := make([]models.Team, len(ws.Teams))
		for i, t := range ws.Teams {
			name := t.Name
			if names != nil {
				name = names[i]
			}
			name = strings.TrimSpace(name)
			if name == "" {
				return fmt.Errorf("%w: team %d has no name", ErrTeamNameRequired, i+1)
			}
			confirmed[i] = models.Team{Name: name, Players: t.Players}
		}

		ws.Teams = confirmed
		ws.NamesConfirmed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	brackets.Publish(s.publisher, sessionID, brackets.EventNamesConfirmed, ws.Teams)
	return ws.Teams, nil
}

// Reset starts a new match: roster, teams, schedule and results are cleared,
// the generation config is kept.
func (s *teamService) Reset(ctx context.Context, sessionID string) (*models.Workspace, error) {
	ws, err := updateWorkspace(ctx, s.workspaceRepo, sessionID, func(ws *models.Workspace) error {
		ws.Players = models.Roster{}
		ws.Teams = nil
		ws.Schedule = nil
		ws.NamesConfirmed = false
		ws.Results = make(map[string]*models.SimulationSlot)
		ws.Generation++
		return nil
	})
	if err != nil {
		return nil, err
	}

	brackets.Publish(s.publisher, sessionID, brackets.EventWorkspaceReset, ws)
	return ws, nil
}
