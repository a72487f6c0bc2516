package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Dosada05/footbot/brackets"
	"github.com/Dosada05/footbot/models"
	"github.com/Dosada05/footbot/repositories"
)

// PlayerInput is the player form. Position and level default to Forward and
// Beginner when omitted.
type PlayerInput struct {
	Name     string          `json:"name"`
	Position models.Position `json:"position"`
	Level    models.Level    `json:"level"`
	Captain  bool            `json:"captain"`
}

// Validate returns the sanitized player or a validation error. This is the
// only place the name is trimmed; the roster itself trusts its caller.
func (in PlayerInput) Validate() (models.Player, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.Player{}, ErrPlayerNameRequired
	}

	position := in.Position
	if position == "" {
		position = models.PositionForward
	}
	if !position.IsValid() {
		return models.Player{}, fmt.Errorf("%w: %q", ErrInvalidPosition, in.Position)
	}

	level := in.Level
	if level == "" {
		level = models.LevelBeginner
	}
	if !level.IsValid() {
		return models.Player{}, fmt.Errorf("%w: %q", ErrInvalidLevel, in.Level)
	}

	return models.Player{Name: name, Position: position, Level: level, Captain: in.Captain}, nil
}

type RosterService interface {
	ListPlayers(ctx context.Context, sessionID string) (models.Roster, error)
	GetPlayer(ctx context.Context, sessionID string, index int) (*models.Player, error)
	AddPlayer(ctx context.Context, sessionID string, input PlayerInput) (models.Roster, error)
	UpdatePlayer(ctx context.Context, sessionID string, index int, input PlayerInput) (models.Roster, error)
	DeletePlayer(ctx context.Context, sessionID string, index int) (models.Roster, error)
	ReorderPlayers(ctx context.Context, sessionID string, from, to int) (models.Roster, error)
}

type rosterService struct {
	workspaceRepo repositories.WorkspaceRepository
	publisher     brackets.Publisher
}

func NewRosterService(workspaceRepo repositories.WorkspaceRepository, publisher brackets.Publisher) RosterService {
	return &rosterService{
		workspaceRepo: workspaceRepo,
		publisher:     publisher,
	}
}

func (s *rosterService) ListPlayers(ctx context.Context, sessionID string) (models.Roster, error) {
	ws, err := loadWorkspace(ctx, s.workspaceRepo, sessionID)
	if err != nil {
		return nil, err
	}
	return ws.Players, nil
}

func (s *rosterService) GetPlayer(ctx context.Context, sessionID string, index int) (*models.Player, error) {
	ws, err := loadWorkspace(ctx, s.workspaceRepo, sessionID)
	if err != nil {
		return nil, err
	}
	if !ws.Players.Has(index) {
		return nil, ErrPlayerNotFound
	}
	player := ws.Players[index]
	return &player, nil
}

func (s *rosterService) AddPlayer(ctx context.Context, sessionID string, input PlayerInput) (models.Roster, error) {
	player, err := input.Validate()
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, sessionID, func(r models.Roster) (models.Roster, error) {
		return r.Add(player), nil
	})
}

func (s *rosterService) UpdatePlayer(ctx context.Context, sessionID string, index int, input PlayerInput) (models.Roster, error) {
	player, err := input.Validate()
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, sessionID, func(r models.Roster) (models.Roster, error) {
		if !r.Has(index) {
			return nil, ErrPlayerNotFound
		}
		return r.Update(index, player), nil
	})
}

func (s *rosterService) DeletePlayer(ctx context.Context, sessionID string, index int) (models.Roster, error) {
	return s.mutate(ctx, sessionID, func(r models.Roster) (models.Roster, error) {
		if !r.Has(index) {
			return nil, ErrPlayerNotFound
		}
		return r.Delete(index), nil
	})
}

func (s *rosterService) ReorderPlayers(ctx context.Context, sessionID string, from, to int) (models.Roster, error) {
	return s.mutate(ctx, sessionID, func(r models.Roster) (models.Roster, error) {
		if !r.Has(from) || !r.Has(to) {
			return nil, ErrPlayerNotFound
		}
		return r.Reorder(from, to), nil
	})
}

func (s *rosterService) mutate(ctx context.Context, sessionID string, op func(models.Roster) (models.Roster, error)) (models.Roster, error) {
	ws, err := updateWorkspace(ctx, s.workspaceRepo, sessionID, func(ws *models.Workspace) error {
		next, err := op(ws.Players)
		if err != nil {
			return err
		}
		ws.Players = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	brackets.Publish(s.publisher, sessionID, brackets.EventRosterUpdated, ws.Players)
	return ws.Players, nil
}
