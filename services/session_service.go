package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/footbot/models"
	"github.com/Dosada05/footbot/repositories"
	"github.com/Dosada05/footbot/utils"
	"github.com/google/uuid"
)

type SessionToken struct {
	SessionID string    `json:"session_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type SessionService interface {
	CreateSession(ctx context.Context) (*SessionToken, error)
	// Authenticate resolves a token to its session id, recreating an empty
	// workspace when the previous one was purged.
	Authenticate(ctx context.Context, token string) (string, error)
	// PurgeIdleSessions drops workspaces nobody touched for idleFor.
	PurgeIdleSessions(ctx context.Context, idleFor time.Duration) (int, error)
}

type sessionService struct {
	workspaceRepo repositories.WorkspaceRepository
	secret        []byte
}

func NewSessionService(workspaceRepo repositories.WorkspaceRepository, secret string) SessionService {
	return &sessionService{
		workspaceRepo: workspaceRepo,
		secret:        []byte(secret),
	}
}

func (s *sessionService) CreateSession(ctx context.Context) (*SessionToken, error) {
	id := uuid.NewString()
	if err := s.workspaceRepo.Create(ctx, models.NewWorkspace(id)); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	token, expiresAt, err := utils.GenerateSessionToken(s.secret, id, time.Now())
	if err != nil {
		return nil, err
	}
	return &SessionToken{SessionID: id, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *sessionService) Authenticate(ctx context.Context, token string) (string, error) {
	id, err := utils.ParseSessionToken(s.secret, token)
	if err != nil {
		return "", ErrInvalidSessionToken
	}

	// Подпись токена может быть валидной, а рабочее пространство уже удалено.
	if _, err := loadWorkspace(ctx, s.workspaceRepo, id); err != nil {
		return "", err
	}
	return id, nil
}

func (s *sessionService) PurgeIdleSessions(ctx context.Context, idleFor time.Duration) (int, error) {
	n, err := s.workspaceRepo.PurgeIdle(ctx, idleFor)
	if err != nil {
		return 0, fmt.Errorf("failed to purge idle workspaces: %w", err)
	}
	return n, nil
}

// loadWorkspace maps repository errors onto service errors.
func loadWorkspace(ctx context.Context, repo repositories.WorkspaceRepository, id string) (*models.Workspace, error) {
	ws, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrWorkspaceNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load workspace %s: %w", id, err)
	}
	return ws, nil
}

// updateWorkspace runs fn atomically; sentinel errors returned by fn pass through.
func updateWorkspace(ctx context.Context, repo repositories.WorkspaceRepository, id string, fn func(ws *models.Workspace) error) (*models.Workspace, error) {
	ws, err := repo.Update(ctx, id, fn)
	if err != nil {
		if errors.Is(err, repositories.ErrWorkspaceNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return ws, nil
}
