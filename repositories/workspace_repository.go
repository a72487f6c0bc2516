package repositories

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Dosada05/footbot/models"
)

var (
	ErrWorkspaceNotFound = errors.New("workspace not found")
	ErrWorkspaceExists   = errors.New("workspace already exists")
)

// WorkspaceRepository stores one Workspace per session. Every read hands out a
// copy; Update applies fn to a copy and stores it only if fn succeeds, so an
// update is atomic per session and a failed transition changes nothing.
type WorkspaceRepository interface {
	Create(ctx context.Context, ws *models.Workspace) error
	GetByID(ctx context.Context, id string) (*models.Workspace, error)
	Update(ctx context.Context, id string, fn func(ws *models.Workspace) error) (*models.Workspace, error)
	Delete(ctx context.Context, id string) error
	PurgeIdle(ctx context.Context, idleFor time.Duration) (int, error)
}

type memoryWorkspaceRepository struct {
	mu         sync.RWMutex
	workspaces map[string]*models.Workspace
	now        func() time.Time
}

func NewMemoryWorkspaceRepository() WorkspaceRepository {
	return &memoryWorkspaceRepository{
		workspaces: make(map[string]*models.Workspace),
		now:        time.Now,
	}
}

func (r *memoryWorkspaceRepository) Create(ctx context.Context, ws *models.Workspace) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.workspaces[ws.ID]; ok {
		return ErrWorkspaceExists
	}
	stored := ws.Clone()
	stored.UpdatedAt = r.now()
	r.workspaces[ws.ID] = stored
	return nil
}

func (r *memoryWorkspaceRepository) GetByID(ctx context.Context, id string) (*models.Workspace, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ws, ok := r.workspaces[id]
	if !ok {
		return nil, ErrWorkspaceNotFound
	}
	return ws.Clone(), nil
}

func (r *memoryWorkspaceRepository) Update(ctx context.Context, id string, fn func(ws *models.Workspace) error) (*models.Workspace, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.workspaces[id]
	if !ok {
		return nil, ErrWorkspaceNotFound
	}

	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	next.ID = id
	next.UpdatedAt = r.now()
	r.workspaces[id] = next
	return next.Clone(), nil
}

func (r *memoryWorkspaceRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.workspaces[id]; !ok {
		return ErrWorkspaceNotFound
	}
	delete(r.workspaces, id)
	return nil
}

// PurgeIdle drops workspaces untouched for longer than idleFor.
func (r *memoryWorkspaceRepository) PurgeIdle(ctx context.Context, idleFor time.Duration) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-idleFor)
	purged := 0
	for id, ws := range r.workspaces {
		if ws.UpdatedAt.Before(cutoff) {
			delete(r.workspaces, id)
			purged++
		}
	}
	return purged, nil
}
