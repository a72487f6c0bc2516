package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/footbot/models"
	"github.com/Dosada05/footbot/repositories"
	"github.com/Dosada05/footbot/storage"
)

const snapshotContentType = "application/json"

// Snapshot is the exported view of a generated match day.
type Snapshot struct {
	SessionID      string                            `json:"session_id"`
	ExportedAt     time.Time                         `json:"exported_at"`
	Config         models.GenerationConfig           `json:"config"`
	Teams          []models.Team                     `json:"teams"`
	NamesConfirmed bool                              `json:"names_confirmed"`
	Schedule       *models.Schedule                  `json:"schedule,omitempty"`
	Results        map[string]*models.SimulationSlot `json:"results"`
}

type ExportService interface {
	Export(ctx context.Context, sessionID string) (*storage.StoredObject, error)
	DeleteExport(ctx context.Context, sessionID string) error
}

type exportService struct {
	workspaceRepo repositories.WorkspaceRepository
	store         storage.ObjectStore
	logger        *slog.Logger
	now           func() time.Time
}

// NewExportService accepts a nil store: exports then fail with ErrExportDisabled.
func NewExportService(workspaceRepo repositories.WorkspaceRepository, store storage.ObjectStore, logger *slog.Logger) ExportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &exportService{
		workspaceRepo: workspaceRepo,
		store:         store,
		logger:        logger,
		now:           time.Now,
	}
}

func snapshotKey(sessionID string) string {
	return fmt.Sprintf("exports/%s.json", sessionID)
}

func (s *exportService) Export(ctx context.Context, sessionID string) (*storage.StoredObject, error) {
	if s.store == nil {
		return nil, ErrExportDisabled
	}

	ws, err := loadWorkspace(ctx, s.workspaceRepo, sessionID)
	if err != nil {
		return nil, err
	}
	if !ws.HasTeams() {
		return nil, ErrTeamsNotGenerated
	}

	body, err := json.Marshal(Snapshot{
		SessionID:      ws.ID,
		ExportedAt:     s.now().UTC(),
		Config:         ws.Config,
		Teams:          ws.Teams,
		NamesConfirmed: ws.NamesConfirmed,
		Schedule:       ws.Schedule,
		Results:        ws.Results,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	obj, err := s.store.Put(ctx, snapshotKey(sessionID), snapshotContentType, bytes.NewReader(body))
	if err != nil {
		s.logger.ErrorContext(ctx, "snapshot upload failed", slog.String("session_id", sessionID), slog.Any("error", err))
		return nil, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}

	s.logger.InfoContext(ctx, "snapshot exported", slog.String("session_id", sessionID), slog.String("location", obj.Location))
	return obj, nil
}

func (s *exportService) DeleteExport(ctx context.Context, sessionID string) error {
	if s.store == nil {
		return ErrExportDisabled
	}
	if err := s.store.Delete(ctx, snapshotKey(sessionID)); err != nil {
		return fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	return nil
}
