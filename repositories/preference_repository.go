package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Dosada05/footbot/models"
)

var (
	ErrPreferenceNotFound = errors.New("client preference not found")
	ErrInvalidAPITarget   = errors.New("invalid api_target value")
)

type PreferenceRepository interface {
	GetByClientID(ctx context.Context, clientID string) (*models.ClientPreference, error)
	Upsert(ctx context.Context, pref *models.ClientPreference) error
	Delete(ctx context.Context, clientID string) error
}

const apiTargetConstraint = "chk_client_preferences_api_target"

const preferencesSchema = `
	CREATE TABLE IF NOT EXISTS client_preferences (
		client_id  TEXT PRIMARY KEY,
		api_target TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT chk_client_preferences_api_target CHECK (api_target IN ('production', 'testing'))
	)`

type postgresPreferenceRepository struct {
	db *sql.DB
}

func NewPostgresPreferenceRepository(db *sql.DB) PreferenceRepository {
	return &postgresPreferenceRepository{db: db}
}

// EnsurePreferencesSchema creates the preferences table when it is missing.
func EnsurePreferencesSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, preferencesSchema); err != nil {
		return fmt.Errorf("failed to create client_preferences table: %w", err)
	}
	return nil
}

func (r *postgresPreferenceRepository) GetByClientID(ctx context.Context, clientID string) (*models.ClientPreference, error) {
	query := `
		SELECT client_id, api_target, updated_at
		FROM client_preferences
		WHERE client_id = $1`
	pref := &models.ClientPreference{}
	err := r.db.QueryRowContext(ctx, query, clientID).Scan(
		&pref.ClientID,
		&pref.APITarget,
		&pref.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPreferenceNotFound
		}
		return nil, err
	}
	return pref, nil
}

func (r *postgresPreferenceRepository) Upsert(ctx context.Context, pref *models.ClientPreference) error {
	query := `
		INSERT INTO client_preferences (client_id, api_target, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (client_id) DO UPDATE
		SET api_target = EXCLUDED.api_target, updated_at = EXCLUDED.updated_at
		RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, pref.ClientID, pref.APITarget).Scan(&pref.UpdatedAt)
	if err != nil {
		if isCheckViolation(err, apiTargetConstraint) {
			return ErrInvalidAPITarget
		}
		return err
	}
	return nil
}

func (r *postgresPreferenceRepository) Delete(ctx context.Context, clientID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM client_preferences WHERE client_id = $1`, clientID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPreferenceNotFound)
}

type memoryPreferenceRepository struct {
	mu    sync.RWMutex
	prefs map[string]models.ClientPreference
}

// NewMemoryPreferenceRepository is used when no DATABASE_URL is configured.
func NewMemoryPreferenceRepository() PreferenceRepository {
	return &memoryPreferenceRepository{prefs: make(map[string]models.ClientPreference)}
}

func (r *memoryPreferenceRepository) GetByClientID(ctx context.Context, clientID string) (*models.ClientPreference, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pref, ok := r.prefs[clientID]
	if !ok {
		return nil, ErrPreferenceNotFound
	}
	return &pref, nil
}

func (r *memoryPreferenceRepository) Upsert(ctx context.Context, pref *models.ClientPreference) error {
	if !pref.APITarget.IsValid() {
		return ErrInvalidAPITarget
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	pref.UpdatedAt = time.Now()
	r.prefs[pref.ClientID] = *pref
	return nil
}

func (r *memoryPreferenceRepository) Delete(ctx context.Context, clientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.prefs[clientID]; !ok {
		return ErrPreferenceNotFound
	}
	delete(r.prefs, clientID)
	return nil
}
