package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Dosada05/footbot/models"
	"github.com/Dosada05/footbot/repositories"
)

type APISettings struct {
	Target  models.APITarget `json:"target"`
	BaseURL string           `json:"base_url"`
}

// SettingsService keeps the per-client choice between the production and the
// testing deployment of the remote API.
type SettingsService interface {
	GetAPISettings(ctx context.Context, clientID string) (*APISettings, error)
	SetAPITarget(ctx context.Context, clientID string, target models.APITarget) (*APISettings, error)
	ResetAPITarget(ctx context.Context, clientID string) (*APISettings, error)
	BaseURL(ctx context.Context, clientID string) string
}

type settingsService struct {
	prefRepo      repositories.PreferenceRepository
	productionURL string
	testingURL    string
	logger        *slog.Logger
}

func NewSettingsService(prefRepo repositories.PreferenceRepository, productionURL, testingURL string, logger *slog.Logger) SettingsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &settingsService{
		prefRepo:      prefRepo,
		productionURL: productionURL,
		testingURL:    testingURL,
		logger:        logger,
	}
}

func (s *settingsService) settingsFor(target models.APITarget) *APISettings {
	if target == models.APITargetTesting {
		return &APISettings{Target: target, BaseURL: s.testingURL}
	}
	return &APISettings{Target: models.APITargetProduction, BaseURL: s.productionURL}
}

func (s *settingsService) GetAPISettings(ctx context.Context, clientID string) (*APISettings, error) {
	pref, err := s.prefRepo.GetByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, repositories.ErrPreferenceNotFound) {
			return s.settingsFor(models.APITargetProduction), nil
		}
		return nil, fmt.Errorf("failed to load api preference for client %s: %w", clientID, err)
	}
	return s.settingsFor(pref.APITarget), nil
}

func (s *settingsService) SetAPITarget(ctx context.Context, clientID string, target models.APITarget) (*APISettings, error) {
	if !target.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAPITarget, target)
	}

	pref := &models.ClientPreference{ClientID: clientID, APITarget: target}
	if err := s.prefRepo.Upsert(ctx, pref); err != nil {
		if errors.Is(err, repositories.ErrInvalidAPITarget) {
			return nil, ErrInvalidAPITarget
		}
		return nil, fmt.Errorf("failed to save api preference for client %s: %w", clientID, err)
	}
	return s.settingsFor(target), nil
}

func (s *settingsService) ResetAPITarget(ctx context.Context, clientID string) (*APISettings, error) {
	if err := s.prefRepo.Delete(ctx, clientID); err != nil && !errors.Is(err, repositories.ErrPreferenceNotFound) {
		return nil, fmt.Errorf("failed to reset api preference for client %s: %w", clientID, err)
	}
	return s.settingsFor(models.APITargetProduction), nil
}

// BaseURL never fails: a broken preference store falls back to production.
func (s *settingsService) BaseURL(ctx context.Context, clientID string) string {
	settings, err := s.GetAPISettings(ctx, clientID)
	if err != nil {
		s.logger.WarnContext(ctx, "falling back to production api", slog.String("client_id", clientID), slog.Any("error", err))
		return s.productionURL
	}
	return settings.BaseURL
}
