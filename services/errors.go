package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation
	ErrValidationFailed      = errors.New("validation failed")
	ErrPlayerNameRequired    = errors.New("player name is required")
	ErrInvalidPosition       = errors.New("invalid player position")
	ErrInvalidLevel          = errors.New("invalid player level")
	ErrInvalidTeamCount      = errors.New("team count must be at least 2")
	ErrInvalidTournamentType = errors.New("tournament type must be 'round-robin' or 'knockout'")
	ErrInvalidAPITarget      = errors.New("api target must be 'production' or 'testing'")

	// Confirmation and workflow state
	ErrTeamNameRequired     = errors.New("team name is required")
	ErrTeamsNotGenerated    = errors.New("teams have not been generated yet")
	ErrNamesNotConfirmed    = errors.New("team names are not confirmed")
	ErrScheduleUnavailable  = errors.New("no schedule is available")
	ErrRoundRequired        = errors.New("round is required for bracket schedules")
	ErrRoundNotApplicable   = errors.New("round only applies to bracket schedules")
	ErrCoordinateMismatched = errors.New("match coordinate does not fit the schedule shape")

	// Not found
	ErrSessionNotFound = errors.New("session not found")
	ErrPlayerNotFound  = errors.New("player not found")
	ErrTeamNotFound    = errors.New("team not found")
	ErrMatchNotFound   = errors.New("match not found")

	// Remote API and integrations
	ErrGenerationFailed = errors.New("team generation failed")
	ErrExportDisabled   = errors.New("snapshot export is not configured")
	ErrExportFailed     = errors.New("snapshot export failed")

	// Sessions
	ErrInvalidSessionToken = errors.New("invalid or expired session token")
)
