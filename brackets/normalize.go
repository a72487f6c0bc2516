package brackets

import (
	"strings"

	"github.com/Dosada05/footbot/models"
)

// NormalizeTeams guarantees every team carries a trimmed name field (possibly
// empty) and leaves player lists untouched. A missing teams list becomes an
// empty one so downstream code can always range over it.
func NormalizeTeams(teams []models.Team) []models.Team {
	out := make([]models.Team, len(teams))
	for i, t := range teams {
		out[i] = models.Team{
			Name:    strings.TrimSpace(t.Name),
			Players: t.Players,
		}
	}
	return out
}

// Normalize turns a raw generation response into the teams and schedule the
// workspace stores. A present, non-empty schedule is kept verbatim whatever
// its shape; otherwise fallback builds one from the normalized teams.
func Normalize(teams []models.Team, schedule *models.Schedule, fallback ScheduleGenerator) ([]models.Team, *models.Schedule) {
	normalized := NormalizeTeams(teams)
	if !schedule.IsEmpty() {
		return normalized, schedule
	}
	if fallback == nil {
		fallback = NewRoundRobinGenerator()
	}
	return normalized, fallback.Generate(normalized)
}
