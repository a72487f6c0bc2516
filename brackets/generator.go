package brackets

import "github.com/Dosada05/footbot/models"

// ScheduleGenerator builds a schedule locally when the remote generator did
// not return one.
type ScheduleGenerator interface {
	Generate(teams []models.Team) *models.Schedule

	GetName() string
}
