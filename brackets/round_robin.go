package brackets

import "github.com/Dosada05/footbot/models"

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() ScheduleGenerator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

// Generate pairs every team with every other team once.
func (g *RoundRobinGenerator) Generate(teams []models.Team) *models.Schedule {
	return models.FlatSchedule(FallbackSchedule(len(teams)))
}

// FallbackSchedule returns all pairs {i, j} with 0 <= i < j < n in
// lexicographic order. Knockout seeding is not attempted here: brackets
// always arrive pre-built from the remote API.
func FallbackSchedule(n int) []models.ScheduleEntry {
	if n < 2 {
		return []models.ScheduleEntry{}
	}

	matches := make([]models.ScheduleEntry, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			matches = append(matches, models.ScheduleEntry{
				TeamA: models.IndexRef(i),
				TeamB: models.IndexRef(j),
			})
		}
	}
	return matches
}
