package brackets

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Dosada05/footbot/models"
)

const (
	ByeLabel = "BYE"
	TBDLabel = "TBD"
)

var teamNamePattern = regexp.MustCompile(`(?i)Team\s*(\d+)`)

// Resolution is what a team reference points at. Team is nil when the
// reference has no backing team object (a bye, an unknown label, an index
// past the end of the teams slice).
type Resolution struct {
	Team  *models.Team
	Index int
	Label string
	Bye   bool
}

// Resolver maps schedule references onto the generated teams. It never
// mutates the teams and tolerates references to teams that do not exist yet.
type Resolver struct {
	teams []models.Team
}

func NewResolver(teams []models.Team) Resolver {
	return Resolver{teams: teams}
}

func (r Resolver) Resolve(ref models.TeamRef) Resolution {
	switch ref.Kind {
	case models.RefIndex:
		if team, ok := r.team(ref.Index); ok {
			return Resolution{Team: team, Index: ref.Index, Label: teamLabel(team, ref.Index)}
		}
		return Resolution{Index: -1, Label: fmt.Sprintf("Team %d", ref.Index+1)}

	case models.RefName:
		if m := teamNamePattern.FindStringSubmatch(ref.Name); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				if team, ok := r.team(n - 1); ok {
					return Resolution{Team: team, Index: n - 1, Label: teamLabel(team, n-1)}
				}
			}
		}
		return Resolution{Index: -1, Label: ref.Name}

	case models.RefInline:
		if ref.Team == nil {
			return Resolution{Index: -1, Bye: true}
		}
		team := *ref.Team
		label := strings.TrimSpace(team.Name)
		if label == "" {
			label = TBDLabel
		}
		return Resolution{Team: &team, Index: -1, Label: label}
	}

	return Resolution{Index: -1, Bye: true}
}

// DisplayName renders ref for a match line. byeLabel is used for an absent
// opponent: BYE in flat schedules, TBD in brackets.
func (r Resolver) DisplayName(ref models.TeamRef, byeLabel string) string {
	res := r.Resolve(ref)
	if res.Bye {
		return byeLabel
	}
	return res.Label
}

// Roster returns the players behind ref, or nil when no roster is available.
func (r Resolver) Roster(ref models.TeamRef) []models.Player {
	res := r.Resolve(ref)
	if res.Team == nil || len(res.Team.Players) == 0 {
		return nil
	}
	return res.Team.Players
}

func (r Resolver) team(index int) (*models.Team, bool) {
	if index < 0 || index >= len(r.teams) {
		return nil, false
	}
	team := r.teams[index]
	return &team, true
}

func teamLabel(team *models.Team, index int) string {
	if name := strings.TrimSpace(team.Name); name != "" {
		return name
	}
	return fmt.Sprintf("Team %d", index+1)
}
