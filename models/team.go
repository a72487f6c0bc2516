package models

// Team is one side produced by the remote generator. Identity is its index in
// the generated teams slice. Name stays empty until the user names it.
type Team struct {
	Name    string   `json:"name"`
	Players []Player `json:"players"`
}

type TournamentType string

const (
	TournamentRoundRobin TournamentType = "round-robin"
	TournamentKnockout   TournamentType = "knockout"
)

func (t TournamentType) IsValid() bool {
	return t == TournamentRoundRobin || t == TournamentKnockout
}

// GenerationConfig is supplied by the caller alongside the roster.
// Extra holds optional generator settings (formation, subs, team size) that are
// forwarded to the remote API verbatim.
type GenerationConfig struct {
	TeamCount      int            `json:"teamCount"`
	TournamentType TournamentType `json:"tournamentType"`
	Extra          map[string]any `json:"extra,omitempty"`
}

func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		TeamCount:      2,
		TournamentType: TournamentRoundRobin,
	}
}
