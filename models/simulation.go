package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidCoordinate = errors.New("invalid match coordinate")

// Coordinate addresses one match: a flat schedule index, or a round/match pair
// inside a bracket.
type Coordinate struct {
	Bracket bool
	Round   int
	Match   int
}

func FlatCoordinate(match int) Coordinate {
	return Coordinate{Match: match}
}

func BracketCoordinate(round, match int) Coordinate {
	return Coordinate{Bracket: true, Round: round, Match: match}
}

// String is the results map key: "3" for flat, "1-0" for brackets.
func (c Coordinate) String() string {
	if c.Bracket {
		return fmt.Sprintf("%d-%d", c.Round, c.Match)
	}
	return strconv.Itoa(c.Match)
}

func ParseCoordinate(s string) (Coordinate, error) {
	if round, match, ok := strings.Cut(s, "-"); ok {
		r, err := strconv.Atoi(round)
		if err != nil || r < 0 {
			return Coordinate{}, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
		}
		m, err := strconv.Atoi(match)
		if err != nil || m < 0 {
			return Coordinate{}, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
		}
		return BracketCoordinate(r, m), nil
	}
	m, err := strconv.Atoi(s)
	if err != nil || m < 0 {
		return Coordinate{}, fmt.Errorf("%w: %q", ErrInvalidCoordinate, s)
	}
	return FlatCoordinate(m), nil
}

type SimulationState string

const (
	SimulationIdle      SimulationState = "idle"
	SimulationRequested SimulationState = "requested"
	SimulationResolved  SimulationState = "resolved"
	SimulationFailed    SimulationState = "failed"
)

type SidePair[T any] struct {
	TeamA T `json:"teamA"`
	TeamB T `json:"teamB"`
}

// SimulationResult is the remote simulator's verdict for one match.
type SimulationResult struct {
	PredictedWinner string            `json:"predicted_winner"`
	WinProbability  SidePair[float64] `json:"win_probability"`
	SimulatedScore  SidePair[int]     `json:"simulated_score"`
	ExpectedScore   SidePair[float64] `json:"expected_score"`
}

// SimulationSlot is the per-coordinate state. Result and Error share the slot:
// a failed request stores Error in place of a result.
type SimulationSlot struct {
	State  SimulationState   `json:"state"`
	Result *SimulationResult `json:"result,omitempty"`
	Error  string            `json:"error,omitempty"`

	// Epoch is bumped every time the slot is hidden so that responses to
	// requests issued before the hide can be recognised as stale.
	Epoch int `json:"-"`
}

// HasOutcome reports whether a result or an error record is currently stored.
func (s *SimulationSlot) HasOutcome() bool {
	return s != nil && (s.State == SimulationResolved || s.State == SimulationFailed)
}
