package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var (
	ErrMixedSchedule   = errors.New("schedule mixes rounds and matches")
	ErrInvalidTeamRef  = errors.New("team reference must be a number, string, object or null")
	ErrInvalidSchedule = errors.New("schedule must be an array")
)

// RefKind discriminates the encodings a schedule entry may use to point at a team.
type RefKind int

const (
	RefBye RefKind = iota // null or absent: no opponent
	RefIndex
	RefName
	RefInline
)

func (k RefKind) String() string {
	switch k {
	case RefIndex:
		return "index"
	case RefName:
		return "name"
	case RefInline:
		return "inline"
	default:
		return "bye"
	}
}

// TeamRef is a schedule entry endpoint. It is decoded once from whatever JSON
// value the server used and encodes back to the same shape, so requests sent
// to /simulate carry the original reference value.
type TeamRef struct {
	Kind  RefKind
	Index int
	Name  string
	Team  *Team
}

func IndexRef(i int) TeamRef      { return TeamRef{Kind: RefIndex, Index: i} }
func NameRef(name string) TeamRef { return TeamRef{Kind: RefName, Name: name} }
func InlineRef(t Team) TeamRef    { return TeamRef{Kind: RefInline, Team: &t} }
func ByeRef() TeamRef             { return TeamRef{Kind: RefBye} }

func (r TeamRef) IsBye() bool { return r.Kind == RefBye }

func (r TeamRef) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case RefIndex:
		return json.Marshal(r.Index)
	case RefName:
		return json.Marshal(r.Name)
	case RefInline:
		if r.Team == nil {
			return []byte("null"), nil
		}
		return json.Marshal(r.Team)
	default:
		return []byte("null"), nil
	}
}

func (r *TeamRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = ByeRef()
		return nil
	}

	switch data[0] {
	case '"':
		var name string
		if err := json.Unmarshal(data, &name); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidTeamRef, err)
		}
		*r = NameRef(name)
		return nil
	case '{':
		var team Team
		if err := json.Unmarshal(data, &team); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidTeamRef, err)
		}
		*r = InlineRef(team)
		return nil
	}

	var num float64
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("%w: got %s", ErrInvalidTeamRef, string(data))
	}
	if num != math.Trunc(num) {
		return fmt.Errorf("%w: index %v is not an integer", ErrInvalidTeamRef, num)
	}
	if num < math.MinInt || num >= -math.MinInt {
		return fmt.Errorf("%w: index %v is out of range", ErrInvalidTeamRef, num)
	}
	*r = IndexRef(int(num))
	return nil
}

// ScheduleEntry is one match. Fields the server attaches beyond teamA, teamB
// and time (winner, score, ...) are kept in Extra and written back untouched.
type ScheduleEntry struct {
	TeamA TeamRef                    `json:"teamA"`
	TeamB TeamRef                    `json:"teamB"`
	Time  string                     `json:"time,omitempty"`
	Extra map[string]json.RawMessage `json:"-"`
}

func (e ScheduleEntry) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Extra)+3)
	for k, v := range e.Extra {
		out[k] = v
	}
	out["teamA"] = e.TeamA
	out["teamB"] = e.TeamB
	if e.Time != "" {
		out["time"] = e.Time
	}
	return json.Marshal(out)
}

func (e *ScheduleEntry) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("schedule entry must be an object: %w", err)
	}

	entry := ScheduleEntry{}
	if raw, ok := fields["teamA"]; ok {
		if err := entry.TeamA.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("teamA: %w", err)
		}
		delete(fields, "teamA")
	}
	if raw, ok := fields["teamB"]; ok {
		if err := entry.TeamB.UnmarshalJSON(raw); err != nil {
			return fmt.Errorf("teamB: %w", err)
		}
		delete(fields, "teamB")
	}
	if raw, ok := fields["time"]; ok {
		if !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			if err := json.Unmarshal(raw, &entry.Time); err != nil {
				return fmt.Errorf("time must be a string: %w", err)
			}
		}
		delete(fields, "time")
	}
	if len(fields) > 0 {
		entry.Extra = fields
	}

	*e = entry
	return nil
}

type ScheduleKind string

const (
	ScheduleFlat    ScheduleKind = "flat"
	ScheduleBracket ScheduleKind = "bracket"
)

// Schedule is either a flat list of matches or a knockout bracket made of
// rounds. The shape is decided once when the JSON is decoded: an array whose
// first element is itself an array is a bracket.
type Schedule struct {
	Kind    ScheduleKind
	Matches []ScheduleEntry
	Rounds  [][]ScheduleEntry
}

func FlatSchedule(matches []ScheduleEntry) *Schedule {
	return &Schedule{Kind: ScheduleFlat, Matches: matches}
}

func BracketSchedule(rounds [][]ScheduleEntry) *Schedule {
	return &Schedule{Kind: ScheduleBracket, Rounds: rounds}
}

func (s *Schedule) IsBracket() bool {
	return s != nil && s.Kind == ScheduleBracket
}

// Len counts matches across all rounds.
func (s *Schedule) Len() int {
	if s == nil {
		return 0
	}
	if s.Kind == ScheduleBracket {
		n := 0
		for _, round := range s.Rounds {
			n += len(round)
		}
		return n
	}
	return len(s.Matches)
}

// IsEmpty reports whether the schedule has no top-level element. A bracket
// whose rounds hold no matches yet is not empty.
func (s *Schedule) IsEmpty() bool {
	if s == nil {
		return true
	}
	if s.Kind == ScheduleBracket {
		return len(s.Rounds) == 0
	}
	return len(s.Matches) == 0
}

// Entry returns the match at c, if the coordinate fits this schedule's shape.
func (s *Schedule) Entry(c Coordinate) (ScheduleEntry, bool) {
	if s == nil || c.Bracket != s.IsBracket() {
		return ScheduleEntry{}, false
	}
	if c.Bracket {
		if c.Round < 0 || c.Round >= len(s.Rounds) {
			return ScheduleEntry{}, false
		}
		round := s.Rounds[c.Round]
		if c.Match < 0 || c.Match >= len(round) {
			return ScheduleEntry{}, false
		}
		return round[c.Match], true
	}
	if c.Match < 0 || c.Match >= len(s.Matches) {
		return ScheduleEntry{}, false
	}
	return s.Matches[c.Match], true
}

func (s Schedule) MarshalJSON() ([]byte, error) {
	if s.Kind == ScheduleBracket {
		rounds := s.Rounds
		if rounds == nil {
			rounds = [][]ScheduleEntry{}
		}
		return json.Marshal(rounds)
	}
	matches := s.Matches
	if matches == nil {
		matches = []ScheduleEntry{}
	}
	return json.Marshal(matches)
}

func (s *Schedule) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*s = Schedule{Kind: ScheduleFlat}
		return nil
	}
	if data[0] != '[' {
		return ErrInvalidSchedule
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}
	if len(items) == 0 {
		*s = Schedule{Kind: ScheduleFlat}
		return nil
	}

	bracket := isJSONArray(items[0])
	for i, item := range items {
		if isJSONArray(item) != bracket {
			return fmt.Errorf("%w (element %d)", ErrMixedSchedule, i)
		}
	}

	if !bracket {
		matches := make([]ScheduleEntry, len(items))
		for i, item := range items {
			if err := json.Unmarshal(item, &matches[i]); err != nil {
				return fmt.Errorf("match %d: %w", i, err)
			}
		}
		*s = Schedule{Kind: ScheduleFlat, Matches: matches}
		return nil
	}

	rounds := make([][]ScheduleEntry, len(items))
	for i, item := range items {
		if err := json.Unmarshal(item, &rounds[i]); err != nil {
			return fmt.Errorf("round %d: %w", i, err)
		}
		if rounds[i] == nil {
			rounds[i] = []ScheduleEntry{}
		}
	}
	*s = Schedule{Kind: ScheduleBracket, Rounds: rounds}
	return nil
}

func isJSONArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}
