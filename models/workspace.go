package models

import "time"

// Workspace is the whole application state of one browser session. Service
// operations read it, apply a transition and store the result back.
type Workspace struct {
	ID             string                     `json:"id"`
	Players        Roster                     `json:"players"`
	Config         GenerationConfig           `json:"config"`
	Teams          []Team                     `json:"teams"`
	NamesConfirmed bool                       `json:"names_confirmed"`
	Schedule       *Schedule                  `json:"schedule,omitempty"`
	Results        map[string]*SimulationSlot `json:"results"`
	Generation     int                        `json:"generation"`
	UpdatedAt      time.Time                  `json:"updated_at"`
}

func NewWorkspace(id string) *Workspace {
	return &Workspace{
		ID:        id,
		Players:   Roster{},
		Config:    DefaultGenerationConfig(),
		Results:   make(map[string]*SimulationSlot),
		UpdatedAt: time.Now(),
	}
}

// Clone returns a copy that shares no mutable slices or maps with w.
// Team player lists and schedule entries are treated as immutable once stored.
func (w *Workspace) Clone() *Workspace {
	if w == nil {
		return nil
	}
	out := *w
	out.Players = append(Roster{}, w.Players...)
	if w.Teams != nil {
		out.Teams = append([]Team{}, w.Teams...)
	}
	if w.Schedule != nil {
		s := *w.Schedule
		s.Matches = append([]ScheduleEntry(nil), w.Schedule.Matches...)
		s.Rounds = append([][]ScheduleEntry(nil), w.Schedule.Rounds...)
		out.Schedule = &s
	}
	out.Results = make(map[string]*SimulationSlot, len(w.Results))
	for k, v := range w.Results {
		slot := *v
		out.Results[k] = &slot
	}
	return &out
}

// HasTeams reports whether a generation response has been processed.
func (w *Workspace) HasTeams() bool {
	return w.Teams != nil
}
