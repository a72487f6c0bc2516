package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/Dosada05/footbot/brackets"
	"github.com/Dosada05/footbot/models"
	"github.com/Dosada05/footbot/repositories"
	"github.com/Dosada05/footbot/storage"
	"github.com/Dosada05/footbot/teamapi"
	"github.com/stretchr/testify/require"
)

const (
	testProductionURL = "https://prod.example.com"
	testTestingURL    = "http://127.0.0.1:8000"
)

type fakeAPI struct {
	mu            sync.Mutex
	generate      func(req teamapi.GenerateRequest) (*teamapi.GenerateResponse, error)
	simulate      func(call int, req teamapi.SimulateRequest) (*teamapi.SimulateResponse, error)
	generateCalls int
	simulateCalls int
	baseURLs      []string
}

func (f *fakeAPI) Generate(_ context.Context, baseURL string, req teamapi.GenerateRequest) (*teamapi.GenerateResponse, error) {
	f.mu.Lock()
	f.generateCalls++
	f.baseURLs = append(f.baseURLs, baseURL)
	fn := f.generate
	f.mu.Unlock()

	if fn == nil {
		return nil, errors.New("generate not stubbed")
	}
	return fn(req)
}

func (f *fakeAPI) Simulate(_ context.Context, baseURL string, req teamapi.SimulateRequest) (*teamapi.SimulateResponse, error) {
	f.mu.Lock()
	f.simulateCalls++
	call := f.simulateCalls
	f.baseURLs = append(f.baseURLs, baseURL)
	fn := f.simulate
	f.mu.Unlock()

	if fn == nil {
		return nil, errors.New("simulate not stubbed")
	}
	return fn(call, req)
}

func (f *fakeAPI) SimulateCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.simulateCalls
}

type publishedEvent struct {
	Room string
	Type string
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *fakePublisher) BroadcastToRoom(roomID string, message interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	msg, _ := message.(brackets.WebSocketMessage)
	p.events = append(p.events, publishedEvent{Room: roomID, Type: msg.Type})
}

func (p *fakePublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type fakeStore struct {
	objects map[string][]byte
	err     error
}

func (s *fakeStore) Put(_ context.Context, key, _ string, body io.Reader) (*storage.StoredObject, error) {
	if s.err != nil {
		return nil, s.err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return nil, err
	}
	if s.objects == nil {
		s.objects = make(map[string][]byte)
	}
	s.objects[key] = buf.Bytes()
	return &storage.StoredObject{Key: key, Location: s.PublicURL(key)}, nil
}

func (s *fakeStore) Delete(_ context.Context, key string) error {
	if s.err != nil {
		return s.err
	}
	delete(s.objects, key)
	return nil
}

func (s *fakeStore) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

// testEnv wires the services the way main does, with fakes at the edges.
type testEnv struct {
	repo       repositories.WorkspaceRepository
	api        *fakeAPI
	publisher  *fakePublisher
	sessions   SessionService
	settings   SettingsService
	roster     RosterService
	teams      TeamService
	schedule   ScheduleService
	simulation SimulationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := repositories.NewMemoryWorkspaceRepository()
	api := &fakeAPI{}
	pub := &fakePublisher{}
	settings := NewSettingsService(repositories.NewMemoryPreferenceRepository(), testProductionURL, testTestingURL, nil)

	return &testEnv{
		repo:       repo,
		api:        api,
		publisher:  pub,
		sessions:   NewSessionService(repo, "test-secret"),
		settings:   settings,
		roster:     NewRosterService(repo, pub),
		teams:      NewTeamService(repo, settings, api, pub, nil),
		schedule:   NewScheduleService(repo),
		simulation: NewSimulationService(repo, settings, api, pub, nil),
	}
}

func (e *testEnv) newSession(t *testing.T) string {
	t.Helper()
	session, err := e.sessions.CreateSession(context.Background())
	require.NoError(t, err)
	return session.SessionID
}

func (e *testEnv) addPlayers(t *testing.T, sessionID string, names ...string) {
	t.Helper()
	for _, n := range names {
		_, err := e.roster.AddPlayer(context.Background(), sessionID, PlayerInput{Name: n})
		require.NoError(t, err)
	}
}

// generatedWith stubs /generate to return teams (and optional schedule) and runs it.
func (e *testEnv) generatedWith(t *testing.T, sessionID string, teams []models.Team, schedule *models.Schedule) *models.Workspace {
	t.Helper()
	e.api.generate = func(teamapi.GenerateRequest) (*teamapi.GenerateResponse, error) {
		return &teamapi.GenerateResponse{Teams: teams, Schedule: schedule}, nil
	}
	ws, err := e.teams.GenerateTeams(context.Background(), sessionID)
	require.NoError(t, err)
	return ws
}

func (e *testEnv) confirmed(t *testing.T, sessionID string, names ...string) {
	t.Helper()
	_, err := e.teams.ConfirmNames(context.Background(), sessionID, names)
	require.NoError(t, err)
}

func sampleResult(winner string) *teamapi.SimulateResponse {
	return &teamapi.SimulateResponse{Result: &models.SimulationResult{
		PredictedWinner: winner,
		WinProbability:  models.SidePair[float64]{TeamA: 0.55, TeamB: 0.45},
		SimulatedScore:  models.SidePair[int]{TeamA: 2, TeamB: 1},
		ExpectedScore:   models.SidePair[float64]{TeamA: 1.7, TeamB: 1.2},
	}}
}

func teamsOf(names ...string) []models.Team {
	out := make([]models.Team, len(names))
	for i, n := range names {
		out[i] = models.Team{Name: n, Players: []models.Player{{Name: n + "-p1"}}}
	}
	return out
}
