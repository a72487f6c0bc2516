package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Dosada05/footbot/brackets"
	"github.com/Dosada05/footbot/handlers"
	"github.com/Dosada05/footbot/repositories"
	"github.com/Dosada05/footbot/services"
	"github.com/Dosada05/footbot/teamapi"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTeamBuilder stands in for the remote team-builder deployment.
func fakeTeamBuilder(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/generate", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if players, _ := body["players"].([]any); len(players) < 2 {
			http.Error(w, `{"detail":"not enough players"}`, http.StatusUnprocessableEntity)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"teams":[{"players":[{"name":"p1"},{"name":"p2"}]},{"players":[{"name":"p3"},{"name":"p4"}]}],"schedule":[]}`)
	})
	mux.HandleFunc("/simulate", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"predicted_winner":"Red","win_probability":{"teamA":0.6,"teamB":0.4},"simulated_score":{"teamA":3,"teamB":1},"expected_score":{"teamA":2.1,"teamB":1.0}}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestRouter(t *testing.T, remoteURL string) http.Handler {
	t.Helper()
	hub := brackets.NewHub()
	go hub.Run()

	workspaces := repositories.NewMemoryWorkspaceRepository()
	client := teamapi.NewClient(nil)

	sessionService := services.NewSessionService(workspaces, "routes-test-secret")
	settingsService := services.NewSettingsService(repositories.NewMemoryPreferenceRepository(), remoteURL, "http://127.0.0.1:1", nil)
	teamService := services.NewTeamService(workspaces, settingsService, client, hub, nil)
	simulationService := services.NewSimulationService(workspaces, settingsService, client, hub, nil)

	router := chi.NewRouter()
	SetupRoutes(router, Handlers{
		Session:   handlers.NewSessionHandler(sessionService),
		Workspace: handlers.NewWorkspaceHandler(teamService),
		Player:    handlers.NewPlayerHandler(services.NewRosterService(workspaces, hub)),
		Team:      handlers.NewTeamHandler(teamService),
		Schedule:  handlers.NewScheduleHandler(services.NewScheduleService(workspaces), simulationService),
		Settings:  handlers.NewSettingsHandler(settingsService),
		Export:    handlers.NewExportHandler(services.NewExportService(workspaces, nil, nil)),
		WebSocket: handlers.NewWebSocketHandler(hub, nil),
	}, Options{Auth: sessionService})
	return router
}

type apiClient struct {
	t      *testing.T
	router http.Handler
	token  string
}

func (c *apiClient) do(method, path string, body any) (int, map[string]json.RawMessage) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		js, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(js)
	}
	req := httptest.NewRequest(method, path, reader)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)

	var out map[string]json.RawMessage
	if rec.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec.Code, out
}

func newSession(t *testing.T, router http.Handler) *apiClient {
	t.Helper()
	c := &apiClient{t: t, router: router}
	code, body := c.do(http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, code)

	var session services.SessionToken
	require.NoError(t, json.Unmarshal(body["session"], &session))
	require.NotEmpty(t, session.Token)
	c.token = session.Token
	return c
}

func TestMatchDayFlow(t *testing.T) {
	remote := fakeTeamBuilder(t)
	c := newSession(t, newTestRouter(t, remote.URL))

	for _, name := range []string{"p1", "p2", "p3", "p4"} {
		code, _ := c.do(http.MethodPost, "/players", map[string]any{"name": name, "position": "Midfielder"})
		require.Equal(t, http.StatusCreated, code)
	}

	code, body := c.do(http.MethodGet, "/players/0", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"name":"p1","position":"Midfielder","level":"Beginner","captain":false}`, string(body["player"]))

	code, body = c.do(http.MethodPost, "/teams/generate", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[{"teamA":0,"teamB":1}]`, string(body["schedule"]))
	assert.JSONEq(t, `false`, string(body["names_confirmed"]))

	code, _ = c.do(http.MethodGet, "/schedule", nil)
	assert.Equal(t, http.StatusConflict, code)

	code, _ = c.do(http.MethodPost, "/teams/confirm", map[string]any{"names": []string{"Red", " "}})
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, _ = c.do(http.MethodPost, "/teams/confirm", map[string]any{"names": []string{"Red", "Blue"}})
	require.Equal(t, http.StatusOK, code)

	code, body = c.do(http.MethodGet, "/schedule", nil)
	require.Equal(t, http.StatusOK, code)
	var view services.ScheduleView
	require.NoError(t, json.Unmarshal(body["schedule"], &view))
	require.Len(t, view.Matches, 1)
	assert.Equal(t, "Red vs Blue", view.Matches[0].Title)

	code, body = c.do(http.MethodPost, "/schedule/simulate", map[string]any{"match": 0})
	require.Equal(t, http.StatusOK, code)
	var outcome services.SimulationOutcome
	require.NoError(t, json.Unmarshal(body["simulation"], &outcome))
	assert.Equal(t, "resolved", string(outcome.Slot.State))
	assert.Equal(t, "Red", outcome.Slot.Result.PredictedWinner)

	code, _ = c.do(http.MethodPost, "/schedule/simulate", map[string]any{"round": 0, "match": 0})
	assert.Equal(t, http.StatusBadRequest, code, "a bracket coordinate on a flat schedule")

	code, _ = c.do(http.MethodPost, "/workspace/reset", nil)
	require.Equal(t, http.StatusOK, code)
	code, body = c.do(http.MethodGet, "/players", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(body["players"]))
}

func TestGenerateFailureIsBadGateway(t *testing.T) {
	remote := fakeTeamBuilder(t)
	c := newSession(t, newTestRouter(t, remote.URL))

	code, body := c.do(http.MethodPost, "/teams/generate", nil)
	assert.Equal(t, http.StatusBadGateway, code)
	assert.JSONEq(t, `"team generation failed"`, string(body["error"]))

	code, body = c.do(http.MethodGet, "/workspace", nil)
	require.Equal(t, http.StatusOK, code)
	var ws struct {
		Teams []any `json:"teams"`
	}
	require.NoError(t, json.Unmarshal(body["workspace"], &ws))
	assert.Nil(t, ws.Teams)
}

func TestErrorStatuses(t *testing.T) {
	remote := fakeTeamBuilder(t)
	router := newTestRouter(t, remote.URL)
	c := newSession(t, router)

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		want   int
	}{
		{"player out of range", http.MethodGet, "/players/3", nil, http.StatusNotFound},
		{"bad index", http.MethodDelete, "/players/abc", nil, http.StatusBadRequest},
		{"blank player name", http.MethodPost, "/players", map[string]any{"name": "  "}, http.StatusUnprocessableEntity},
		{"unknown field", http.MethodPost, "/players", map[string]any{"nickname": "x"}, http.StatusBadRequest},
		{"reorder without from", http.MethodPost, "/players/reorder", map[string]any{"to": 1}, http.StatusUnprocessableEntity},
		{"empty config update", http.MethodPut, "/workspace/config", map[string]any{}, http.StatusBadRequest},
		{"team count too small", http.MethodPut, "/workspace/config", map[string]any{"teamCount": 1}, http.StatusBadRequest},
		{"name before generation", http.MethodPut, "/teams/0/name", map[string]any{"name": "Red"}, http.StatusConflict},
		{"simulate all before generation", http.MethodPost, "/schedule/simulate-all", nil, http.StatusConflict},
		{"bad api target", http.MethodPut, "/settings/api", map[string]any{"target": "staging"}, http.StatusBadRequest},
		{"export disabled", http.MethodPost, "/exports", nil, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := c.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, code)
		})
	}
}

func TestSettingsEndpoints(t *testing.T) {
	remote := fakeTeamBuilder(t)
	c := newSession(t, newTestRouter(t, remote.URL))

	code, body := c.do(http.MethodGet, "/settings/api", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"target":"production","base_url":"`+remote.URL+`"}`, string(body["api"]))

	code, body = c.do(http.MethodPut, "/settings/api", map[string]any{"target": "testing"})
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"target":"testing","base_url":"http://127.0.0.1:1"}`, string(body["api"]))

	code, body = c.do(http.MethodDelete, "/settings/api", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"target":"production","base_url":"`+remote.URL+`"}`, string(body["api"]))
}

func TestAuthentication(t *testing.T) {
	router := newTestRouter(t, "http://127.0.0.1:1")

	anonymous := &apiClient{t: t, router: router}
	code, _ := anonymous.do(http.MethodGet, "/workspace", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	forged := &apiClient{t: t, router: router, token: "not-a-token"}
	code, _ = forged.do(http.MethodGet, "/players", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body := anonymous.do(http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `"ok"`, string(body["status"]))
}
