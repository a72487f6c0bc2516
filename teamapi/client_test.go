package teamapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Dosada05/footbot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientGenerate(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/generate", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"teams":[{"players":[{"name":"p1"}]},{"name":"B","players":[]}],"schedule":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.Client())
	req := NewGenerateRequest(models.Roster{{Name: "p1"}}, models.DefaultGenerationConfig())

	resp, err := client.Generate(context.Background(), server.URL+"/", req)
	require.NoError(t, err)

	require.Len(t, resp.Teams, 2)
	assert.Equal(t, "p1", resp.Teams[0].Players[0].Name)
	assert.True(t, resp.Schedule.IsEmpty())
	assert.EqualValues(t, 2, gotBody["teamCount"])
	assert.Equal(t, "round-robin", gotBody["tournamentType"])
}

func TestClientSimulate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simulate", r.URL.Path)
		_, _ = w.Write([]byte(`{"predicted_winner":"A","win_probability":{"teamA":1,"teamB":0},"simulated_score":{"teamA":3,"teamB":0},"expected_score":{"teamA":2.5,"teamB":0.2}}`))
	}))
	defer server.Close()

	entry := models.ScheduleEntry{TeamA: models.IndexRef(0), TeamB: models.IndexRef(1)}
	resp, err := NewClient(nil).Simulate(context.Background(), server.URL, NewFlatSimulateRequest(entry, nil))
	require.NoError(t, err)
	require.NotNil(t, resp.Result)
	assert.Equal(t, 3, resp.Result.SimulatedScore.TeamA)
}

func TestClientStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewClient(nil).Generate(context.Background(), server.URL, GenerateRequest{})
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Equal(t, "model not loaded", statusErr.Body)
}

func TestClientMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	}))
	defer server.Close()

	_, err := NewClient(nil).Simulate(context.Background(), server.URL, SimulateRequest{})
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestClientGenerateRejectsMixedSchedule(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"teams":[{},{}],"schedule":[[{"teamA":0,"teamB":1}],{"teamA":0,"teamB":1}]}`))
	}))
	defer server.Close()

	_, err := NewClient(nil).Generate(context.Background(), server.URL, GenerateRequest{})
	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.ErrorIs(t, err, models.ErrMixedSchedule)
}

func TestClientEmptyBaseURL(t *testing.T) {
	_, err := NewClient(nil).Generate(context.Background(), "  ", GenerateRequest{})
	assert.ErrorIs(t, err, ErrEmptyBaseURL)
}

func TestClientHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(nil).Generate(ctx, server.URL, GenerateRequest{})
	assert.ErrorIs(t, err, context.Canceled)
}
