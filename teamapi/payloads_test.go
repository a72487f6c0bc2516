package teamapi

import (
	"encoding/json"
	"testing"

	"github.com/Dosada05/footbot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRequestShape(t *testing.T) {
	roster := models.Roster{
		{Name: "Ann", Position: models.PositionGoalkeeper, Level: models.LevelAdvanced, Captain: true},
	}
	cfg := models.GenerationConfig{
		TeamCount:      3,
		TournamentType: models.TournamentKnockout,
		Extra:          map[string]any{"formation": "4-4-2", "subs": 2},
	}

	body, err := json.Marshal(NewGenerateRequest(roster, cfg))
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"players": [{"name":"Ann","position":"Goalkeeper","level":"Advanced","captain":true}],
		"teamCount": 3,
		"tournamentType": "knockout",
		"formation": "4-4-2",
		"subs": 2
	}`, string(body))
}

func TestGenerateRequestDoesNotValidate(t *testing.T) {
	body, err := json.Marshal(NewGenerateRequest(nil, models.GenerationConfig{TeamCount: 1, TournamentType: models.TournamentRoundRobin}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"players":[],"teamCount":1,"tournamentType":"round-robin"}`, string(body))
}

func TestGenerateRequestCoreFieldsWinOverExtra(t *testing.T) {
	cfg := models.GenerationConfig{TeamCount: 2, TournamentType: models.TournamentRoundRobin, Extra: map[string]any{"teamCount": 9}}
	body, err := json.Marshal(NewGenerateRequest(models.Roster{}, cfg))
	require.NoError(t, err)
	assert.JSONEq(t, `{"players":[],"teamCount":2,"tournamentType":"round-robin"}`, string(body))
}

func TestGenerateResponseMissingFields(t *testing.T) {
	var resp GenerateResponse
	require.NoError(t, json.Unmarshal([]byte(`{}`), &resp))
	assert.Nil(t, resp.Teams)
	assert.True(t, resp.Schedule.IsEmpty())
}

func TestFlatSimulateRequestCarriesOriginalRefs(t *testing.T) {
	entry := models.ScheduleEntry{TeamA: models.NameRef("Team 1"), TeamB: models.IndexRef(1)}
	body, err := json.Marshal(NewFlatSimulateRequest(entry, nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"teamA":"Team 1","teamB":1,"teams":[]}`, string(body))
}

func TestBracketSimulateRequest(t *testing.T) {
	bracket := models.BracketSchedule([][]models.ScheduleEntry{{{TeamA: models.IndexRef(0), TeamB: models.IndexRef(1)}}})
	teams := []models.Team{{Name: "Red"}, {Name: "Blue"}}

	body, err := json.Marshal(NewBracketSimulateRequest(bracket, 0, 0, teams))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"bracket": [[{"teamA":0,"teamB":1}]],
		"round": 0,
		"match": 0,
		"teams": [{"name":"Red","players":null},{"name":"Blue","players":null}]
	}`, string(body))
}

func TestSimulateResponseUnmarshal(t *testing.T) {
	t.Run("result", func(t *testing.T) {
		var resp SimulateResponse
		require.NoError(t, json.Unmarshal([]byte(`{
			"predicted_winner": "Red",
			"win_probability": {"teamA": 0.6, "teamB": 0.4},
			"simulated_score": {"teamA": 2, "teamB": 1},
			"expected_score": {"teamA": 1.8, "teamB": 1.1}
		}`), &resp))

		require.NotNil(t, resp.Result)
		assert.Equal(t, "Red", resp.Result.PredictedWinner)
		assert.InDelta(t, 0.6, resp.Result.WinProbability.TeamA, 1e-9)
		assert.Equal(t, 1, resp.Result.SimulatedScore.TeamB)
		assert.Nil(t, resp.Bracket)
	})

	t.Run("bracket only", func(t *testing.T) {
		var resp SimulateResponse
		require.NoError(t, json.Unmarshal([]byte(`{"bracket": [[{"teamA":0,"teamB":1,"winner":0}],[{"teamA":0,"teamB":null}]]}`), &resp))
		assert.Nil(t, resp.Result)
		require.NotNil(t, resp.Bracket)
		assert.True(t, resp.Bracket.IsBracket())
		assert.Contains(t, resp.Bracket.Rounds[0][0].Extra, "winner")
	})

	t.Run("error", func(t *testing.T) {
		var resp SimulateResponse
		require.NoError(t, json.Unmarshal([]byte(`{"error": "unknown team"}`), &resp))
		assert.Equal(t, "unknown team", resp.Error)
		assert.Nil(t, resp.Result)
	})

	t.Run("structured error", func(t *testing.T) {
		var resp SimulateResponse
		require.NoError(t, json.Unmarshal([]byte(`{"error": {"code": 422, "detail": "team 3 missing"}}`), &resp))
		assert.JSONEq(t, `{"code": 422, "detail": "team 3 missing"}`, resp.Error)

		resp = SimulateResponse{}
		require.NoError(t, json.Unmarshal([]byte(`{"error": null, "predicted_winner": "Red"}`), &resp))
		assert.Empty(t, resp.Error)
	})

	t.Run("not an object", func(t *testing.T) {
		var resp SimulateResponse
		assert.Error(t, json.Unmarshal([]byte(`[1,2]`), &resp))
	})
}
