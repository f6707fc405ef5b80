package gamedb

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gametypes "github.com/oh-hell-club/kachuful-bot/app/modules/game/domain"
)

// playedGame builds an aggregate with one scored round so the nested jsonb
// fields carry real data.
func playedGame(t *testing.T) *gametypes.GameState {
	t.Helper()

	faker := gofakeit.New(11)
	names := []string{faker.FirstName(), faker.FirstName(), faker.FirstName(), faker.FirstName()}
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	state := gametypes.NewGame(uuid.New(), names, gametypes.DefaultSettings(), now)

	bids := []gametypes.PlayerBid{
		{PlayerID: state.Players[0].ID, Predicted: 2},
		{PlayerID: state.Players[1].ID, Predicted: 1},
		{PlayerID: state.Players[2].ID, Predicted: 3},
		{PlayerID: state.Players[3].ID, Predicted: 0},
	}
	require.True(t, state.SubmitBids(bids, now).Valid)

	results := []gametypes.PlayerResult{
		{PlayerID: state.Players[0].ID, Actual: 2},
		{PlayerID: state.Players[1].ID, Actual: 1},
		{PlayerID: state.Players[2].ID, Actual: 3},
		{PlayerID: state.Players[3].ID, Actual: 1},
	}
	vr, err := state.SubmitResults(results, now)
	require.NoError(t, err)
	require.True(t, vr.Valid)

	state.AdvanceRound(now)
	return state
}

func TestGameModelRoundTrip(t *testing.T) {
	state := playedGame(t)

	restored := FromDomain(state).ToDomain()

	assert.Equal(t, state.GameID, restored.GameID)
	assert.Equal(t, state.Status, restored.Status)
	assert.Equal(t, state.Settings, restored.Settings)
	assert.Equal(t, state.Players, restored.Players)
	assert.Equal(t, state.CurrentRound, restored.CurrentRound)
	assert.Equal(t, state.DealerIndex, restored.DealerIndex)
	assert.Equal(t, state.Rounds, restored.Rounds)
}

// TestGameStateJSONRoundTrip covers the jsonb columns: the nested aggregates
// must survive marshal and unmarshal without loss.
func TestGameStateJSONRoundTrip(t *testing.T) {
	state := playedGame(t)
	model := FromDomain(state)

	data, err := json.Marshal(model.Players)
	require.NoError(t, err)
	var players []gametypes.Player
	require.NoError(t, json.Unmarshal(data, &players))
	assert.Equal(t, model.Players, players)

	data, err = json.Marshal(model.Rounds)
	require.NoError(t, err)
	var rounds []gametypes.Round
	require.NoError(t, json.Unmarshal(data, &rounds))
	assert.Equal(t, model.Rounds, rounds)
}
