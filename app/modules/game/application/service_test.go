package gameservice

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	gametypes "github.com/oh-hell-club/kachuful-bot/app/modules/game/domain"
	gamedb "github.com/oh-hell-club/kachuful-bot/app/modules/game/infrastructure/repositories"
	"github.com/oh-hell-club/kachuful-bot/internal/events"
	"github.com/oh-hell-club/kachuful-bot/internal/metrics"
)

func newTestService(repo *FakeGameRepo, bus *FakeEventBus) *GameService {
	return NewGameService(repo, bus, slog.Default(), metrics.NoOpGameMetrics{}, nil, nil)
}

func mustInitGame(t *testing.T, svc *GameService, names ...string) *gametypes.GameState {
	t.Helper()
	if len(names) == 0 {
		names = []string{"Asha", "Bela", "Chirag", "Deepa"}
	}
	result, err := svc.InitGame(context.Background(), names, SettingsPatch{})
	require.NoError(t, err)
	require.True(t, result.IsSuccess())
	return *result.Success
}

// seatBids builds a bid set in seat order.
func seatBids(state *gametypes.GameState, values ...int) []gametypes.PlayerBid {
	bids := make([]gametypes.PlayerBid, 0, len(values))
	for i, v := range values {
		bids = append(bids, gametypes.PlayerBid{PlayerID: state.Players[i].ID, Predicted: v})
	}
	return bids
}

// seatResults builds actual trick counts in seat order.
func seatResults(state *gametypes.GameState, values ...int) []gametypes.PlayerResult {
	results := make([]gametypes.PlayerResult, 0, len(values))
	for i, v := range values {
		results = append(results, gametypes.PlayerResult{PlayerID: state.Players[i].ID, Actual: v})
	}
	return results
}

func TestInitGame(t *testing.T) {
	tests := []struct {
		name       string
		players    []string
		patch      SettingsPatch
		wantReason string
	}{
		{
			name:    "happy path with defaults",
			players: []string{"Asha", "Bela", "Chirag"},
		},
		{
			name:    "settings patch applied",
			players: []string{"Asha", "Bela"},
			patch: SettingsPatch{
				ScoringVariant: variantPtr(gametypes.ScoringHighIncentive),
				TotalRounds:    intPtr(5),
				StartingCards:  intPtr(5),
			},
		},
		{
			name:       "single player rejected",
			players:    []string{"Asha"},
			wantReason: "at least two players are required",
		},
		{
			name:       "blank name rejected",
			players:    []string{"Asha", "  "},
			wantReason: "player names must be non-empty",
		},
		{
			name:       "duplicate names rejected",
			players:    []string{"Asha", "asha"},
			wantReason: "player names must be unique",
		},
		{
			name:       "zero rounds rejected",
			players:    []string{"Asha", "Bela"},
			patch:      SettingsPatch{TotalRounds: intPtr(0)},
			wantReason: "total rounds must be at least 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewFakeGameRepo()
			svc := newTestService(repo, NewFakeEventBus())

			result, err := svc.InitGame(context.Background(), tt.players, tt.patch)
			require.NoError(t, err)

			if tt.wantReason != "" {
				require.True(t, result.IsFailure())
				assert.Equal(t, tt.wantReason, (*result.Failure).Reason)
				assert.Nil(t, repo.Stored())
				return
			}

			require.True(t, result.IsSuccess())
			state := *result.Success
			assert.Len(t, state.Players, len(tt.players))
			assert.Equal(t, gametypes.GameStatusInProgress, state.Status)
			require.NotNil(t, repo.Stored())
			assert.Equal(t, state.GameID, repo.Stored().ID)

			if tt.patch.ScoringVariant != nil {
				assert.Equal(t, *tt.patch.ScoringVariant, state.Settings.ScoringVariant)
			}
		})
	}
}

func TestInitGameReplacesActiveGame(t *testing.T) {
	repo := NewFakeGameRepo()
	svc := newTestService(repo, NewFakeEventBus())

	first := mustInitGame(t, svc)
	second := mustInitGame(t, svc)

	assert.NotEqual(t, first.GameID, second.GameID)
	assert.Equal(t, second.GameID, repo.Stored().ID)
	assert.Contains(t, repo.Trace(), "DeleteAll")
}

func TestSubmitBidsNoActiveGame(t *testing.T) {
	svc := newTestService(NewFakeGameRepo(), NewFakeEventBus())

	result, err := svc.SubmitBids(context.Background(), nil)
	require.NoError(t, err)
	require.True(t, result.IsFailure())
	assert.Equal(t, "no active game", (*result.Failure).Reason)
}

func TestSubmitBidsValidationFailure(t *testing.T) {
	repo := NewFakeGameRepo()
	svc := newTestService(repo, NewFakeEventBus())
	state := mustInitGame(t, svc)

	savedBefore := len(repo.Trace())

	// 2+1+3+1 = 7 equals the tricks available: dealer restriction.
	result, err := svc.SubmitBids(context.Background(), seatBids(state, 2, 1, 3, 1))
	require.NoError(t, err)
	require.True(t, result.IsFailure())
	assert.Equal(t, gametypes.CodeDealerRestrictionViolation, (*result.Failure).Code)

	// Nothing was persisted after the rejection.
	for _, step := range repo.Trace()[savedBefore:] {
		assert.NotEqual(t, "Save", step)
	}
}

func TestSubmitBidsSuccess(t *testing.T) {
	repo := NewFakeGameRepo()
	svc := newTestService(repo, NewFakeEventBus())
	state := mustInitGame(t, svc)

	result, err := svc.SubmitBids(context.Background(), seatBids(state, 2, 1, 3, 0))
	require.NoError(t, err)
	require.True(t, result.IsSuccess())

	stored := repo.Stored().ToDomain()
	require.Len(t, stored.Rounds, 1)
	assert.Equal(t, gametypes.RoundStatusPlaying, stored.Rounds[0].Status)
}

func TestSubmitResultsFlow(t *testing.T) {
	repo := NewFakeGameRepo()
	svc := newTestService(repo, NewFakeEventBus())
	state := mustInitGame(t, svc)

	// Results before bids is a handled failure, not an error.
	result, err := svc.SubmitResults(context.Background(), seatResults(state, 2, 1, 3, 1))
	require.NoError(t, err)
	require.True(t, result.IsFailure())

	_, err = svc.SubmitBids(context.Background(), seatBids(state, 2, 1, 3, 0))
	require.NoError(t, err)

	// Trick conservation violation.
	result, err = svc.SubmitResults(context.Background(), seatResults(state, 2, 1, 3, 2))
	require.NoError(t, err)
	require.True(t, result.IsFailure())
	assert.Equal(t, gametypes.CodeTrickSumMismatch, (*result.Failure).Code)

	// Valid results score the round.
	result, err = svc.SubmitResults(context.Background(), seatResults(state, 2, 1, 3, 1))
	require.NoError(t, err)
	require.True(t, result.IsSuccess())

	scored := *result.Success
	assert.Equal(t, 12, scored.Players[0].TotalScore)
	assert.Equal(t, 13, scored.Players[2].TotalScore)

	// A second submission for the same round is rejected.
	result, err = svc.SubmitResults(context.Background(), seatResults(state, 2, 1, 3, 1))
	require.NoError(t, err)
	require.True(t, result.IsFailure())
}

func TestNextRoundPublishesCompletionOnce(t *testing.T) {
	repo := NewFakeGameRepo()
	bus := NewFakeEventBus()
	svc := newTestService(repo, bus)
	mustInitGame(t, svc)

	// Jump to the final round, then advance past it.
	stored := repo.Stored().ToDomain()
	stored.CurrentRound = stored.Settings.TotalRounds
	repo.stored = gamedb.FromDomain(stored)

	result, err := svc.NextRound(context.Background())
	require.NoError(t, err)
	require.True(t, result.IsSuccess())
	assert.Equal(t, gametypes.GameStatusCompleted, (*result.Success).Status)

	published := bus.Published()
	require.Len(t, published, 1)
	assert.Equal(t, events.GameCompletedV1, published[0].Topic)

	payload, ok := published[0].Payload.(events.GameCompletedPayloadV1)
	require.True(t, ok)
	assert.Equal(t, stored.GameID, payload.GameID)
	assert.Equal(t, gametypes.GameStatusCompleted, payload.Snapshot.Status)

	// Advancing a completed game is a guarded no-op; no second event.
	result, err = svc.NextRound(context.Background())
	require.NoError(t, err)
	require.True(t, result.IsFailure())
	assert.Len(t, bus.Published(), 1)
}

func TestNextRoundMidGame(t *testing.T) {
	repo := NewFakeGameRepo()
	bus := NewFakeEventBus()
	svc := newTestService(repo, bus)
	mustInitGame(t, svc)

	result, err := svc.NextRound(context.Background())
	require.NoError(t, err)
	require.True(t, result.IsSuccess())

	state := *result.Success
	assert.Equal(t, 2, state.CurrentRound)
	assert.Equal(t, 1, state.DealerIndex)
	assert.Empty(t, bus.Published())
}

func TestEndGame(t *testing.T) {
	repo := NewFakeGameRepo()
	bus := NewFakeEventBus()
	svc := newTestService(repo, bus)
	mustInitGame(t, svc)

	result, err := svc.EndGame(context.Background())
	require.NoError(t, err)
	require.True(t, result.IsSuccess())
	assert.Equal(t, gametypes.GameStatusCompleted, (*result.Success).Status)
	assert.Len(t, bus.Published(), 1)

	// Ending twice is a guarded no-op.
	result, err = svc.EndGame(context.Background())
	require.NoError(t, err)
	require.True(t, result.IsFailure())
	assert.Equal(t, "game is already completed", (*result.Failure).Reason)
}

func TestContinueGame(t *testing.T) {
	repo := NewFakeGameRepo()
	svc := newTestService(repo, NewFakeEventBus())
	mustInitGame(t, svc)

	_, err := svc.EndGame(context.Background())
	require.NoError(t, err)

	result, err := svc.ContinueGame(context.Background(), 0)
	require.NoError(t, err)
	require.True(t, result.IsFailure())

	result, err = svc.ContinueGame(context.Background(), 3)
	require.NoError(t, err)
	require.True(t, result.IsSuccess())

	state := *result.Success
	assert.Equal(t, gametypes.GameStatusInProgress, state.Status)
	assert.Equal(t, 16, state.Settings.TotalRounds)
}

func TestResetGame(t *testing.T) {
	repo := NewFakeGameRepo()
	svc := newTestService(repo, NewFakeEventBus())
	mustInitGame(t, svc)

	result, err := svc.ResetGame(context.Background())
	require.NoError(t, err)
	require.True(t, result.IsSuccess())
	assert.Nil(t, repo.Stored())

	// Resetting with nothing stored still succeeds.
	result, err = svc.ResetGame(context.Background())
	require.NoError(t, err)
	require.True(t, result.IsSuccess())
}

func TestQueries(t *testing.T) {
	repo := NewFakeGameRepo()
	svc := newTestService(repo, NewFakeEventBus())

	_, err := svc.GetGame(context.Background())
	assert.ErrorIs(t, err, ErrNoActiveGame)

	state := mustInitGame(t, svc)

	got, err := svc.GetGame(context.Background())
	require.NoError(t, err)
	assert.Equal(t, state.GameID, got.GameID)

	_, round, err := svc.GetCurrentRound(context.Background())
	require.NoError(t, err)
	assert.Nil(t, round)

	_, err = svc.SubmitBids(context.Background(), seatBids(state, 2, 1, 3, 0))
	require.NoError(t, err)
	_, err = svc.SubmitResults(context.Background(), seatResults(state, 2, 1, 3, 1))
	require.NoError(t, err)

	leader, err := svc.GetLeader(context.Background())
	require.NoError(t, err)
	assert.Equal(t, state.Players[2].ID, leader.ID)

	standings, err := svc.GetStandings(context.Background())
	require.NoError(t, err)
	require.Len(t, standings, 4)
	assert.Equal(t, 1, standings[0].Rank)
	assert.Equal(t, state.Players[2].ID, standings[0].PlayerID)

	stats, err := svc.GetStatistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalRoundsPlayed)
}

func TestRepositoryErrorSurfacesAsError(t *testing.T) {
	repo := NewFakeGameRepo()
	repo.GetActiveFunc = func(ctx context.Context, db bun.IDB) (*gamedb.Game, error) {
		return nil, errors.New("database connection failed")
	}
	svc := newTestService(repo, NewFakeEventBus())

	_, err := svc.SubmitBids(context.Background(), nil)
	assert.Error(t, err)
}

func variantPtr(v gametypes.ScoringVariant) *gametypes.ScoringVariant { return &v }
func intPtr(v int) *int                                               { return &v }
