package historyservice

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/xuri/excelize/v2"

	gametypes "github.com/oh-hell-club/kachuful-bot/app/modules/game/domain"
	historydb "github.com/oh-hell-club/kachuful-bot/app/modules/history/infrastructure/repositories"
	"github.com/oh-hell-club/kachuful-bot/internal/events"
	"github.com/oh-hell-club/kachuful-bot/internal/metrics"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func newTestService(repo historydb.Repository) *HistoryService {
	return NewHistoryService(repo, slog.Default(), metrics.NoOpHistoryMetrics{}, nil, nil)
}

// completedPayload builds a two-round, two-player completed game snapshot.
func completedPayload() events.GameCompletedPayloadV1 {
	asha := uuid.New()
	bela := uuid.New()

	snapshot := gametypes.GameState{
		GameID:   uuid.New(),
		Status:   gametypes.GameStatusCompleted,
		Settings: gametypes.DefaultSettings(),
		Players: []gametypes.Player{
			{ID: asha, Name: "Asha", Position: 0, TotalScore: 25,
				Stats: gametypes.PlayerStats{RoundsPlayed: 2, SuccessfulBids: 2}},
			{ID: bela, Name: "Bela", Position: 1, TotalScore: 11,
				Stats: gametypes.PlayerStats{RoundsPlayed: 2, SuccessfulBids: 1, FailedBids: 1}},
		},
		CurrentRound: 3,
		Rounds: []gametypes.Round{
			{
				Number: 1, Status: gametypes.RoundStatusCompleted,
				CardsDealt: 7, TrumpSuit: gametypes.TrumpSpades,
				Bids: []gametypes.PlayerBid{
					{PlayerID: asha, Predicted: 2},
					{PlayerID: bela, Predicted: 1},
				},
				Results: []gametypes.PlayerResult{
					{PlayerID: asha, Predicted: 2, Actual: 2, Matched: true},
					{PlayerID: bela, Predicted: 1, Actual: 1, Matched: true},
				},
				Scores: []gametypes.PlayerScore{
					{PlayerID: asha, RoundScore: 12, CumulativeScore: 12},
					{PlayerID: bela, RoundScore: 11, CumulativeScore: 11},
				},
			},
			{
				Number: 2, Status: gametypes.RoundStatusCompleted,
				CardsDealt: 6, TrumpSuit: gametypes.TrumpDiamonds,
				Bids: []gametypes.PlayerBid{
					{PlayerID: asha, Predicted: 3},
					{PlayerID: bela, Predicted: 2},
				},
				Results: []gametypes.PlayerResult{
					{PlayerID: asha, Predicted: 3, Actual: 3, Matched: true},
					{PlayerID: bela, Predicted: 2, Actual: 3, Matched: false},
				},
				Scores: []gametypes.PlayerScore{
					{PlayerID: asha, RoundScore: 13, CumulativeScore: 25},
					{PlayerID: bela, RoundScore: 0, CumulativeScore: 11},
				},
			},
		},
	}

	return events.GameCompletedPayloadV1{
		GameID:      snapshot.GameID,
		CompletedAt: time.Date(2026, 8, 15, 19, 30, 0, 0, time.UTC),
		Snapshot:    snapshot,
	}
}

func TestArchiveGame(t *testing.T) {
	repo := NewFakeHistoryRepo()
	service := newTestService(repo)
	payload := completedPayload()

	result, err := service.ArchiveGame(context.Background(), payload)
	require.NoError(t, err)
	require.True(t, result.IsSuccess())

	outcome := *result.Success
	assert.False(t, outcome.Duplicate)
	assert.Equal(t, payload.GameID, outcome.Record.GameID)
	assert.Equal(t, "Asha", outcome.Record.WinnerName)
	assert.Equal(t, 25, outcome.Record.WinnerScore)
	assert.Len(t, outcome.Record.Rounds, 2)
	assert.Equal(t, []string{"Insert"}, repo.Trace())
}

func TestArchiveGameDuplicate(t *testing.T) {
	repo := NewFakeHistoryRepo()
	service := newTestService(repo)
	payload := completedPayload()

	first, err := service.ArchiveGame(context.Background(), payload)
	require.NoError(t, err)
	require.True(t, first.IsSuccess())

	second, err := service.ArchiveGame(context.Background(), payload)
	require.NoError(t, err)
	require.True(t, second.IsSuccess())
	assert.True(t, (*second.Success).Duplicate)

	records, err := service.ListGames(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestArchiveGameRejectsUnfinishedSnapshot(t *testing.T) {
	repo := NewFakeHistoryRepo()
	service := newTestService(repo)

	payload := completedPayload()
	payload.Snapshot.Status = gametypes.GameStatusInProgress

	result, err := service.ArchiveGame(context.Background(), payload)
	require.NoError(t, err)
	require.True(t, result.IsFailure())
	assert.Equal(t, "snapshot is not a completed game", (*result.Failure).Reason)
	assert.Empty(t, repo.Trace())
}

func TestArchiveGameRepositoryError(t *testing.T) {
	repo := NewFakeHistoryRepo()
	repo.InsertFunc = func(ctx context.Context, db bun.IDB, entry *historydb.HistoryEntry) (bool, error) {
		return false, errors.New("connection refused")
	}
	service := newTestService(repo)

	_, err := service.ArchiveGame(context.Background(), completedPayload())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ArchiveGame")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestGetGame(t *testing.T) {
	repo := NewFakeHistoryRepo()
	service := newTestService(repo)
	payload := completedPayload()

	_, err := service.ArchiveGame(context.Background(), payload)
	require.NoError(t, err)

	record, err := service.GetGame(context.Background(), payload.GameID)
	require.NoError(t, err)
	assert.Equal(t, payload.GameID, record.GameID)
	assert.Equal(t, gametypes.ScoringStandard, record.ScoringVariant)
}

func TestGetGameNotFound(t *testing.T) {
	service := newTestService(NewFakeHistoryRepo())

	_, err := service.GetGame(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClearHistory(t *testing.T) {
	repo := NewFakeHistoryRepo()
	service := newTestService(repo)

	_, err := service.ArchiveGame(context.Background(), completedPayload())
	require.NoError(t, err)

	require.NoError(t, service.ClearHistory(context.Background()))

	records, err := service.ListGames(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRenderScoreChart(t *testing.T) {
	repo := NewFakeHistoryRepo()
	service := newTestService(repo)
	payload := completedPayload()

	_, err := service.ArchiveGame(context.Background(), payload)
	require.NoError(t, err)

	png, err := service.RenderScoreChart(context.Background(), payload.GameID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic), "expected PNG output")
}

func TestRenderScoreChartNoRounds(t *testing.T) {
	repo := NewFakeHistoryRepo()
	service := newTestService(repo)

	payload := completedPayload()
	payload.Snapshot.Rounds = nil

	_, err := service.ArchiveGame(context.Background(), payload)
	require.NoError(t, err)

	png, err := service.RenderScoreChart(context.Background(), payload.GameID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic), "placeholder should still be a PNG")
}

func TestExportScoreboard(t *testing.T) {
	repo := NewFakeHistoryRepo()
	service := newTestService(repo)
	payload := completedPayload()

	_, err := service.ArchiveGame(context.Background(), payload)
	require.NoError(t, err)

	data, err := service.ExportScoreboard(context.Background(), payload.GameID)
	require.NoError(t, err)

	workbook, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer workbook.Close()

	header, err := workbook.GetCellValue("Scoreboard", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Round", header)

	bidHeader, err := workbook.GetCellValue("Scoreboard", "D1")
	require.NoError(t, err)
	assert.Equal(t, "Asha Bid", bidHeader)

	firstRound, err := workbook.GetCellValue("Scoreboard", "A2")
	require.NoError(t, err)
	assert.Equal(t, "1", firstRound)

	trump, err := workbook.GetCellValue("Scoreboard", "C2")
	require.NoError(t, err)
	assert.Equal(t, "spades", trump)
}

func TestExportScoreboardNotFound(t *testing.T) {
	service := newTestService(NewFakeHistoryRepo())

	_, err := service.ExportScoreboard(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}
