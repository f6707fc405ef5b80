package historyservice

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	historytypes "github.com/oh-hell-club/kachuful-bot/app/modules/history/domain"
)

const scoreboardSheet = "Scoreboard"

// ExportScoreboard renders an archived game as an xlsx workbook: one row per
// round with bid/actual/score columns per player, followed by final totals
// and standings.
func (s *HistoryService) ExportScoreboard(ctx context.Context, gameID uuid.UUID) ([]byte, error) {
	record, err := s.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	data, err := buildScoreboardWorkbook(*record)
	if err != nil {
		return nil, fmt.Errorf("failed to build scoreboard workbook: %w", err)
	}
	return data, nil
}

func buildScoreboardWorkbook(record historytypes.GameRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(scoreboardSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	// Header: Round | Cards | Trump | then Bid/Won/Score per player.
	headers := []interface{}{"Round", "Cards", "Trump"}
	for _, p := range record.Players {
		headers = append(headers,
			fmt.Sprintf("%s Bid", p.Name),
			fmt.Sprintf("%s Won", p.Name),
			fmt.Sprintf("%s Score", p.Name),
		)
	}
	if err := setRow(f, 1, headers); err != nil {
		return nil, err
	}

	rowNum := 2
	for _, round := range record.Rounds {
		predicted := make(map[uuid.UUID]int, len(round.Bids))
		for _, b := range round.Bids {
			predicted[b.PlayerID] = b.Predicted
		}
		actual := make(map[uuid.UUID]int, len(round.Results))
		for _, r := range round.Results {
			actual[r.PlayerID] = r.Actual
		}
		cumulative := make(map[uuid.UUID]int, len(round.Scores))
		for _, sc := range round.Scores {
			cumulative[sc.PlayerID] = sc.CumulativeScore
		}

		row := []interface{}{round.Number, round.CardsDealt, string(round.TrumpSuit)}
		for _, p := range record.Players {
			row = append(row, predicted[p.PlayerID], actual[p.PlayerID], cumulative[p.PlayerID])
		}
		if err := setRow(f, rowNum, row); err != nil {
			return nil, err
		}
		rowNum++
	}

	// Standings block below the score grid.
	rowNum++
	if err := setRow(f, rowNum, []interface{}{"Rank", "Player", "Final Score", "Bid Accuracy %"}); err != nil {
		return nil, err
	}
	rowNum++
	for _, p := range record.Players {
		if err := setRow(f, rowNum, []interface{}{p.Rank, p.Name, p.FinalScore, p.Accuracy}); err != nil {
			return nil, err
		}
		rowNum++
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func setRow(f *excelize.File, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(scoreboardSheet, cell, &values)
}
