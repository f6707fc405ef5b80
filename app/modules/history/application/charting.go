package historyservice

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	historytypes "github.com/oh-hell-club/kachuful-bot/app/modules/history/domain"
)

// seriesPalette cycles through distinct stroke colors, one per player.
var seriesPalette = []drawing.Color{
	{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	{R: 0x8c, G: 0x56, B: 0x4b, A: 0xff},
	{R: 0xe3, G: 0x77, B: 0xc2, A: 0xff},
	{R: 0x7f, G: 0x7f, B: 0x7f, A: 0xff},
}

// RenderScoreChart produces a PNG line chart of cumulative scores per player
// across the rounds of an archived game.
func (s *HistoryService) RenderScoreChart(ctx context.Context, gameID uuid.UUID) ([]byte, error) {
	record, err := s.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	png, err := generateScoreProgressionChart(*record)
	if err != nil {
		return nil, fmt.Errorf("failed to render score chart: %w", err)
	}
	return png, nil
}

// generateScoreProgressionChart draws one series per player. Every series
// starts at zero before round one so short games still render a line.
func generateScoreProgressionChart(record historytypes.GameRecord) ([]byte, error) {
	if len(record.Rounds) == 0 || len(record.Players) == 0 {
		return renderNoDataPlaceholder("No completed rounds to chart")
	}

	series := make([]chart.Series, 0, len(record.Players))

	for i, player := range record.Players {
		xValues := make([]float64, 0, len(record.Rounds)+1)
		yValues := make([]float64, 0, len(record.Rounds)+1)

		xValues = append(xValues, 0)
		yValues = append(yValues, 0)

		running := 0.0
		for _, round := range record.Rounds {
			for _, score := range round.Scores {
				if score.PlayerID == player.PlayerID {
					running = float64(score.CumulativeScore)
				}
			}
			xValues = append(xValues, float64(round.Number))
			yValues = append(yValues, running)
		}

		color := seriesPalette[i%len(seriesPalette)]
		series = append(series, chart.ContinuousSeries{
			Name:    player.Name,
			XValues: xValues,
			YValues: yValues,
			Style: chart.Style{
				StrokeColor: color,
				StrokeWidth: 2,
				DotWidth:    3,
				DotColor:    color,
			},
		})
	}

	graph := chart.Chart{
		Title:  "Score Progression",
		Width:  800,
		Height: 400,
		XAxis: chart.XAxis{
			Name: "Round",
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			Name: "Cumulative Score",
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

func renderNoDataPlaceholder(msg string) ([]byte, error) {
	const (
		width  = 400
		height = 200
	)

	graph := chart.Chart{
		Width:  width,
		Height: height,
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, chartDefaults chart.Style) {
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				x := (cb.Width() - tb.Width()) / 2
				y := (cb.Height() + tb.Height()) / 2
				r.Text(msg, x, y)
			},
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
