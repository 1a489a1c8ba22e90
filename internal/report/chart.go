package report

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/vicanso/go-charts/v2"

	"universal-portfolio/internal/backtest"
)

// RenderWealthChart draws the strategy's wealth and every buy-and-hold
// baseline on one PNG line chart.
func RenderWealthChart(res *backtest.Result) ([]byte, error) {
	if res == nil || res.Days() == 0 {
		return nil, fmt.Errorf("no trajectory to chart")
	}

	names := make([]string, 0, len(res.Assets)+1)
	values := make([][]float64, 0, len(res.Assets)+1)
	names = append(names, res.Strategy)
	values = append(values, withStart(res.Universal))
	for _, a := range res.Assets {
		names = append(names, a)
		values = append(values, withStart(res.Baselines[a]))
	}

	xLabels := make([]string, res.Days()+1)
	for i := range xLabels {
		xLabels[i] = strconv.Itoa(i)
	}

	yMin, yMax := math.Inf(1), math.Inf(-1)
	for _, series := range values {
		for _, v := range series {
			yMin = math.Min(yMin, v)
			yMax = math.Max(yMax, v)
		}
	}
	padding := (yMax - yMin) * 0.05
	if padding == 0 {
		padding = yMax * 0.05
	}
	yMin -= padding
	yMax += padding

	splitNum := 6
	if len(xLabels) <= 30 {
		splitNum = len(xLabels) / 3
		if splitNum < 3 {
			splitNum = 3
		}
	}

	p, err := charts.LineRender(
		values,
		charts.TitleTextOptionFunc(fmt.Sprintf("Wealth (%d days)", res.Days())),
		charts.XAxisOptionFunc(charts.XAxisOption{
			Data:        xLabels,
			SplitNumber: splitNum,
			BoundaryGap: charts.FalseFlag(),
		}),
		charts.YAxisOptionFunc(charts.YAxisOption{
			Min:         &yMin,
			Max:         &yMax,
			DivideCount: 5,
		}),
		charts.LegendOptionFunc(charts.LegendOption{
			Data: names,
			Top:  charts.PositionTop,
		}),
		charts.ThemeOptionFunc(charts.ThemeLight),
		charts.WidthOptionFunc(1000),
		charts.HeightOptionFunc(600),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to generate chart bytes: %w", err)
	}
	return buf, nil
}

func WriteWealthChart(path string, res *backtest.Result) error {
	buf, err := RenderWealthChart(res)
	if err != nil {
		return err
	}
	return os.WriteFile(path, buf, 0o644)
}

// withStart prepends the day-0 wealth of 1.
func withStart(path []float64) []float64 {
	out := make([]float64, 0, len(path)+1)
	out = append(out, 1)
	return append(out, path...)
}
