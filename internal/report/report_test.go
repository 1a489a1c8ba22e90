package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"universal-portfolio/internal/backtest"
	"universal-portfolio/internal/model"
)

func scenarioResult(t *testing.T) *backtest.Result {
	t.Helper()
	b := model.UniformWeights(2)
	return &backtest.Result{
		Strategy: "universal",
		Assets:   []string{"aapl", "nflx"},
		Ledger: []backtest.LedgerRow{
			{Day: 1, Weights: b, Universal: 1.015, Baselines: []float64{1.02, 1.01}},
			{Day: 2, Weights: b, Universal: 1.02, Baselines: []float64{1.03, 1.0}},
		},
		Universal: []float64{1.015, 1.02},
		Baselines: map[string][]float64{"aapl": {1.02, 1.03}, "nflx": {1.01, 1.0}},
	}
}

func TestFormatDay(t *testing.T) {
	res := scenarioResult(t)
	got := FormatDay(res.Assets, res.Ledger[0])
	assert.Equal(t, "Day 01:\t Univ  1.015\t aapl  0.5  1.02\t nflx  0.5  1.01", got)

	row := res.Ledger[1]
	row.Day = 12
	assert.Contains(t, FormatDay(res.Assets, row), "Day 12:\t ")
}

func TestProgressPrinter(t *testing.T) {
	res := scenarioResult(t)
	var buf bytes.Buffer
	p := NewProgressPrinter(&buf)
	for _, row := range res.Ledger {
		p.ObserveDay(res.Assets, row)
	}
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.True(t, bytes.HasPrefix(lines[1], []byte("Day 02:")))
}

func TestRenderWealthChart(t *testing.T) {
	png, err := RenderWealthChart(scenarioResult(t))
	require.NoError(t, err)
	require.Greater(t, len(png), 8)
	assert.Equal(t, []byte("\x89PNG"), png[:4])

	path := filepath.Join(t.TempDir(), "wealth.png")
	require.NoError(t, WriteWealthChart(path, scenarioResult(t)))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	_, err = RenderWealthChart(&backtest.Result{})
	assert.Error(t, err)
}
