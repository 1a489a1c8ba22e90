package backtest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"universal-portfolio/internal/model"
	"universal-portfolio/internal/strategy"
)

func returns(t *testing.T, names []string, rows ...[]float64) *model.ReturnSeries {
	t.Helper()
	u, err := model.NewAssetUniverse(names...)
	require.NoError(t, err)
	rs, err := model.NewReturnSeries(u, rows)
	require.NoError(t, err)
	return rs
}

func scenario(t *testing.T) *model.ReturnSeries {
	return returns(t, []string{"aapl", "nflx"}, []float64{1.02, 0.98}, []float64{1.01, 1.01})
}

func universal(t *testing.T, rs *model.ReturnSeries) strategy.Strategy {
	t.Helper()
	u, err := strategy.NewUniversal(rs, 20)
	require.NoError(t, err)
	return u
}

func TestEngine_ScenarioDayOne(t *testing.T) {
	rs := scenario(t)
	res, err := New().Run(rs, universal(t, rs), 1)
	require.NoError(t, err)

	require.Len(t, res.Universal, 1)
	assert.InDelta(t, 1.015, res.Universal[0], 1e-12)
	assert.InDelta(t, 1.02, res.Baselines["aapl"][0], 1e-15)
	assert.InDelta(t, 1.01, res.Baselines["nflx"][0], 1e-15)
	assert.Equal(t, []float64{0.5, 0.5}, res.Ledger[0].Weights.Values())
	assert.Equal(t, model.StandingMixed, res.Ledger[0].Standing)
	assert.Equal(t, "universal", res.Strategy)
}

func TestEngine_TrajectoryLengths(t *testing.T) {
	rs := returns(t, []string{"a", "b"},
		[]float64{1.03, 0.95, 1.07, 1.01, 0.92, 1.10},
		[]float64{0.99, 1.02, 1.00, 1.01, 1.03, 0.98},
	)
	for n := 1; n <= rs.Days(); n++ {
		res, err := New().Run(rs, universal(t, rs), n)
		require.NoError(t, err)
		assert.Len(t, res.Universal, n)
		assert.Len(t, res.Ledger, n)
		assert.Equal(t, n, res.Days())
		for _, path := range res.Baselines {
			assert.Len(t, path, n)
		}
		assert.Equal(t, res.Universal[n-1], res.FinalWealth)
	}
}

func TestEngine_WealthMatchesRecomputation(t *testing.T) {
	rs := returns(t, []string{"a", "b"},
		[]float64{1.03, 0.95, 1.07, 1.01, 0.92, 1.10},
		[]float64{0.99, 1.02, 1.00, 1.01, 1.03, 0.98},
	)
	u := universal(t, rs)
	res, err := New().Run(rs, u, rs.Days())
	require.NoError(t, err)

	wealth := 1.0
	bh := []float64{1, 1}
	for k := 1; k <= rs.Days(); k++ {
		bk, err := u.Weights(k)
		require.NoError(t, err)
		row := res.Ledger[k-1]
		assert.Equal(t, bk.Values(), row.Weights.Values())

		dayReturn := bk.At(0)*rs.At(0, k-1) + bk.At(1)*rs.At(1, k-1)
		wealth *= dayReturn
		bh[0] *= rs.At(0, k-1)
		bh[1] *= rs.At(1, k-1)

		assert.Equal(t, dayReturn, row.DayReturn, "day %d", k)
		assert.Equal(t, wealth, row.Universal, "day %d", k)
		assert.Equal(t, bh, row.Baselines, "day %d", k)
	}
}

func TestEngine_ConstantMatchesWealthFunction(t *testing.T) {
	rs := returns(t, []string{"a", "b"},
		[]float64{1.03, 0.95, 1.07, 1.01},
		[]float64{0.99, 1.02, 1.00, 1.01},
	)
	b, err := model.NewWeightVector(0.3, 0.7)
	require.NoError(t, err)
	c, err := strategy.NewConstant(rs, b)
	require.NoError(t, err)

	res, err := New().Run(rs, c, rs.Days())
	require.NoError(t, err)
	for n := 1; n <= rs.Days(); n++ {
		s, err := rs.Wealth(n, b)
		require.NoError(t, err)
		assert.Equal(t, s, res.Universal[n-1])
	}
}

func TestEngine_HorizonValidated(t *testing.T) {
	rs := scenario(t)
	for _, n := range []int{0, -1, 3} {
		_, err := New().Run(rs, universal(t, rs), n)
		assert.ErrorIs(t, err, model.ErrUndefinedDay, "n=%d", n)
	}
	_, err := New().Run(nil, universal(t, rs), 1)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
	_, err = New().Run(rs, nil, 1)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestEngine_StrategyErrorAborts(t *testing.T) {
	rs := returns(t, []string{"a", "b"},
		[]float64{1e-200, 1e-200, 1.0},
		[]float64{1e-200, 1e-200, 1.0},
	)
	res, err := New().Run(rs, universal(t, rs), 3)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, model.ErrDegenerateIntegral))
	assert.Contains(t, err.Error(), "day 3")
}

type recorder struct {
	days []int
	rows []LedgerRow
}

func (r *recorder) ObserveDay(_ []string, row LedgerRow) {
	r.days = append(r.days, row.Day)
	r.rows = append(r.rows, row)
}

func TestEngine_NotifiesObservers(t *testing.T) {
	rs := scenario(t)
	rec := &recorder{}
	res, err := New(rec).Run(rs, universal(t, rs), 2)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, rec.days)
	assert.Equal(t, res.Ledger, rec.rows)
}

func TestWriteLedgerCSV(t *testing.T) {
	rs := scenario(t)
	res, err := New().Run(rs, universal(t, rs), 2)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "ledger.csv")
	require.NoError(t, WriteLedgerCSV(path, res))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{
		"day", "weight_aapl", "weight_nflx", "day_return", "universal_wealth",
		"aapl_wealth", "nflx_wealth", "standing",
	}, records[0])
	assert.Equal(t, []string{
		"1", "0.500000", "0.500000", "1.015000", "1.015000", "1.020000", "1.010000", "MIXED",
	}, records[1])
	assert.Equal(t, "2", records[2][0])
}

func TestEncodeLedgerCSV_NilResult(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, EncodeLedgerCSV(&buf, nil))
}
