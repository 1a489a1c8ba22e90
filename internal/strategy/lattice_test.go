package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"universal-portfolio/internal/model"
)

func TestLattice_MatchesUniversalForTwoAssets(t *testing.T) {
	rs := longer(t)
	u, err := NewUniversal(rs, 20)
	require.NoError(t, err)
	l, err := NewLattice(rs, 20)
	require.NoError(t, err)
	assert.Equal(t, 21, l.Points())

	for k := 1; k <= rs.Days()+1; k++ {
		want, err := u.Weights(k)
		require.NoError(t, err)
		got, err := l.Weights(k)
		require.NoError(t, err)
		assert.Equal(t, want.Values(), got.Values(), "day %d", k)
	}
}

func TestLattice_OutOfOrderCallsRebuild(t *testing.T) {
	rs := longer(t)
	u, err := NewUniversal(rs, 10)
	require.NoError(t, err)
	l, err := NewLattice(rs, 10)
	require.NoError(t, err)

	for _, k := range []int{9, 3, 12, 2, 12, 5} {
		want, err := u.Weights(k)
		require.NoError(t, err)
		got, err := l.Weights(k)
		require.NoError(t, err)
		assert.Equal(t, want.Values(), got.Values(), "day %d", k)
	}
}

func TestLattice_ThreeAssets(t *testing.T) {
	rs := returnsOf(t,
		[]float64{1.04, 1.03, 1.05, 1.02},
		[]float64{1.00, 1.00, 1.00, 1.00},
		[]float64{0.97, 0.98, 0.96, 0.99},
	)
	l, err := NewLattice(rs, 12)
	require.NoError(t, err)
	assert.Equal(t, 91, l.Points()) // C(14, 2)

	b, err := l.Weights(1)
	require.NoError(t, err)
	for _, v := range b.Values() {
		assert.InDelta(t, 1.0/3, v, 1e-15)
	}

	for k := 2; k <= rs.Days()+1; k++ {
		b, err := l.Weights(k)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, sum(b), 1e-12, "day %d", k)
		assert.Greater(t, b.At(0), b.At(1), "day %d", k)
		assert.Greater(t, b.At(1), b.At(2), "day %d", k)
	}
}

func TestLattice_TooManyPoints(t *testing.T) {
	rows := make([][]float64, 12)
	for i := range rows {
		rows[i] = []float64{1.0}
	}
	_, err := NewLattice(returnsOf(t, rows...), 100)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestSimplexLattice_TwoAssetOrder(t *testing.T) {
	grid, err := simplexLattice(2, 4)
	require.NoError(t, err)
	require.Len(t, grid, 5)
	for i, w := range grid {
		assert.Equal(t, float64(i)/4, w.At(0))
		assert.Equal(t, 1-float64(i)/4, w.At(1))
	}
}

func TestBestConstant_PicksHindsightWinner(t *testing.T) {
	rs := returnsOf(t,
		[]float64{1.05, 1.05, 1.05},
		[]float64{0.98, 0.98, 0.98},
	)
	bc, err := NewBestConstant(rs, 20, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0}, bc.Portfolio().Values())
	assert.InDelta(t, 1.05*1.05*1.05, bc.HindsightWealth(), 1e-12)

	b, err := bc.Weights(1)
	require.NoError(t, err)
	assert.Equal(t, bc.Portfolio().Values(), b.Values())
}

func TestBestConstant_RebalancingBeatsBothAssets(t *testing.T) {
	// Classic volatility-pumping case: cash vs an asset that doubles then halves.
	rs := returnsOf(t,
		[]float64{1, 1, 1, 1, 1, 1},
		[]float64{2, 0.5, 2, 0.5, 2, 0.5},
	)
	bc, err := NewBestConstant(rs, 20, 6)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, bc.Portfolio().At(0), 1e-12)
	assert.Greater(t, bc.HindsightWealth(), 1.0)
}

func TestBestConstant_HorizonValidated(t *testing.T) {
	_, err := NewBestConstant(scenario(t), 20, 3)
	assert.ErrorIs(t, err, model.ErrUndefinedDay)
	_, err = NewBestConstant(scenario(t), 20, 0)
	assert.ErrorIs(t, err, model.ErrUndefinedDay)
}
