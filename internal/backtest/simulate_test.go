package backtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"universal-portfolio/internal/model"
	"universal-portfolio/internal/strategy"
)

func TestSimulate_DefaultHorizon(t *testing.T) {
	rs := scenario(t)
	res, err := Simulate(context.Background(), rs, strategy.Spec{}, 0)
	require.NoError(t, err)
	assert.Equal(t, rs.Days(), res.Days())
	assert.InDelta(t, 1.015, res.Universal[0], 1e-12)
}

func TestSimulate_ParallelMatchesSequential(t *testing.T) {
	rs := returns(t, []string{"a", "b"},
		[]float64{1.03, 0.95, 1.07, 1.01, 0.92, 1.10, 1.02},
		[]float64{0.99, 1.02, 1.00, 1.01, 1.03, 0.98, 1.00},
	)
	ctx := context.Background()
	seq, err := Simulate(ctx, rs, strategy.Spec{Name: "universal"}, 0)
	require.NoError(t, err)
	par, err := Simulate(ctx, rs, strategy.Spec{Name: "universal", Params: map[string]any{"workers": 4}}, 0)
	require.NoError(t, err)
	lat, err := Simulate(ctx, rs, strategy.Spec{Name: "lattice"}, 0)
	require.NoError(t, err)

	assert.Equal(t, seq.Universal, par.Universal)
	assert.Equal(t, seq.Universal, lat.Universal)
}

func TestSimulate_Errors(t *testing.T) {
	rs := scenario(t)
	ctx := context.Background()

	_, err := Simulate(ctx, rs, strategy.Spec{}, 5)
	assert.ErrorIs(t, err, model.ErrUndefinedDay)

	_, err = Simulate(ctx, rs, strategy.Spec{Name: "nope"}, 1)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = Simulate(ctx, nil, strategy.Spec{}, 1)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestBenchmark(t *testing.T) {
	rs := returns(t, []string{"a", "b"},
		[]float64{1.03, 0.95, 1.07, 1.01},
		[]float64{0.99, 1.02, 1.00, 1.01},
	)
	results, err := Benchmark(context.Background(), rs, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "universal", results[0].Strategy)
	assert.Equal(t, "best_constant", results[1].Strategy)
	assert.GreaterOrEqual(t, results[1].FinalWealth, results[0].FinalWealth)

	three := returns(t, []string{"a", "b", "c"},
		[]float64{1.01, 1.02}, []float64{0.99, 1.0}, []float64{1.0, 1.03})
	results, err = Benchmark(context.Background(), three, 4)
	require.NoError(t, err)
	assert.Equal(t, "lattice", results[0].Strategy)
}
