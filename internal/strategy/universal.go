package strategy

import (
	"fmt"
	"math"

	"universal-portfolio/internal/model"
)

// DefaultQuantization is the number of grid intervals used when none is configured.
const DefaultQuantization = 20

// Universal is Cover's universal portfolio for exactly two assets.
//
// Weights for day k are the wealth-weighted average of all constant-rebalanced
// portfolios w(i) = (i/Q, 1-i/Q), i = 0..Q, each weighted by S(k-1, w(i)).
// This is a Riemann sum for the integral over the 1-simplex.
//
// Every call recomputes S(k-1, .) from scratch, O(Q*k). Universal holds no
// mutable state, so concurrent calls are safe. See Lattice for the
// incremental N-asset version.
type Universal struct {
	returns *model.ReturnSeries
	q       int
	grid    []model.WeightVector
}

func NewUniversal(returns *model.ReturnSeries, quantization int) (*Universal, error) {
	if returns == nil {
		return nil, fmt.Errorf("%w: return series is nil", model.ErrInvalidInput)
	}
	if returns.Assets() != 2 {
		return nil, fmt.Errorf("%w: universal quadrature needs 2 assets, got %d",
			model.ErrAssetCountUnsupported, returns.Assets())
	}
	if err := CheckQuantization(quantization); err != nil {
		return nil, err
	}
	if quantization <= 0 {
		quantization = DefaultQuantization
	}
	grid := make([]model.WeightVector, 0, quantization+1)
	for i := 0; i <= quantization; i++ {
		portion := float64(i) / float64(quantization)
		w, err := model.NewWeightVector(portion, 1.0-portion)
		if err != nil {
			return nil, fmt.Errorf("grid point %d: %w", i, err)
		}
		grid = append(grid, w)
	}
	return &Universal{returns: returns, q: quantization, grid: grid}, nil
}

func (u *Universal) Name() string { return "universal" }

func (u *Universal) Quantization() int { return u.q }

func (u *Universal) Weights(day int) (model.WeightVector, error) {
	if err := checkDay(day, u.returns); err != nil {
		return model.WeightVector{}, err
	}
	// No history yet: the integral reduces to the uniform prior.
	if day == 1 {
		return model.UniformWeights(2), nil
	}

	numer, denom := 0.0, 0.0
	for _, w := range u.grid {
		s, err := u.returns.Wealth(day-1, w)
		if err != nil {
			return model.WeightVector{}, err
		}
		numer += w.At(0) * s
		denom += s
	}
	return weightedAverage([]float64{numer}, denom, day)
}

// minNormal is the smallest normal float64. A subnormal integral has lost
// most of its mantissa, so the weights it would give are noise.
const minNormal = 0x1p-1022

// weightedAverage turns per-asset numerators (all assets but the last) and the
// shared denominator into a weight vector. The last component is 1 minus the
// others so the result sums to 1 by construction.
func weightedAverage(numer []float64, denom float64, day int) (model.WeightVector, error) {
	if denom < minNormal || math.IsNaN(denom) || math.IsInf(denom, 0) {
		return model.WeightVector{}, fmt.Errorf("%w: day %d wealth integral is %v",
			model.ErrDegenerateIntegral, day, denom)
	}
	vals := make([]float64, len(numer)+1)
	rest := 1.0
	for e, n := range numer {
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return model.WeightVector{}, fmt.Errorf("%w: day %d weighted sum for asset %d is %v",
				model.ErrDegenerateIntegral, day, e, n)
		}
		vals[e] = n / denom
		rest -= vals[e]
	}
	vals[len(numer)] = math.Max(0, rest)
	b, err := model.NewWeightVector(vals...)
	if err != nil {
		return model.WeightVector{}, fmt.Errorf("%w: day %d: %v", model.ErrDegenerateIntegral, day, err)
	}
	return b, nil
}
