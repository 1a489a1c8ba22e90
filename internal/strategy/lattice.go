package strategy

import (
	"fmt"
	"math"
	"sync"

	"universal-portfolio/internal/model"
)

// MaxLatticePoints caps the simplex grid size, C(Q+N-1, N-1).
const MaxLatticePoints = 1_000_000

// Lattice is the universal portfolio for any number of assets.
//
// The simplex is sampled at every composition of Q into N nonnegative parts
// (w = c/Q). For N=2 the points and their order match Universal, and the
// result is bit-identical.
//
// A running wealth product per grid point is carried across days, so a
// sequential run over n days costs O(points*n) instead of O(points*n^2).
// Asking for an earlier day than the last one rebuilds the products from day 0.
type Lattice struct {
	returns *model.ReturnSeries
	q       int
	grid    []model.WeightVector

	mu      sync.Mutex
	wealth  []float64
	through int
}

func NewLattice(returns *model.ReturnSeries, quantization int) (*Lattice, error) {
	if returns == nil {
		return nil, fmt.Errorf("%w: return series is nil", model.ErrInvalidInput)
	}
	if returns.Assets() < 2 {
		return nil, fmt.Errorf("%w: lattice needs at least 2 assets, got %d",
			model.ErrAssetCountUnsupported, returns.Assets())
	}
	if quantization <= 0 {
		quantization = DefaultQuantization
	}
	grid, err := simplexLattice(returns.Assets(), quantization)
	if err != nil {
		return nil, err
	}
	l := &Lattice{
		returns: returns,
		q:       quantization,
		grid:    grid,
		wealth:  make([]float64, len(grid)),
	}
	l.reset()
	return l, nil
}

func (l *Lattice) Name() string { return "lattice" }

// Points is the number of grid points.
func (l *Lattice) Points() int { return len(l.grid) }

func (l *Lattice) Weights(day int) (model.WeightVector, error) {
	if err := checkDay(day, l.returns); err != nil {
		return model.WeightVector{}, err
	}
	n := l.returns.Assets()
	if day == 1 {
		return model.UniformWeights(n), nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	target := day - 1
	if target < l.through {
		l.reset()
	}
	for ; l.through < target; l.through++ {
		for g, w := range l.grid {
			l.wealth[g] *= l.returns.PortfolioReturn(l.through, w)
		}
	}

	numer := make([]float64, n-1)
	denom := 0.0
	for g, w := range l.grid {
		s := l.wealth[g]
		for e := range numer {
			numer[e] += w.At(e) * s
		}
		denom += s
	}
	return weightedAverage(numer, denom, day)
}

func (l *Lattice) reset() {
	for g := range l.wealth {
		l.wealth[g] = 1.0
	}
	l.through = 0
}

// simplexLattice enumerates w = c/q for every c in N^n with sum q.
// The first coordinate varies slowest; the last is 1 minus the others.
func simplexLattice(n, q int) ([]model.WeightVector, error) {
	if err := CheckQuantization(q); err != nil {
		return nil, err
	}
	size := 1
	for i := 1; i < n; i++ {
		size = size * (q + i) / i
		if size > MaxLatticePoints {
			return nil, fmt.Errorf("%w: simplex lattice for %d assets at quantization %d exceeds %d points",
				model.ErrInvalidInput, n, q, MaxLatticePoints)
		}
	}

	out := make([]model.WeightVector, 0, size)
	counts := make([]int, n-1)
	var walk func(pos, remaining int) error
	walk = func(pos, remaining int) error {
		if pos == n-1 {
			vals := make([]float64, n)
			used := 0.0
			for e, c := range counts {
				vals[e] = float64(c) / float64(q)
				used += vals[e]
			}
			vals[n-1] = math.Max(0, 1.0-used)
			w, err := model.NewWeightVector(vals...)
			if err != nil {
				return err
			}
			out = append(out, w)
			return nil
		}
		for c := 0; c <= remaining; c++ {
			counts[pos] = c
			if err := walk(pos+1, remaining-c); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(0, q); err != nil {
		return nil, err
	}
	return out, nil
}
