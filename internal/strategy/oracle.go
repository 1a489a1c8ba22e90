package strategy

import (
	"fmt"

	"universal-portfolio/internal/model"
)

// BestConstant is the best constant-rebalanced portfolio in hindsight.
// It looks at the whole horizon up-front, so it is a benchmark the universal
// portfolio is measured against rather than a tradable strategy.
//
// Candidates are the same simplex lattice Lattice integrates over; ties keep
// the earlier grid point.
type BestConstant struct {
	returns *model.ReturnSeries
	b       model.WeightVector
	wealth  float64
}

func NewBestConstant(returns *model.ReturnSeries, quantization, horizon int) (*BestConstant, error) {
	if returns == nil {
		return nil, fmt.Errorf("%w: return series is nil", model.ErrInvalidInput)
	}
	if horizon < 1 || horizon > returns.Days() {
		return nil, fmt.Errorf("%w: horizon %d outside [1, %d]", model.ErrUndefinedDay, horizon, returns.Days())
	}
	if quantization <= 0 {
		quantization = DefaultQuantization
	}
	grid, err := simplexLattice(returns.Assets(), quantization)
	if err != nil {
		return nil, err
	}

	best := -1.0
	var bestW model.WeightVector
	for _, w := range grid {
		s, err := returns.Wealth(horizon, w)
		if err != nil {
			return nil, err
		}
		if s > best {
			best = s
			bestW = w
		}
	}
	return &BestConstant{returns: returns, b: bestW, wealth: best}, nil
}

func (s *BestConstant) Name() string { return "best_constant" }

func (s *BestConstant) Weights(day int) (model.WeightVector, error) {
	if err := checkDay(day, s.returns); err != nil {
		return model.WeightVector{}, err
	}
	return s.b, nil
}

// Portfolio is the chosen constant weight vector.
func (s *BestConstant) Portfolio() model.WeightVector { return s.b }

// HindsightWealth is S(horizon, Portfolio()).
func (s *BestConstant) HindsightWealth() float64 { return s.wealth }
