package strategy

import (
	"fmt"

	"universal-portfolio/internal/model"
)

// Constant is a constant-rebalanced portfolio: the same weights every day.
type Constant struct {
	returns *model.ReturnSeries
	b       model.WeightVector
}

func NewConstant(returns *model.ReturnSeries, b model.WeightVector) (*Constant, error) {
	if returns == nil {
		return nil, fmt.Errorf("%w: return series is nil", model.ErrInvalidInput)
	}
	if b.Len() != returns.Assets() {
		return nil, fmt.Errorf("%w: %d weights for %d assets", model.ErrInvalidInput, b.Len(), returns.Assets())
	}
	return &Constant{returns: returns, b: b}, nil
}

func (c *Constant) Name() string { return "constant" }

func (c *Constant) Weights(day int) (model.WeightVector, error) {
	if err := checkDay(day, c.returns); err != nil {
		return model.WeightVector{}, err
	}
	return c.b, nil
}
