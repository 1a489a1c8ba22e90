package strategy

import (
	"fmt"

	"universal-portfolio/internal/model"
)

// Strategy supplies the weight vector to hold during a trading day.
// Day k uses only information available through day k-1.
type Strategy interface {
	Name() string
	Weights(day int) (model.WeightVector, error)
}

// checkDay enforces 1 <= day <= days+1: weights for day k integrate over the
// first k-1 realized returns, so k-1 may not exceed the number of returns.
func checkDay(day int, returns *model.ReturnSeries) error {
	if day < 1 {
		return fmt.Errorf("%w: weights are undefined on day %d", model.ErrUndefinedDay, day)
	}
	if day-1 > returns.Days() {
		return fmt.Errorf("%w: weights for day %d need %d returns, have %d",
			model.ErrUndefinedDay, day, day-1, returns.Days())
	}
	return nil
}

// CheckQuantization rejects grids that cannot fit under MaxLatticePoints even
// for two assets. Zero and negative values select DefaultQuantization.
func CheckQuantization(q int) error {
	if q >= MaxLatticePoints {
		return fmt.Errorf("%w: quantization %d must be below %d",
			model.ErrInvalidInput, q, MaxLatticePoints)
	}
	return nil
}
