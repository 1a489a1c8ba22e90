package model

import "fmt"

// PortfolioReturn is the one-day gross return of weights b on zero-based day t:
// sum over assets of b[e] * R[e][t].
func (r *ReturnSeries) PortfolioReturn(t int, b WeightVector) float64 {
	x := 0.0
	for e := range r.rows {
		x += b.At(e) * r.rows[e][t]
	}
	return x
}

// Wealth is S(n, b): the wealth, from unit capital, of the constant-rebalanced
// portfolio b after the first n trading days. S(0, b) = 1.
//
// Factors are multiplied in day order starting from 1.0, so
// S(n, b) == S(n-1, b) * PortfolioReturn(n-1, b) exactly.
func (r *ReturnSeries) Wealth(n int, b WeightVector) (float64, error) {
	if n < 0 || n > r.Days() {
		return 0, fmt.Errorf("%w: wealth for day %d, have %d days", ErrUndefinedDay, n, r.Days())
	}
	if b.Len() != r.Assets() {
		return 0, fmt.Errorf("%w: %d weights for %d assets", ErrInvalidInput, b.Len(), r.Assets())
	}
	s := 1.0
	for t := 0; t < n; t++ {
		s *= r.PortfolioReturn(t, b)
	}
	return s, nil
}
