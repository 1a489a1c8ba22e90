package model

import (
	"encoding/json"
	"fmt"
	"math"
)

// SimplexTolerance bounds how far a weight vector's sum may drift from 1.
const SimplexTolerance = 1e-9

// WeightVector is a fractional capital allocation across the asset universe.
// Values are nonnegative and sum to 1; this is checked once, at construction.
type WeightVector struct {
	w []float64
}

func NewWeightVector(values ...float64) (WeightVector, error) {
	if len(values) == 0 {
		return WeightVector{}, fmt.Errorf("%w: weight vector is empty", ErrInvalidInput)
	}
	sum := 0.0
	for i, v := range values {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return WeightVector{}, fmt.Errorf("%w: weight[%d]=%v must be >= 0 and finite", ErrInvalidInput, i, v)
		}
		sum += v
	}
	if math.Abs(sum-1) > SimplexTolerance {
		return WeightVector{}, fmt.Errorf("%w: weights sum to %v, want 1", ErrInvalidInput, sum)
	}
	w := make([]float64, len(values))
	copy(w, values)
	return WeightVector{w: w}, nil
}

// UniformWeights returns (1/n, ..., 1/n).
func UniformWeights(n int) WeightVector {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1.0 / float64(n)
	}
	return WeightVector{w: w}
}

func (b WeightVector) Len() int { return len(b.w) }

func (b WeightVector) At(i int) float64 { return b.w[i] }

// Values returns a copy of the weights.
func (b WeightVector) Values() []float64 {
	out := make([]float64, len(b.w))
	copy(out, b.w)
	return out
}

func (b WeightVector) MarshalJSON() ([]byte, error) {
	if b.w == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(b.w)
}

func (b *WeightVector) UnmarshalJSON(raw []byte) error {
	var vals []float64
	if err := json.Unmarshal(raw, &vals); err != nil {
		return err
	}
	if len(vals) == 0 {
		*b = WeightVector{}
		return nil
	}
	v, err := NewWeightVector(vals...)
	if err != nil {
		return err
	}
	*b = v
	return nil
}
