package strategy

import (
	"context"
	"fmt"
	"strings"

	"universal-portfolio/internal/model"
)

// Spec names a strategy and its parameters, as read from config or a request.
type Spec struct {
	Name         string
	Params       map[string]any
	Quantization int
}

// Build constructs the strategy named by spec for a run of horizon days.
//
// Params:
//   - universal: workers (int, precompute days in parallel when > 0)
//   - constant: weights ([]float64, default uniform)
//   - lattice, best_constant: none
func Build(ctx context.Context, spec Spec, returns *model.ReturnSeries, horizon int) (Strategy, error) {
	if returns == nil {
		return nil, fmt.Errorf("%w: return series is nil", model.ErrInvalidInput)
	}
	switch strings.TrimSpace(spec.Name) {
	case "", "universal":
		u, err := NewUniversal(returns, spec.Quantization)
		if err != nil {
			return nil, err
		}
		workers := int(numParam(spec.Params, "workers", 0))
		if workers > 0 {
			return Precompute(ctx, u, horizon, workers)
		}
		return u, nil
	case "lattice":
		return NewLattice(returns, spec.Quantization)
	case "constant":
		vals, ok, err := floatsParam(spec.Params, "weights")
		if err != nil {
			return nil, err
		}
		b := model.UniformWeights(returns.Assets())
		if ok {
			if b, err = model.NewWeightVector(vals...); err != nil {
				return nil, fmt.Errorf("constant weights: %w", err)
			}
		}
		return NewConstant(returns, b)
	case "best_constant":
		return NewBestConstant(returns, spec.Quantization, horizon)
	default:
		return nil, fmt.Errorf("%w: unsupported strategy %q", model.ErrInvalidInput, spec.Name)
	}
}

func numParam(m map[string]any, key string, def float64) float64 {
	if v, ok := m[key]; ok && v != nil {
		if x, ok := toFloat(v); ok {
			return x
		}
	}
	return def
}

func floatsParam(m map[string]any, key string) ([]float64, bool, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, false, nil
	}
	switch xs := v.(type) {
	case []float64:
		return xs, true, nil
	case []any:
		out := make([]float64, 0, len(xs))
		for i, x := range xs {
			f, ok := toFloat(x)
			if !ok {
				return nil, false, fmt.Errorf("%w: %s[%d] is not a number", model.ErrInvalidInput, key, i)
			}
			out = append(out, f)
		}
		return out, true, nil
	default:
		return nil, false, fmt.Errorf("%w: %s must be a list of numbers", model.ErrInvalidInput, key)
	}
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	default:
		return 0, false
	}
}
