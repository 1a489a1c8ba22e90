package backtest

import (
	"context"
	"fmt"

	"universal-portfolio/internal/model"
	"universal-portfolio/internal/strategy"
)

// Simulate builds the strategy named by spec and runs it for horizon days.
// horizon 0 means every day the return series covers.
func Simulate(ctx context.Context, returns *model.ReturnSeries, spec strategy.Spec, horizon int, observers ...Observer) (*Result, error) {
	if returns == nil {
		return nil, fmt.Errorf("%w: return series is nil", model.ErrInvalidInput)
	}
	if horizon == 0 {
		horizon = returns.Days()
	}
	if horizon < 1 || horizon > returns.Days() {
		return nil, fmt.Errorf("%w: horizon %d outside [1, %d]", model.ErrUndefinedDay, horizon, returns.Days())
	}
	strat, err := strategy.Build(ctx, spec, returns, horizon)
	if err != nil {
		return nil, fmt.Errorf("build strategy %q: %w", spec.Name, err)
	}
	return New(observers...).Run(returns, strat, horizon)
}

// Benchmark runs the adaptive strategy over every day (universal for two
// assets, lattice otherwise) followed by the best constant portfolio in
// hindsight. The best constant result is last.
func Benchmark(ctx context.Context, returns *model.ReturnSeries, quantization int) ([]*Result, error) {
	if returns == nil {
		return nil, fmt.Errorf("%w: return series is nil", model.ErrInvalidInput)
	}
	adaptive := "universal"
	if returns.Assets() != 2 {
		adaptive = "lattice"
	}
	specs := []strategy.Spec{
		{Name: adaptive, Quantization: quantization},
		{Name: "best_constant", Quantization: quantization},
	}
	out := make([]*Result, 0, len(specs))
	for _, spec := range specs {
		res, err := Simulate(ctx, returns, spec, 0)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}
