package backtest

import (
	"fmt"

	"universal-portfolio/internal/model"
	"universal-portfolio/internal/strategy"
)

// Observer is told about every simulated day with the exact values the
// engine computed. Progress printing and similar reporting hook in here.
type Observer interface {
	ObserveDay(assets []string, row LedgerRow)
}

type Engine struct {
	observers []Observer
}

func New(observers ...Observer) *Engine { return &Engine{observers: observers} }

// Run simulates days 1..n. On day k the strategy's weights are applied to
// the returns realized on day k (zero-based index k-1), the universal wealth
// compounds by that day return, and each asset's buy-and-hold wealth
// compounds by its own return.
//
// A strategy error aborts the whole run.
func (e *Engine) Run(returns *model.ReturnSeries, strat strategy.Strategy, n int) (*Result, error) {
	if returns == nil {
		return nil, fmt.Errorf("%w: return series is nil", model.ErrInvalidInput)
	}
	if strat == nil {
		return nil, fmt.Errorf("%w: strategy is nil", model.ErrInvalidInput)
	}
	if n < 1 || n > returns.Days() {
		return nil, fmt.Errorf("%w: horizon %d outside [1, %d]", model.ErrUndefinedDay, n, returns.Days())
	}

	assets := returns.Universe().Names()
	numAssets := len(assets)

	ledger := make([]LedgerRow, 0, n)
	universalPath := make([]float64, 0, n)
	baselinePaths := make([][]float64, numAssets)
	for a := range baselinePaths {
		baselinePaths[a] = make([]float64, 0, n)
	}

	universal := 1.0
	baseline := make([]float64, numAssets)
	for a := range baseline {
		baseline[a] = 1.0
	}

	for k := 1; k <= n; k++ {
		bk, err := strat.Weights(k)
		if err != nil {
			return nil, fmt.Errorf("day %d weights: %w", k, err)
		}
		if bk.Len() != numAssets {
			return nil, fmt.Errorf("%w: day %d: strategy %s returned %d weights for %d assets",
				model.ErrInvalidInput, k, strat.Name(), bk.Len(), numAssets)
		}

		dayReturn := returns.PortfolioReturn(k-1, bk)
		universal *= dayReturn

		dayReturns := make([]float64, numAssets)
		for a := 0; a < numAssets; a++ {
			dayReturns[a] = returns.At(a, k-1)
			baseline[a] *= dayReturns[a]
			baselinePaths[a] = append(baselinePaths[a], baseline[a])
		}
		universalPath = append(universalPath, universal)

		snapshot := make([]float64, numAssets)
		copy(snapshot, baseline)
		row := LedgerRow{
			Day:       k,
			Weights:   bk,
			Returns:   dayReturns,
			DayReturn: dayReturn,
			Universal: universal,
			Baselines: snapshot,
			Standing:  model.StandingOf(universal, snapshot),
		}
		ledger = append(ledger, row)
		for _, o := range e.observers {
			o.ObserveDay(assets, row)
		}
	}

	byName := make(map[string][]float64, numAssets)
	for a, name := range assets {
		byName[name] = baselinePaths[a]
	}

	return &Result{
		Strategy:    strat.Name(),
		Assets:      assets,
		Ledger:      ledger,
		Universal:   universalPath,
		Baselines:   byName,
		FinalWealth: universal,
	}, nil
}
