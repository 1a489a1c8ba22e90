package backtest

import "universal-portfolio/internal/model"

// LedgerRow is one simulated trading day.
// This is the primary artifact for "what happened" in a run.
type LedgerRow struct {
	Day int `json:"day"`

	// Weights held during the day, in asset order.
	Weights model.WeightVector `json:"weights"`

	// Returns are each asset's gross return for the day.
	Returns []float64 `json:"returns"`

	DayReturn float64 `json:"day_return"`
	Universal float64 `json:"universal"`

	// Baselines are per-asset buy-and-hold wealth after the day.
	Baselines []float64 `json:"baselines"`

	Standing model.Standing `json:"standing"`
}

type Result struct {
	Strategy string   `json:"strategy"`
	Assets   []string `json:"assets"`

	Ledger []LedgerRow `json:"ledger"`

	// Universal has one cumulative-wealth entry per day.
	Universal []float64 `json:"universal"`
	// Baselines maps asset name to its buy-and-hold trajectory.
	Baselines map[string][]float64 `json:"baselines"`

	FinalWealth float64 `json:"final_wealth"`
}

// Days is the simulated horizon.
func (r *Result) Days() int { return len(r.Ledger) }
