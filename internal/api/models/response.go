package models

import (
	"time"

	"universal-portfolio/internal/analysis"
	"universal-portfolio/internal/backtest"
	"universal-portfolio/internal/model"
)

// SimulateResponse represents the response from a simulation run
type SimulateResponse struct {
	ID       string               `json:"id,omitempty"`
	Status   string               `json:"status"`
	Summary  SimulateSummary      `json:"summary"`
	Rankings []Ranking            `json:"rankings"`
	Ledger   []backtest.LedgerRow `json:"ledger,omitempty"`
}

// SimulateSummary contains aggregated results
type SimulateSummary struct {
	Strategy      string             `json:"strategy"`
	Assets        []string           `json:"assets"`
	Days          int                `json:"days"`
	Quantization  int                `json:"quantization"`
	FinalWeights  model.WeightVector `json:"final_weights"`
	FinalStanding model.Standing     `json:"final_standing"`
	Portfolio     analysis.Summary   `json:"portfolio"`
	Baselines     []analysis.Summary `json:"baselines"`
}

// Ranking represents one ranked trajectory
type Ranking struct {
	Rank             int     `json:"rank"`
	Name             string  `json:"name"`
	FinalWealth      float64 `json:"final_wealth"`
	FinalValue       string  `json:"final_value"`
	AnnualizedReturn float64 `json:"annualized_return"`
	MaxDrawdown      float64 `json:"max_drawdown"`
}

// LedgerResponse is a stored run's ledger
type LedgerResponse struct {
	ID     string               `json:"id"`
	Assets []string             `json:"assets"`
	Ledger []backtest.LedgerRow `json:"ledger"`
}

// CompareResponse represents the response from a comparison
type CompareResponse struct {
	Comparison []ComparisonResult `json:"comparison"`
	Baselines  []analysis.Summary `json:"baselines"`
}

// ComparisonResult contains results for one variation
type ComparisonResult struct {
	Name    string           `json:"name"`
	ID      string           `json:"id,omitempty"`
	Summary analysis.Summary `json:"summary"`
	Error   *ErrorDetail     `json:"error,omitempty"`
}

// RankResponse represents the response from ranking
type RankResponse struct {
	Rankings []Ranking `json:"rankings"`
	// BestConstant is the hindsight-optimal constant portfolio on the grid.
	BestConstant model.WeightVector `json:"best_constant"`
}

// RunInfo describes a stored run without its ledger
type RunInfo struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Strategy     string    `json:"strategy"`
	Assets       []string  `json:"assets"`
	Horizon      int       `json:"horizon"`
	Quantization int       `json:"quantization"`
	FinalWealth  float64   `json:"final_wealth"`
}

// StrategyInfo represents information about a strategy
type StrategyInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ParameterInfo `json:"parameters"`
}

// ParameterInfo describes a strategy parameter
type ParameterInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"` // "float", "int", "float[]"
	Description string      `json:"description"`
	Default     interface{} `json:"default,omitempty"`
}

// AssetInfo represents a price file available to the file data source
type AssetInfo struct {
	Name  string `json:"name"`
	File  string `json:"file"`
	Count int    `json:"count"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RankingsFrom converts analysis rankings for the wire.
func RankingsFrom(ranked []analysis.RankedSummary) []Ranking {
	out := make([]Ranking, len(ranked))
	for i, r := range ranked {
		out[i] = Ranking{
			Rank:             r.Rank,
			Name:             r.Name,
			FinalWealth:      r.FinalWealth,
			FinalValue:       r.FinalValue.StringFixed(2),
			AnnualizedReturn: r.AnnualizedReturn,
			MaxDrawdown:      r.MaxDrawdown,
		}
	}
	return out
}
