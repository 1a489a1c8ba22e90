package analysis

import (
	"fmt"
	"sort"

	"universal-portfolio/internal/backtest"
	"universal-portfolio/internal/model"
)

// RankedSummary is a Summary with its 1-based position.
type RankedSummary struct {
	Rank int `json:"rank"`
	Summary
}

// RankByFinalWealth summarizes each trajectory and sorts descending by final
// wealth. Ties are broken by name so the order is deterministic.
func RankByFinalWealth(byName map[string][]float64, capital float64) ([]RankedSummary, error) {
	out := make([]RankedSummary, 0, len(byName))
	for name, path := range byName {
		s, err := ComputeSummary(name, path, capital)
		if err != nil {
			return nil, err
		}
		out = append(out, RankedSummary{Summary: s})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FinalWealth != out[j].FinalWealth {
			return out[i].FinalWealth > out[j].FinalWealth
		}
		return out[i].Name < out[j].Name
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out, nil
}

// ResultSummaries returns the strategy's summary followed by one per asset
// baseline, in asset order.
func ResultSummaries(res *backtest.Result, capital float64) ([]Summary, error) {
	if res == nil {
		return nil, fmt.Errorf("%w: result is nil", model.ErrInvalidInput)
	}
	out := make([]Summary, 0, len(res.Assets)+1)
	s, err := ComputeSummary(res.Strategy, res.Universal, capital)
	if err != nil {
		return nil, err
	}
	out = append(out, s)
	for _, a := range res.Assets {
		s, err := ComputeSummary(a, res.Baselines[a], capital)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Trajectories flattens a result into name -> path for ranking.
func Trajectories(res *backtest.Result) map[string][]float64 {
	out := make(map[string][]float64, len(res.Assets)+1)
	out[res.Strategy] = res.Universal
	for _, a := range res.Assets {
		out[a] = res.Baselines[a]
	}
	return out
}

// RankResults ranks several strategies run on the same returns together with
// the buy-and-hold baselines of the first result.
func RankResults(results []*backtest.Result, capital float64) ([]RankedSummary, error) {
	paths := map[string][]float64{}
	for i, res := range results {
		if res == nil {
			continue
		}
		if i == 0 {
			paths = Trajectories(res)
			continue
		}
		paths[res.Strategy] = res.Universal
	}
	return RankByFinalWealth(paths, capital)
}
