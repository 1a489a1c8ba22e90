package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"universal-portfolio/internal/model"
)

// TradingDaysPerYear annualizes daily growth.
const TradingDaysPerYear = 252

// Summary describes one cumulative-wealth trajectory.
// Wealth values are relative to a starting wealth of 1.
type Summary struct {
	Name string `json:"name"`
	Days int    `json:"days"`

	FinalWealth float64 `json:"final_wealth"`
	TotalReturn float64 `json:"total_return"`

	// MeanLogGrowth is the average of ln(day return), the quantity the
	// universal portfolio is known to track asymptotically.
	MeanLogGrowth    float64 `json:"mean_log_growth"`
	AnnualizedReturn float64 `json:"annualized_return"`
	Volatility       float64 `json:"volatility"`
	MaxDrawdown      float64 `json:"max_drawdown"`

	BestDay  float64 `json:"best_day"`
	WorstDay float64 `json:"worst_day"`
	P05Day   float64 `json:"p05_day"`
	P95Day   float64 `json:"p95_day"`

	// FinalValue is capital * FinalWealth, rounded to cents.
	FinalValue decimal.Decimal `json:"final_value"`
}

// ComputeSummary summarizes a trajectory whose entry t is wealth after day t+1.
// An empty trajectory yields a summary of the initial state. Every wealth
// value must be positive and finite.
func ComputeSummary(name string, trajectory []float64, capital float64) (Summary, error) {
	s := Summary{Name: name, Days: len(trajectory), FinalWealth: 1}
	if math.IsNaN(capital) || math.IsInf(capital, 0) {
		return Summary{}, fmt.Errorf("%w: capital %v is not finite", model.ErrInvalidInput, capital)
	}
	base := decimal.NewFromFloat(capital)
	if len(trajectory) == 0 {
		s.FinalValue = base.Round(2)
		return s, nil
	}

	daily := make([]float64, len(trajectory))
	logs := make([]float64, len(trajectory))
	prev := 1.0
	peak := 1.0
	for t, w := range trajectory {
		if !(w > 0) || math.IsInf(w, 0) {
			return Summary{}, fmt.Errorf("%w: %s wealth after day %d is %v, outside float64 range",
				model.ErrInvalidInput, name, t+1, w)
		}
		ratio := w / prev
		if !(ratio > 0) || math.IsInf(ratio, 0) {
			return Summary{}, fmt.Errorf("%w: %s return on day %d is %v, outside float64 range",
				model.ErrInvalidInput, name, t+1, ratio)
		}
		daily[t] = ratio - 1
		logs[t] = math.Log(ratio)
		if w > peak {
			peak = w
		}
		if dd := (peak - w) / peak; dd > s.MaxDrawdown {
			s.MaxDrawdown = dd
		}
		prev = w
	}

	s.FinalWealth = trajectory[len(trajectory)-1]
	s.TotalReturn = s.FinalWealth - 1
	s.MeanLogGrowth = stat.Mean(logs, nil)
	s.AnnualizedReturn = math.Exp(s.MeanLogGrowth*TradingDaysPerYear) - 1
	if len(daily) > 1 {
		_, s.Volatility = stat.MeanStdDev(daily, nil)
	}

	sorted := append([]float64(nil), daily...)
	sort.Float64s(sorted)
	s.WorstDay = sorted[0]
	s.BestDay = sorted[len(sorted)-1]
	s.P05Day = percentileSorted(sorted, 0.05)
	s.P95Day = percentileSorted(sorted, 0.95)

	s.FinalValue = base.Mul(decimal.NewFromFloat(s.FinalWealth)).Round(2)
	return s, nil
}

func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	// Linear interpolation between order stats.
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
