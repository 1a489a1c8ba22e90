package model

import (
	"fmt"
	"math"
	"strings"
)

// AssetUniverse is the ordered set of traded assets.
// Its order indexes every per-asset vector and matrix in the system.
type AssetUniverse struct {
	names []string
}

func NewAssetUniverse(names ...string) (AssetUniverse, error) {
	if len(names) == 0 {
		return AssetUniverse{}, fmt.Errorf("%w: asset universe is empty", ErrInvalidInput)
	}
	seen := make(map[string]bool, len(names))
	out := make([]string, len(names))
	for i, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			return AssetUniverse{}, fmt.Errorf("%w: asset %d has no name", ErrInvalidInput, i)
		}
		if seen[n] {
			return AssetUniverse{}, fmt.Errorf("%w: duplicate asset %q", ErrInvalidInput, n)
		}
		seen[n] = true
		out[i] = n
	}
	return AssetUniverse{names: out}, nil
}

func (u AssetUniverse) Len() int { return len(u.names) }

func (u AssetUniverse) Name(i int) string { return u.names[i] }

// Names returns a copy of the asset names in universe order.
func (u AssetUniverse) Names() []string {
	out := make([]string, len(u.names))
	copy(out, u.names)
	return out
}

// PriceSeries holds D positive prices per asset, oldest first.
type PriceSeries struct {
	universe AssetUniverse
	rows     [][]float64
}

// NewPriceSeries validates and copies rows (one per asset, chronological ascending).
func NewPriceSeries(universe AssetUniverse, rows [][]float64) (*PriceSeries, error) {
	if err := checkRows(universe, rows, 2, "price"); err != nil {
		return nil, err
	}
	return &PriceSeries{universe: universe, rows: copyRows(rows)}, nil
}

func (p *PriceSeries) Universe() AssetUniverse { return p.universe }

// Days is D, the number of observations per asset.
func (p *PriceSeries) Days() int { return len(p.rows[0]) }

func (p *PriceSeries) At(asset, t int) float64 { return p.rows[asset][t] }

// ReturnSeries holds D-1 gross daily returns per asset:
// R[e][t] = price[e][t+1] / price[e][t].
type ReturnSeries struct {
	universe AssetUniverse
	rows     [][]float64
}

// NewReturnSeries builds a return series directly from gross returns.
func NewReturnSeries(universe AssetUniverse, rows [][]float64) (*ReturnSeries, error) {
	if err := checkRows(universe, rows, 1, "return"); err != nil {
		return nil, err
	}
	return &ReturnSeries{universe: universe, rows: copyRows(rows)}, nil
}

// ComputeReturns derives today/yesterday gross returns from a price series.
func ComputeReturns(prices *PriceSeries) (*ReturnSeries, error) {
	if prices == nil {
		return nil, fmt.Errorf("%w: price series is nil", ErrInvalidInput)
	}
	if err := checkRows(prices.universe, prices.rows, 2, "price"); err != nil {
		return nil, err
	}
	rows := make([][]float64, len(prices.rows))
	for e, row := range prices.rows {
		out := make([]float64, len(row)-1)
		for t := 0; t < len(row)-1; t++ {
			r := row[t+1] / row[t]
			if !(r > 0) || math.IsInf(r, 0) {
				return nil, fmt.Errorf("%w: %s return on day %d is %v (prices %v then %v)",
					ErrInvalidInput, prices.universe.Name(e), t+1, r, row[t], row[t+1])
			}
			out[t] = r
		}
		rows[e] = out
	}
	return &ReturnSeries{universe: prices.universe, rows: rows}, nil
}

func (r *ReturnSeries) Universe() AssetUniverse { return r.universe }

func (r *ReturnSeries) Assets() int { return len(r.rows) }

// Days is the number of realized returns per asset (D-1).
func (r *ReturnSeries) Days() int { return len(r.rows[0]) }

func (r *ReturnSeries) At(asset, t int) float64 { return r.rows[asset][t] }

// Row returns a copy of one asset's returns.
func (r *ReturnSeries) Row(asset int) []float64 {
	out := make([]float64, len(r.rows[asset]))
	copy(out, r.rows[asset])
	return out
}

func checkRows(universe AssetUniverse, rows [][]float64, minLen int, kind string) error {
	if universe.Len() == 0 {
		return fmt.Errorf("%w: asset universe is empty", ErrInvalidInput)
	}
	if len(rows) != universe.Len() {
		return fmt.Errorf("%w: %d %s rows for %d assets", ErrInvalidInput, len(rows), kind, universe.Len())
	}
	want := len(rows[0])
	if want < minLen {
		return fmt.Errorf("%w: need at least %d %ss per asset, got %d", ErrInvalidInput, minLen, kind, want)
	}
	for e, row := range rows {
		if len(row) != want {
			return fmt.Errorf("%w: asset %q has %d %ss, asset %q has %d",
				ErrInvalidInput, universe.Name(e), len(row), kind, universe.Name(0), want)
		}
		for t, v := range row {
			if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: asset %q %s[%d]=%v must be positive and finite",
					ErrInvalidInput, universe.Name(e), kind, t, v)
			}
		}
	}
	return nil
}

func copyRows(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		out[i] = make([]float64, len(row))
		copy(out[i], row)
	}
	return out
}
