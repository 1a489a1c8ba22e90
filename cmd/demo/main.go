package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"

	"universal-portfolio/internal/analysis"
	"universal-portfolio/internal/backtest"
	"universal-portfolio/internal/data"
	"universal-portfolio/internal/model"
	"universal-portfolio/internal/report"
	"universal-portfolio/internal/strategy"
)

// Demo:
//   - Build a synthetic two-asset market: "cash" never moves, "volatile"
//     alternately doubles and halves (with optional noise)
//   - Run the universal portfolio over it and print the per-day progress lines
//   - Buy-and-hold makes nothing on either asset; rebalancing does
func main() {
	n := flag.Int("n", 20, "Number of days to simulate")
	q := flag.Int("q", strategy.DefaultQuantization, "Quantization (grid intervals)")
	noise := flag.Float64("noise", 0, "Relative noise on the volatile asset's moves (0 = none)")
	seed := flag.Int64("seed", 1, "Random seed for --noise")
	outCSV := flag.String("out", "", "Optional path to write ledger CSV (e.g. results/demo.csv)")
	outChart := flag.String("chart", "", "Optional path to write wealth chart PNG")
	flag.Parse()

	if *n < 1 {
		fmt.Fprintln(os.Stderr, "-n must be >= 1")
		os.Exit(2)
	}

	rng := rand.New(rand.NewSource(*seed))
	cash := make([]float64, *n+1)
	volatile := make([]float64, *n+1)
	cash[0], volatile[0] = 1, 1
	for t := 1; t <= *n; t++ {
		move := 2.0
		if t%2 == 0 {
			move = 0.5
		}
		if *noise > 0 {
			move *= 1 + *noise*(2*rng.Float64()-1)
		}
		cash[t] = 1
		volatile[t] = volatile[t-1] * move
	}

	prices, err := data.BuildUniverse([]string{"cash", "volatile"}, [][]float64{cash, volatile}, 0)
	if err != nil {
		panic(err)
	}
	returns, err := model.ComputeReturns(prices)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Synthetic market: %d days, Q=%d\n\n", returns.Days(), *q)
	res, err := backtest.Simulate(context.Background(), returns,
		strategy.Spec{Name: "universal", Quantization: *q}, 0,
		report.NewProgressPrinter(os.Stdout))
	if err != nil {
		panic(err)
	}

	sums, err := analysis.ResultSummaries(res, 1)
	if err != nil {
		panic(err)
	}
	fmt.Println()
	for _, s := range sums {
		fmt.Printf("%-10s final=%.6f  mean log growth=%.6f  max drawdown=%.2f%%\n",
			s.Name, s.FinalWealth, s.MeanLogGrowth, 100*s.MaxDrawdown)
	}

	if *outCSV != "" {
		if err := backtest.WriteLedgerCSV(*outCSV, res); err != nil {
			panic(err)
		}
		fmt.Printf("\nWrote CSV: %s\n", *outCSV)
	}
	if *outChart != "" {
		if err := report.WriteWealthChart(*outChart, res); err != nil {
			panic(err)
		}
		fmt.Printf("Wrote chart: %s\n", *outChart)
	}
}
