package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"universal-portfolio/internal/analysis"
	"universal-portfolio/internal/backtest"
	"universal-portfolio/internal/config"
	"universal-portfolio/internal/data"
	"universal-portfolio/internal/model"
	"universal-portfolio/internal/report"
	"universal-portfolio/internal/store"
	"universal-portfolio/internal/strategy"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "simulate":
		err = cmdSimulate(os.Args[2:])
	case "rank":
		err = cmdRank(os.Args[2:])
	case "runs":
		err = cmdRuns(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli simulate --config examples/config.yaml [--out results/ledger.csv] [--chart results/wealth.png] [--db results/runs.db] [--quiet]")
	fmt.Println("  cli rank --config examples/config.yaml")
	fmt.Println("  cli runs --db results/runs.db [--limit 20]")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - simulate prints one progress line per day and the final wealth of each trajectory")
	fmt.Println("  - rank compares the universal portfolio with buy-and-hold and the best constant portfolio in hindsight")
}

func cmdSimulate(args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	outPath := fs.String("out", "", "Output CSV path (overrides output.csv)")
	chartPath := fs.String("chart", "", "Output PNG path (overrides output.chart)")
	dbPath := fs.String("db", "", "SQLite path to persist the run (overrides output.db)")
	quiet := fs.Bool("quiet", false, "Do not print per-day progress")
	_ = fs.Parse(args)

	if *cfgPath == "" {
		return fmt.Errorf("--config is required")
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	out := cfg.Output
	if *outPath != "" {
		out.CSV = *outPath
	}
	if *chartPath != "" {
		out.Chart = *chartPath
	}
	if *dbPath != "" {
		out.DB = *dbPath
	}

	returns, err := loadReturns(cfg)
	if err != nil {
		return err
	}

	var observers []backtest.Observer
	if !*quiet {
		observers = append(observers, report.NewProgressPrinter(os.Stdout))
	}
	res, err := backtest.Simulate(context.Background(), returns, strategy.Spec{
		Name:         cfg.Strategy.Name,
		Params:       cfg.Strategy.Params,
		Quantization: cfg.Quantization,
	}, cfg.Horizon, observers...)
	if err != nil {
		return err
	}

	sums, err := analysis.ResultSummaries(res, cfg.Capital)
	if err != nil {
		return err
	}
	printSummaries(os.Stdout, sums)

	if out.CSV != "" {
		if err := ensureDir(out.CSV); err != nil {
			return err
		}
		if err := backtest.WriteLedgerCSV(out.CSV, res); err != nil {
			return err
		}
		fmt.Printf("Wrote %d rows to %s\n", len(res.Ledger), out.CSV)
	}
	if out.Chart != "" {
		if err := ensureDir(out.Chart); err != nil {
			return err
		}
		if err := report.WriteWealthChart(out.Chart, res); err != nil {
			return err
		}
		fmt.Printf("Wrote chart to %s\n", out.Chart)
	}
	if out.DB != "" {
		if err := ensureDir(out.DB); err != nil {
			return err
		}
		db, err := store.OpenSQLite(out.DB)
		if err != nil {
			return err
		}
		defer db.Close()
		q := cfg.Quantization
		if q <= 0 {
			q = strategy.DefaultQuantization
		}
		run := store.NewRun(res, q, cfg.Capital)
		if err := db.Save(context.Background(), run); err != nil {
			return err
		}
		fmt.Printf("Saved run %s to %s\n", run.ID, out.DB)
	}
	return nil
}

func cmdRank(args []string) error {
	fs := flag.NewFlagSet("rank", flag.ExitOnError)
	cfgPath := fs.String("config", "", "Path to YAML config")
	_ = fs.Parse(args)

	if *cfgPath == "" {
		return fmt.Errorf("--config is required")
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}
	returns, err := loadReturns(cfg)
	if err != nil {
		return err
	}

	results, err := backtest.Benchmark(context.Background(), returns, cfg.Quantization)
	if err != nil {
		return err
	}
	best := results[len(results)-1].Ledger[0].Weights

	ranked, err := analysis.RankResults(results, cfg.Capital)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "rank\tname\tfinal wealth\tvalue\tannualized\tmax drawdown")
	for _, r := range ranked {
		fmt.Fprintf(tw, "%d\t%s\t%.6f\t%s\t%.2f%%\t%.2f%%\n",
			r.Rank, r.Name, r.FinalWealth, r.FinalValue.StringFixed(2),
			100*r.AnnualizedReturn, 100*r.MaxDrawdown)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Printf("best constant portfolio: %v\n", best.Values())
	return nil
}

func cmdRuns(args []string) error {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	dbPath := fs.String("db", "results/runs.db", "SQLite path")
	limit := fs.Int("limit", 20, "Maximum runs to list (0 = all)")
	_ = fs.Parse(args)

	db, err := store.OpenSQLite(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.List(context.Background(), *limit)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "id\tcreated\tstrategy\tassets\tdays\tQ\tfinal wealth")
	for _, r := range runs {
		final := 1.0
		if r.Result != nil {
			final = r.Result.FinalWealth
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%v\t%d\t%d\t%.6f\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Strategy, r.Assets,
			r.Horizon, r.Quantization, final)
	}
	return tw.Flush()
}

func loadReturns(cfg *config.Config) (*model.ReturnSeries, error) {
	assets := make([]data.Asset, len(cfg.Assets))
	for i, a := range cfg.Assets {
		assets[i] = data.Asset{Name: a.Name, File: a.File}
	}
	prices, err := data.LoadUniverse(cfg.DataDir, assets, cfg.Window)
	if err != nil {
		return nil, err
	}
	return model.ComputeReturns(prices)
}

func printSummaries(w io.Writer, sums []analysis.Summary) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "name\tfinal wealth\tvalue\tannualized\tvolatility\tmax drawdown")
	for _, s := range sums {
		fmt.Fprintf(tw, "%s\t%.6f\t%s\t%.2f%%\t%.4f\t%.2f%%\n",
			s.Name, s.FinalWealth, s.FinalValue.StringFixed(2),
			100*s.AnnualizedReturn, s.Volatility, 100*s.MaxDrawdown)
	}
	tw.Flush()
}

func ensureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
