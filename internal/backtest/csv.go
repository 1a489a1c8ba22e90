package backtest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

func WriteLedgerCSV(path string, res *Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := EncodeLedgerCSV(f, res); err != nil {
		return err
	}
	return f.Close()
}

// EncodeLedgerCSV writes one row per day:
// day, weight_<asset>..., day_return, universal_wealth, <asset>_wealth..., standing.
func EncodeLedgerCSV(out io.Writer, res *Result) error {
	if res == nil {
		return fmt.Errorf("result is nil")
	}
	w := csv.NewWriter(out)

	header := []string{"day"}
	for _, a := range res.Assets {
		header = append(header, "weight_"+a)
	}
	header = append(header, "day_return", "universal_wealth")
	for _, a := range res.Assets {
		header = append(header, a+"_wealth")
	}
	header = append(header, "standing")
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range res.Ledger {
		row := make([]string, 0, len(header))
		row = append(row, strconv.Itoa(r.Day))
		for a := range res.Assets {
			row = append(row, fmtFloat(r.Weights.At(a)))
		}
		row = append(row, fmtFloat(r.DayReturn), fmtFloat(r.Universal))
		for _, b := range r.Baselines {
			row = append(row, fmtFloat(b))
		}
		row = append(row, string(r.Standing))
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
