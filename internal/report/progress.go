package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"universal-portfolio/internal/backtest"
)

// ProgressPrinter writes one line per simulated day:
//
//	Day 01:	 Univ  1.015	 aapl  0.5  1.02	 nflx  0.5  1.01
//
// Day numbers below 10 are zero padded. Floats use the shortest exact form.
type ProgressPrinter struct {
	Out io.Writer
}

func NewProgressPrinter(out io.Writer) *ProgressPrinter {
	return &ProgressPrinter{Out: out}
}

func (p *ProgressPrinter) ObserveDay(assets []string, row backtest.LedgerRow) {
	fmt.Fprintln(p.Out, FormatDay(assets, row))
}

func FormatDay(assets []string, row backtest.LedgerRow) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Day %02d:\t Univ  %s", row.Day, num(row.Universal))
	for a, name := range assets {
		sb.WriteString("\t ")
		sb.WriteString(name)
		sb.WriteString("  ")
		sb.WriteString(num(row.Weights.At(a)))
		sb.WriteString("  ")
		sb.WriteString(num(row.Baselines[a]))
	}
	return sb.String()
}

func num(x float64) string { return strconv.FormatFloat(x, 'g', -1, 64) }
