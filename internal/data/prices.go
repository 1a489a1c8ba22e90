package data

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"universal-portfolio/internal/model"
)

// Asset names one price series and where to read it from.
type Asset struct {
	Name string `json:"name"`
	// File is relative to the data directory. Empty means <Name>.txt.
	File string `json:"file,omitempty"`
}

func (a Asset) path(dir string) string {
	f := a.File
	if f == "" {
		f = a.Name + ".txt"
	}
	if filepath.IsAbs(f) {
		return f
	}
	return filepath.Join(dir, f)
}

// ParsePrices reads one price per line, most recent first, and returns the
// series oldest first. Blank lines are skipped. source names the input in errors.
func ParsePrices(r io.Reader, source string) ([]float64, error) {
	var newestFirst []float64
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: %q is not a number", model.ErrInvalidInput, source, line, text)
		}
		newestFirst = append(newestFirst, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}

	out := make([]float64, len(newestFirst))
	for i, v := range newestFirst {
		out[len(out)-1-i] = v
	}
	return out, nil
}

func LoadPriceFile(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParsePrices(f, path)
}

// LoadUniverse reads every asset's file from dir and aligns them into one
// price series.
func LoadUniverse(dir string, assets []Asset, window int) (*model.PriceSeries, error) {
	names := make([]string, len(assets))
	series := make([][]float64, len(assets))
	for i, a := range assets {
		prices, err := LoadPriceFile(a.path(dir))
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: asset %s: no price file at %s", model.ErrInvalidInput, a.Name, a.path(dir))
		}
		if err != nil {
			return nil, fmt.Errorf("asset %s: %w", a.Name, err)
		}
		names[i] = a.Name
		series[i] = prices
	}
	return BuildUniverse(names, series, window)
}

// BuildUniverse aligns oldest-first series into a PriceSeries. With window > 0
// only the most recent window prices of each series are kept and a shorter
// series is an error. With window == 0 all series must already be the same
// length.
func BuildUniverse(names []string, series [][]float64, window int) (*model.PriceSeries, error) {
	if len(names) != len(series) {
		return nil, fmt.Errorf("%w: %d names for %d series", model.ErrInvalidInput, len(names), len(series))
	}
	if window < 0 {
		return nil, fmt.Errorf("%w: window must be >= 0, got %d", model.ErrInvalidInput, window)
	}
	universe, err := model.NewAssetUniverse(names...)
	if err != nil {
		return nil, err
	}

	rows := make([][]float64, len(series))
	for i, s := range series {
		if window > 0 {
			if len(s) < window {
				return nil, fmt.Errorf("%w: asset %s has %d prices, window needs %d",
					model.ErrInvalidInput, names[i], len(s), window)
			}
			s = s[len(s)-window:]
		}
		rows[i] = s
	}
	return model.NewPriceSeries(universe, rows)
}

// SavePriceFile writes an oldest-first series in the on-disk format, most
// recent price on the first line.
func SavePriceFile(path string, prices []float64) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	var sb strings.Builder
	for i := len(prices) - 1; i >= 0; i-- {
		sb.WriteString(strconv.FormatFloat(prices[i], 'f', -1, 64))
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write price file: %w", err)
	}
	return nil
}
