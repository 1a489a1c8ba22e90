package data

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// AssetInfo describes a price file found in a data directory.
type AssetInfo struct {
	Name  string `json:"name"`
	File  string `json:"file"`
	Count int    `json:"count"`
}

// ListAssets scans dir for *.txt price files. Files that fail to parse are
// reported as errors rather than skipped.
func ListAssets(dir string) ([]AssetInfo, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}
	sort.Strings(matches)

	out := make([]AssetInfo, 0, len(matches))
	for _, m := range matches {
		prices, err := LoadPriceFile(m)
		if err != nil {
			return nil, err
		}
		base := filepath.Base(m)
		out = append(out, AssetInfo{
			Name:  strings.TrimSuffix(base, ".txt"),
			File:  base,
			Count: len(prices),
		})
	}
	return out, nil
}
