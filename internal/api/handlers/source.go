package handlers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"universal-portfolio/internal/api/models"
	"universal-portfolio/internal/data"
	"universal-portfolio/internal/model"
)

// Sources resolves a request's data source into returns.
type Sources struct {
	DataDir string

	// PriceSourceURL and PriceAPIKey configure the http source. Empty
	// PriceSourceURL disables it.
	PriceSourceURL string
	PriceAPIKey    string

	// Cache is shared by every http source request. May be nil.
	Cache *data.PriceCache
}

// DefaultDataDir reads DATA_DIR, falling back to examples/data under the
// working directory.
func DefaultDataDir() string {
	dir := os.Getenv("DATA_DIR")
	if dir == "" {
		wd, err := os.Getwd()
		if err == nil {
			dir = filepath.Join(wd, "examples", "data")
		} else {
			dir = "./examples/data"
		}
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return dir
}

func (s *Sources) Returns(ctx context.Context, ds models.DataSourceConfig) (*model.ReturnSeries, error) {
	prices, err := s.prices(ctx, ds)
	if err != nil {
		return nil, err
	}
	return model.ComputeReturns(prices)
}

func (s *Sources) prices(ctx context.Context, ds models.DataSourceConfig) (*model.PriceSeries, error) {
	switch strings.ToLower(ds.Type) {
	case "file":
		if len(ds.Assets) == 0 {
			return nil, fmt.Errorf("%w: data_source.assets is required", model.ErrInvalidInput)
		}
		assets := make([]data.Asset, len(ds.Assets))
		for i, name := range ds.Assets {
			if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
				return nil, fmt.Errorf("%w: invalid asset name %q", model.ErrInvalidInput, name)
			}
			assets[i] = data.Asset{Name: name}
		}
		return data.LoadUniverse(s.DataDir, assets, ds.Window)
	case "http":
		if len(ds.Assets) == 0 {
			return nil, fmt.Errorf("%w: data_source.assets is required", model.ErrInvalidInput)
		}
		if s.PriceSourceURL == "" {
			return nil, fmt.Errorf("%w: http data source is not configured on this server", model.ErrInvalidInput)
		}
		client := data.NewPriceClient(s.PriceAPIKey, s.PriceSourceURL)
		client.Cache = s.Cache
		return client.FetchUniverse(ctx, ds.Assets, ds.Window)
	case "inline":
		names := ds.Assets
		if len(names) == 0 {
			for name := range ds.Prices {
				names = append(names, name)
			}
			sort.Strings(names)
		}
		series := make([][]float64, len(names))
		for i, name := range names {
			p, ok := ds.Prices[name]
			if !ok {
				return nil, fmt.Errorf("%w: no inline prices for asset %s", model.ErrInvalidInput, name)
			}
			series[i] = p
		}
		return data.BuildUniverse(names, series, ds.Window)
	default:
		return nil, fmt.Errorf("%w: unsupported data source type: %s", model.ErrInvalidInput, ds.Type)
	}
}
