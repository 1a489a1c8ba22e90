package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"universal-portfolio/internal/strategy"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	DataDir string `yaml:"data_dir"`

	// Optional: load the asset list from a separate YAML (e.g. examples/universe.yaml).
	// Entries in Assets override file entries with the same name.
	AssetsFile string        `yaml:"assets_file"`
	Assets     []AssetConfig `yaml:"assets"`

	// Window is the number of most recent prices kept per asset. 0 keeps all.
	Window int `yaml:"window"`
	// Horizon is the number of simulated days. 0 means every available day.
	Horizon      int     `yaml:"horizon"`
	Quantization int     `yaml:"quantization"`
	Capital      float64 `yaml:"capital"`

	Strategy StrategyConfig `yaml:"strategy"`
	Output   OutputConfig   `yaml:"output"`
}

type AssetConfig struct {
	Name string `yaml:"name"`
	// File defaults to <name>.txt inside DataDir.
	File string `yaml:"file"`
}

type StrategyConfig struct {
	Name   string         `yaml:"name"`
	Params map[string]any `yaml:"params"`
}

type OutputConfig struct {
	CSV   string `yaml:"csv"`
	Chart string `yaml:"chart"`
	DB    string `yaml:"db"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if c.Strategy.Name == "" {
		c.Strategy.Name = "universal"
	}
	if c.Capital == 0 {
		c.Capital = 1
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	base := filepath.Dir(path)
	if c.AssetsFile != "" {
		loaded, err := loadAssetsFile(resolve(base, c.AssetsFile))
		if err != nil {
			return nil, err
		}
		c.Assets = MergeAssets(loaded, c.Assets)
	}
	if c.DataDir != "" {
		c.DataDir = resolve(base, c.DataDir)
	}
	return &c, nil
}

// resolve prefers interpreting relative paths as relative to the config file
// directory, but falls back to the provided path (relative to cwd) if that
// doesn't exist.
func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	cand := filepath.Join(base, p)
	if _, err := os.Stat(cand); err == nil {
		return cand
	}
	return p
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Strategy.Name == "" {
		return errors.New("strategy.name is required")
	}
	if len(c.Assets) == 0 {
		return errors.New("at least one asset is required")
	}
	seen := make(map[string]bool, len(c.Assets))
	for i, a := range c.Assets {
		if a.Name == "" {
			return fmt.Errorf("assets[%d].name is required", i)
		}
		if seen[a.Name] {
			return fmt.Errorf("asset %q listed twice", a.Name)
		}
		seen[a.Name] = true
	}
	if c.Window < 0 {
		return fmt.Errorf("window must be >= 0, got %d", c.Window)
	}
	if c.Window == 1 {
		return errors.New("window must keep at least 2 prices")
	}
	if c.Horizon < 0 {
		return fmt.Errorf("horizon must be >= 0, got %d", c.Horizon)
	}
	if c.Window > 0 && c.Horizon > c.Window-1 {
		return fmt.Errorf("horizon %d exceeds window-1 (%d)", c.Horizon, c.Window-1)
	}
	if c.Quantization < 0 || c.Quantization >= strategy.MaxLatticePoints {
		return fmt.Errorf("quantization must be in [0, %d), got %d", strategy.MaxLatticePoints, c.Quantization)
	}
	if c.Capital <= 0 {
		return fmt.Errorf("capital must be > 0, got %v", c.Capital)
	}
	return nil
}

// AssetNames returns the configured names in order.
func (c *Config) AssetNames() []string {
	out := make([]string, len(c.Assets))
	for i, a := range c.Assets {
		out[i] = a.Name
	}
	return out
}

type assetsFileWrapper struct {
	Assets []AssetConfig `yaml:"assets"`
}

func loadAssetsFile(path string) ([]AssetConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var w assetsFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return nil, err
	}
	return w.Assets, nil
}

// MergeAssets overlays override onto base. An override with the same name
// replaces the base file when it sets one; new names are appended in order.
func MergeAssets(base, override []AssetConfig) []AssetConfig {
	out := append([]AssetConfig(nil), base...)
	index := make(map[string]int, len(out))
	for i, a := range out {
		index[a.Name] = i
	}
	for _, a := range override {
		if i, ok := index[a.Name]; ok {
			if a.File != "" {
				out[i].File = a.File
			}
			continue
		}
		index[a.Name] = len(out)
		out = append(out, a)
	}
	return out
}
