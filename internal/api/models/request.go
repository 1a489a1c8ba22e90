package models

// SimulateRequest represents the request body for running a simulation
type SimulateRequest struct {
	DataSource DataSourceConfig `json:"data_source" binding:"required"`
	Config     SimulateConfig   `json:"config"`
	Options    SimulateOptions  `json:"options,omitempty"`
}

// DataSourceConfig defines where prices come from
type DataSourceConfig struct {
	Type   string   `json:"type" binding:"required"` // "file", "http" or "inline"
	Assets []string `json:"assets"`
	// Window keeps the most recent prices per asset. 0 = all.
	Window int `json:"window,omitempty"`

	// http uses the server's configured price source; requests cannot
	// choose the URL or credentials.

	// inline: oldest first, keyed by asset name
	Prices map[string][]float64 `json:"prices,omitempty"`
}

// SimulateConfig contains strategy and horizon configuration
type SimulateConfig struct {
	Strategy StrategyConfig `json:"strategy"`
	// Horizon is the number of simulated days. 0 = all available.
	Horizon      int     `json:"horizon,omitempty"`
	Quantization int     `json:"quantization,omitempty"`
	Capital      float64 `json:"capital,omitempty"`
}

// StrategyConfig defines strategy and its parameters
type StrategyConfig struct {
	Name   string                 `json:"name"`
	Params map[string]interface{} `json:"params,omitempty"`
}

// SimulateOptions contains optional simulation parameters
type SimulateOptions struct {
	IncludeLedger bool `json:"include_ledger,omitempty"` // default: false
}

// CompareRequest runs several strategy variations on one data source
type CompareRequest struct {
	DataSource DataSourceConfig `json:"data_source" binding:"required"`
	BaseConfig SimulateConfig   `json:"base_config"`
	Variations []Variation      `json:"variations" binding:"required"`
}

// Variation defines a variation to test
type Variation struct {
	Name   string         `json:"name" binding:"required"`
	Config SimulateConfig `json:"config"`
}

// RankRequest represents a request to rank assets and strategies over local files
type RankRequest struct {
	Assets       string  `form:"assets" binding:"required"` // comma-separated
	Window       int     `form:"window,omitempty"`
	Quantization int     `form:"quantization,omitempty"`
	Capital      float64 `form:"capital,omitempty"`
}
