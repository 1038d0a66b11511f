// Package config provides application configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"landed-cost/internal/logging"
)

// RatesPathEnv overrides Rates.Path when set.
const RatesPathEnv = "LANDED_COST_RATES"

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Rates locates the rates table
	Rates RatesConfig `json:"rates"`

	// Calculation holds default calculation parameters
	Calculation CalculationConfig `json:"calculation"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Server contains HTTP server configuration
	Server ServerConfig `json:"server"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// RatesConfig locates the rates table.
type RatesConfig struct {
	// Path is a .json, .yaml or .hcl rates file; empty uses the built-in table
	Path string `json:"path"`
}

// CalculationConfig holds the defaults a calculation starts from
type CalculationConfig struct {
	ContainerID         string  `json:"container_id"`
	UtilizationTarget   float64 `json:"utilization_target"`
	ChinaWarehouseDays  int     `json:"china_warehouse_days"`
	OceanFreightPerCuft float64 `json:"ocean_freight_per_cuft"`
	InlandTrucking      float64 `json:"inland_trucking"`

	// Markup is the selling price multiple applied to unit cost when no price is given
	Markup float64 `json:"markup"`

	// TargetMargin is the gross margin the suggested price aims for
	TargetMargin float64 `json:"target_margin"`

	IncludeAmazon  bool `json:"include_amazon"`
	IncludeWalmart bool `json:"include_walmart"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format
	DefaultFormat string `json:"default_format"`

	// ShowDetails shows every cost line rather than totals only
	ShowDetails bool `json:"show_details"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Addr string `json:"addr"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Rates: RatesConfig{
			Path: os.Getenv(RatesPathEnv),
		},
		Calculation: CalculationConfig{
			ContainerID:         "40hc",
			UtilizationTarget:   0.90,
			ChinaWarehouseDays:  7,
			OceanFreightPerCuft: 2.00,
			InlandTrucking:      1200,
			Markup:              3,
			TargetMargin:        0.30,
			IncludeAmazon:       true,
			IncludeWalmart:      true,
		},
		Output: OutputConfig{
			DefaultFormat: "cli",
			ShowDetails:   true,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	config := Default()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, err
	}

	if env := os.Getenv(RatesPathEnv); env != "" {
		config.Rates.Path = env
	}

	return config, nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
