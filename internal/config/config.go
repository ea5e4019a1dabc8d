// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"cloud-quote/core/engine"
	"cloud-quote/core/types"
	"cloud-quote/internal/errors"
	"cloud-quote/internal/logging"
)

// Catalog source kinds
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
)

// Environment overrides
const (
	EnvDatabaseURL = "CLOUD_QUOTE_DATABASE_URL"
	EnvLogLevel    = "CLOUD_QUOTE_LOG_LEVEL"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Engine contains the resolution defaults
	Engine EngineConfig `json:"engine"`

	// Catalog selects where catalog entries come from
	Catalog CatalogConfig `json:"catalog"`

	// Server contains HTTP server configuration
	Server ServerConfig `json:"server"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// History selects where recompute snapshots are kept
	History HistoryConfig `json:"history"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// EngineConfig contains the defaults applied when neither resource nor quote sets them
type EngineConfig struct {
	DefaultOptimizer   types.Optimizer   `json:"default_optimizer"`
	DefaultReservation types.Reservation `json:"default_reservation"`

	// DefaultRatePercent and DefaultDurationMonths form the fallback usage
	DefaultRatePercent    int `json:"default_rate_percent"`
	DefaultDurationMonths int `json:"default_duration_months"`

	// TermPrefixes are the accepted term prefixes, empty for all
	TermPrefixes []string `json:"term_prefixes,omitempty"`

	// CurrencyRate is applied to quotes that do not set one
	CurrencyRate decimal.Decimal `json:"currency_rate"`

	// Parallel bounds the categories resolved concurrently
	Parallel int `json:"parallel"`
}

// CatalogConfig contains catalog source settings
type CatalogConfig struct {
	// Source is "file" or "postgres"
	Source string `json:"source"`

	// Path is a catalog file or a directory of .hcl files
	Path string `json:"path"`

	// DatabaseURL is the PostgreSQL connection string
	DatabaseURL string `json:"database_url,omitempty"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr"`

	// Mode is the gin mode (debug, release, test)
	Mode string `json:"mode"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format
	DefaultFormat string `json:"default_format"`

	// MaxCandidates caps the candidates listed by a lookup
	MaxCandidates int `json:"max_candidates"`
}

// HistoryConfig contains snapshot storage settings
type HistoryConfig struct {
	// Backend is "memory" or "file"
	Backend string `json:"backend"`

	// Path is the directory of the file backend
	Path string `json:"path"`
}

// Default returns a default configuration
func Default() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Version: "1.0",
		Engine: EngineConfig{
			DefaultOptimizer:      types.OptimizerCost,
			DefaultReservation:    types.ReservationReserved,
			DefaultRatePercent:    100,
			DefaultDurationMonths: 1,
			CurrencyRate:          decimal.NewFromInt(1),
			Parallel:              4,
		},
		Catalog: CatalogConfig{
			Source: SourceFile,
			Path:   filepath.Join(homeDir, ".cloud-quote", "catalog"),
		},
		Server: ServerConfig{
			Addr: ":8080",
			Mode: "release",
		},
		Output: OutputConfig{
			DefaultFormat: "table",
			MaxCandidates: 10,
		},
		History: HistoryConfig{
			Backend: "file",
			Path:    filepath.Join(homeDir, ".cloud-quote", "history"),
		},
		Logging: logging.DefaultConfig(),
	}
}

// DefaultPath returns the default configuration file location
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".cloud-quote", "config.json")
}

// Load loads configuration from a file, then applies environment overrides
func Load(path string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, config); err != nil {
			return nil, errors.Config("invalid configuration file "+path, err)
		}
	case !os.IsNotExist(err):
		return nil, errors.Config("cannot read configuration file "+path, err)
	}

	config.ApplyEnv(os.Getenv)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyEnv overrides settings from the environment
func (c *Config) ApplyEnv(getenv func(string) string) {
	if url := getenv(EnvDatabaseURL); url != "" {
		c.Catalog.DatabaseURL = url
		c.Catalog.Source = SourcePostgres
	}
	if level := getenv(EnvLogLevel); level != "" {
		c.Logging.Level = strings.ToLower(level)
	}
}

// Validate checks the settings the engine cannot default
func (c *Config) Validate() error {
	if !c.Engine.DefaultOptimizer.IsValid() {
		return errors.Config("unknown optimizer "+string(c.Engine.DefaultOptimizer), nil)
	}
	if !c.Engine.DefaultReservation.IsValid() {
		return errors.Config("unknown reservation "+string(c.Engine.DefaultReservation), nil)
	}
	if c.Engine.CurrencyRate.IsNegative() {
		return errors.Config("currency rate must not be negative", nil)
	}
	switch c.Catalog.Source {
	case SourceFile:
	case SourcePostgres:
		if c.Catalog.DatabaseURL == "" {
			return errors.Config("postgres catalog requires a database url", nil)
		}
	default:
		return errors.Config("unknown catalog source "+c.Catalog.Source, nil)
	}
	return nil
}

// EngineConfig converts the engine section to the engine defaults
func (c *Config) EngineConfig() engine.Config {
	cfg := engine.DefaultConfig()
	if c.Engine.DefaultOptimizer != "" {
		cfg.DefaultOptimizer = c.Engine.DefaultOptimizer
	}
	if c.Engine.DefaultReservation != "" {
		cfg.DefaultReservation = c.Engine.DefaultReservation
	}
	if c.Engine.DefaultRatePercent > 0 {
		cfg.DefaultRatePercent = c.Engine.DefaultRatePercent
	}
	if c.Engine.DefaultDurationMonths > 0 {
		cfg.DefaultDurationMonths = c.Engine.DefaultDurationMonths
	}
	if c.Engine.Parallel > 0 {
		cfg.Parallel = c.Engine.Parallel
	}
	cfg.TermPrefixes = c.Engine.TermPrefixes
	return cfg
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
