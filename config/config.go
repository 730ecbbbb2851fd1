// Package config loads and validates the simulator configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bangperp/perpsim/market"
)

// Config represents the complete simulator configuration.
type Config struct {
	Account    AccountConfig    `json:"account" yaml:"account"`
	Markets    []market.Market  `json:"markets,omitempty" yaml:"markets,omitempty"`
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
	Journal    JournalConfig    `json:"journal" yaml:"journal"`
	Store      StoreConfig      `json:"store" yaml:"store"`
	Feed       FeedConfig       `json:"feed" yaml:"feed"`
	Logging    LoggingConfig    `json:"logging" yaml:"logging"`
}

// AccountConfig contains account initialization parameters.
type AccountConfig struct {
	StartingBalance float64 `json:"starting_balance" yaml:"starting_balance"`
}

// SimulationConfig contains price-walk parameters.
type SimulationConfig struct {
	TickInterval   string  `json:"tick_interval" yaml:"tick_interval"` // e.g. "2s"
	MaxMovePerTick float64 `json:"max_move_per_tick" yaml:"max_move_per_tick"`
	Seed           int64   `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// ParseInterval converts the tick interval string to a time.Duration.
func (sc SimulationConfig) ParseInterval() (time.Duration, error) {
	if sc.TickInterval == "" {
		return 0, nil
	}
	return time.ParseDuration(sc.TickInterval)
}

// JournalConfig contains trade-history parameters.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv", "sqlite" or "none"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// StoreConfig contains persistent-state parameters.
type StoreConfig struct {
	Type   string `json:"type" yaml:"type"` // "sqlite" or "memory"
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// FeedConfig controls the WebSocket live feed.
type FeedConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Addr    string `json:"addr,omitempty" yaml:"addr,omitempty"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `json:"level" yaml:"level"` // "debug", "info", "warn", "error"
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON.
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Account.StartingBalance <= 0 {
		return fmt.Errorf("account.starting_balance must be positive")
	}
	if len(c.Markets) == 0 {
		return fmt.Errorf("at least one market is required")
	}
	seen := map[string]bool{}
	for _, m := range c.Markets {
		if m.ID == "" || m.Symbol == "" {
			return fmt.Errorf("market id and symbol are required")
		}
		if seen[m.ID] {
			return fmt.Errorf("duplicate market id: %s", m.ID)
		}
		seen[m.ID] = true
		if m.BasePrice <= 0 {
			return fmt.Errorf("market %s: basePrice must be positive", m.ID)
		}
	}
	if c.Simulation.MaxMovePerTick < 0 || c.Simulation.MaxMovePerTick > 0.5 {
		return fmt.Errorf("simulation.max_move_per_tick must be in [0, 0.5]")
	}
	if _, err := c.Simulation.ParseInterval(); err != nil {
		return fmt.Errorf("simulation.tick_interval: %w", err)
	}
	switch c.Journal.Type {
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal trades_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	case "none":
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}
	switch c.Store.Type {
	case "sqlite":
		if c.Store.DBPath == "" {
			return fmt.Errorf("store db_path required for SQLite type")
		}
	case "memory":
	default:
		return fmt.Errorf("store.type must be 'sqlite' or 'memory'")
	}
	if c.Feed.Enabled && c.Feed.Addr == "" {
		return fmt.Errorf("feed.addr required when feed is enabled")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error")
	}
	return nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Default returns a configuration with sensible defaults: the built-in
// market set, a $10,000 starting balance and a 2s tick.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			StartingBalance: 10_000,
		},
		Markets: market.Defaults(),
		Simulation: SimulationConfig{
			TickInterval:   "2s",
			MaxMovePerTick: 0.005,
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./perpsim.sqlite",
		},
		Store: StoreConfig{
			Type:   "sqlite",
			DBPath: "./perpsim-state.sqlite",
		},
		Feed: FeedConfig{
			Enabled: false,
			Addr:    ":8787",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
