package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/evalsim/market"
	"github.com/rustyeddy/evalsim/risk"
	"github.com/rustyeddy/evalsim/sim"
)

// Config is the complete simulator configuration.
type Config struct {
	Storage    StorageConfig    `json:"storage" yaml:"storage"`
	Journal    JournalConfig    `json:"journal" yaml:"journal"`
	Rules      RulesConfig      `json:"rules" yaml:"rules"`
	Log        LogConfig        `json:"log" yaml:"log"`
	Server     ServerConfig     `json:"server" yaml:"server"`
	Profile    ProfileConfig    `json:"profile" yaml:"profile"`
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`
}

// StorageConfig selects where the session state lives.
type StorageConfig struct {
	Type string `json:"type" yaml:"type"` // "memory", "file", "sqlite" or "redis"
	Key  string `json:"key,omitempty" yaml:"key,omitempty"`

	Dir    string `json:"dir,omitempty" yaml:"dir,omitempty"`
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`

	RedisAddr     string `json:"redis_addr,omitempty" yaml:"redis_addr,omitempty"`
	RedisPassword string `json:"redis_password,omitempty" yaml:"redis_password,omitempty"`
	RedisDB       int    `json:"redis_db,omitempty" yaml:"redis_db,omitempty"`
	TTL           string `json:"ttl,omitempty" yaml:"ttl,omitempty"` // e.g. "24h"; empty never expires
}

// ParseTTL converts the TTL string to a time.Duration.
func (s StorageConfig) ParseTTL() (time.Duration, error) {
	if s.TTL == "" {
		return 0, nil
	}
	return time.ParseDuration(s.TTL)
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// RulesConfig tunes trade economics and phase handling. Money is in rupees.
type RulesConfig struct {
	AdvancePhase     bool    `json:"advance_phase" yaml:"advance_phase"`
	WinProbability   float64 `json:"win_probability" yaml:"win_probability"`
	CommissionPerLot float64 `json:"commission_per_lot" yaml:"commission_per_lot"`
	PipValuePerLot   float64 `json:"pip_value_per_lot" yaml:"pip_value_per_lot"`
}

func (r RulesConfig) Policy() risk.Policy {
	return risk.Policy{AdvancePhase: r.AdvancePhase}
}

func (r RulesConfig) Fees() sim.Fees {
	return sim.Fees{
		CommissionPerLot: market.RupeesFloat(r.CommissionPerLot),
		PipValuePerLot:   market.RupeesFloat(r.PipValuePerLot),
	}
}

type LogConfig struct {
	Level       string `json:"level" yaml:"level"`       // debug, info, warn, error
	Encoding    string `json:"encoding" yaml:"encoding"` // json or console
	Development bool   `json:"development" yaml:"development"`
}

type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

// ProfileConfig seeds the trader profile of a fresh session.
type ProfileConfig struct {
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
}

type SimulationConfig struct {
	// Seed fixes the random stream; 0 seeds from the clock.
	Seed   int64   `json:"seed" yaml:"seed"`
	Symbol string  `json:"symbol" yaml:"symbol"`
	Lots   float64 `json:"lots" yaml:"lots"`
}

// LoadFromFile loads configuration from a file. Keys missing from the file
// keep their Default values.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		cfg = Default()
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", jerr)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes YAML for .yaml/.yml paths and indented JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
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

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case "memory":
	case "file":
		if c.Storage.Dir == "" {
			return fmt.Errorf("storage.dir required for file storage")
		}
	case "sqlite":
		if c.Storage.DBPath == "" {
			return fmt.Errorf("storage.db_path required for sqlite storage")
		}
	case "redis":
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("storage.redis_addr required for redis storage")
		}
	default:
		return fmt.Errorf("storage.type must be 'memory', 'file', 'sqlite' or 'redis'")
	}
	if ttl, err := c.Storage.ParseTTL(); err != nil || ttl < 0 {
		return fmt.Errorf("storage.ttl must be a non-negative duration")
	}

	switch c.Journal.Type {
	case "none":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal trades_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}

	if c.Rules.WinProbability < 0 || c.Rules.WinProbability > 1 {
		return fmt.Errorf("rules.win_probability must be between 0 and 1")
	}
	if c.Rules.CommissionPerLot < 0 {
		return fmt.Errorf("rules.commission_per_lot must not be negative")
	}
	if c.Rules.PipValuePerLot <= 0 {
		return fmt.Errorf("rules.pip_value_per_lot must be positive")
	}

	switch c.Log.Encoding {
	case "json", "console":
	default:
		return fmt.Errorf("log.encoding must be 'json' or 'console'")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error")
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Profile.Name == "" {
		return fmt.Errorf("profile.name is required")
	}
	if c.Simulation.Symbol != "" && !market.Known(c.Simulation.Symbol) {
		return fmt.Errorf("unknown symbol: %s", c.Simulation.Symbol)
	}
	if c.Simulation.Lots <= 0 || c.Simulation.Lots > sim.MaxLots {
		return fmt.Errorf("simulation.lots must be in (0, %g]", sim.MaxLots)
	}
	return nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	fees := sim.DefaultFees()
	return &Config{
		Storage: StorageConfig{
			Type: "file",
			Dir:  "./.evalsim",
		},
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./.evalsim/journal.db",
		},
		Rules: RulesConfig{
			AdvancePhase:     risk.DefaultPolicy().AdvancePhase,
			WinProbability:   sim.DefaultWinProbability,
			CommissionPerLot: fees.CommissionPerLot.Float64(),
			PipValuePerLot:   fees.PipValuePerLot.Float64(),
		},
		Log: LogConfig{
			Level:    "info",
			Encoding: "console",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Profile: ProfileConfig{
			Name:  "Demo Trader",
			Email: "demo@propfirm.in",
		},
		Simulation: SimulationConfig{
			Symbol: "NIFTY",
			Lots:   1,
		},
	}
}
