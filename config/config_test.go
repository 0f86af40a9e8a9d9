package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/evalsim/market"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, "file", cfg.Storage.Type)
	assert.True(t, cfg.Rules.AdvancePhase)
	assert.Equal(t, 0.6, cfg.Rules.WinProbability)
	assert.Equal(t, "Demo Trader", cfg.Profile.Name)
	assert.NoError(t, cfg.Validate())

	fees := cfg.Rules.Fees()
	assert.Equal(t, market.Rupees(7), fees.CommissionPerLot)
	assert.Equal(t, market.Rupees(10), fees.PipValuePerLot)
	assert.True(t, cfg.Rules.Policy().AdvancePhase)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"valid config", func(*Config) {}, ""},
		{"memory storage", func(c *Config) { c.Storage = StorageConfig{Type: "memory"} }, ""},
		{"unknown storage", func(c *Config) { c.Storage.Type = "etcd" }, "storage.type must be"},
		{"file without dir", func(c *Config) { c.Storage.Dir = "" }, "storage.dir required"},
		{"sqlite without path", func(c *Config) { c.Storage = StorageConfig{Type: "sqlite"} }, "storage.db_path required"},
		{"redis without addr", func(c *Config) { c.Storage = StorageConfig{Type: "redis"} }, "storage.redis_addr required"},
		{"bad ttl", func(c *Config) { c.Storage.TTL = "soon" }, "storage.ttl"},
		{"negative ttl", func(c *Config) { c.Storage.TTL = "-1h" }, "storage.ttl"},
		{"no journal", func(c *Config) { c.Journal = JournalConfig{Type: "none"} }, ""},
		{"csv journal missing files", func(c *Config) { c.Journal = JournalConfig{Type: "csv", TradesFile: "t.csv"} }, "trades_file and equity_file"},
		{"sqlite journal missing path", func(c *Config) { c.Journal.DBPath = "" }, "journal db_path required"},
		{"unknown journal", func(c *Config) { c.Journal.Type = "kafka" }, "journal.type must be"},
		{"win probability", func(c *Config) { c.Rules.WinProbability = 1.5 }, "rules.win_probability"},
		{"negative commission", func(c *Config) { c.Rules.CommissionPerLot = -1 }, "rules.commission_per_lot"},
		{"zero pip value", func(c *Config) { c.Rules.PipValuePerLot = 0 }, "rules.pip_value_per_lot"},
		{"log encoding", func(c *Config) { c.Log.Encoding = "xml" }, "log.encoding"},
		{"log level", func(c *Config) { c.Log.Level = "trace" }, "log.level"},
		{"server addr", func(c *Config) { c.Server.Addr = "" }, "server.addr is required"},
		{"profile name", func(c *Config) { c.Profile.Name = "" }, "profile.name is required"},
		{"unknown symbol", func(c *Config) { c.Simulation.Symbol = "DOGE" }, "unknown symbol"},
		{"too many lots", func(c *Config) { c.Simulation.Lots = 500 }, "simulation.lots"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
		{"yml format", ".yml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Storage = StorageConfig{Type: "redis", RedisAddr: "localhost:6379", TTL: "24h"}
			cfg.Simulation.Seed = 42
			path := filepath.Join(tmpDir, "test"+tt.ext)

			require.NoError(t, cfg.SaveToFile(path))
			_, err := os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)

			ttl, err := loaded.Storage.ParseTTL()
			require.NoError(t, err)
			assert.Equal(t, 24*time.Hour, ttl)
		})
	}
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("simulation:\n  seed: 7\n  lots: 2\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Simulation.Seed)
	assert.Equal(t, 2.0, cfg.Simulation.Lots)
	assert.Equal(t, "NIFTY", cfg.Simulation.Symbol)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.True(t, cfg.Rules.AdvancePhase)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  type: etcd\n"), 0644))
	_, err = LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}
