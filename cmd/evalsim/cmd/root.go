package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/evalsim/config"
	"github.com/rustyeddy/evalsim/journal"
	"github.com/rustyeddy/evalsim/logger"
	"github.com/rustyeddy/evalsim/market"
	"github.com/rustyeddy/evalsim/sim"
	"github.com/rustyeddy/evalsim/store"
)

// defaultConfigFile is read when --config is not given and it exists.
const defaultConfigFile = "evalsim.yaml"

var rootCmd = &cobra.Command{
	Use:   "evalsim",
	Short: "A prop-firm evaluation challenge simulator",
	Long: `Evalsim simulates funded-trader evaluation accounts.

It provides tools for:
  - Creating one-step and two-step challenge accounts in INR
  - Executing simulated trades against synthetic prices
  - Enforcing daily and total drawdown limits and profit targets
  - Persisting the session to a file, SQLite or Redis
  - Journaling closed trades and equity snapshots
  - Serving the simulator over HTTP`,
	SilenceUsage: true,
}

var cfgFile string

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./"+defaultConfigFile+" if present)")
}

func loadConfig() (*config.Config, error) {
	path := cfgFile
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err != nil {
			return config.Default(), nil
		}
		path = defaultConfigFile
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// session is everything a command needs to work on the simulation state.
type session struct {
	cfg   *config.Config
	log   *zap.Logger
	store *store.Store
}

func openSession() (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	for _, p := range []string{cfg.Storage.Dir, parentDir(cfg.Storage.DBPath), parentDir(cfg.Journal.DBPath),
		parentDir(cfg.Journal.TradesFile), parentDir(cfg.Journal.EquityFile)} {
		if p == "" {
			continue
		}
		if err := os.MkdirAll(p, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", p, err)
		}
	}

	storage, err := store.OpenStorage(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	j, err := journal.Open(cfg.Journal)
	if err != nil {
		if storage != nil {
			storage.Close()
		}
		return nil, fmt.Errorf("open journal: %w", err)
	}

	s := sim.New(market.NewSource(cfg.Simulation.Seed))
	s.Policy = cfg.Rules.Policy()
	s.Fees = cfg.Rules.Fees()
	s.WinProbability = cfg.Rules.WinProbability

	st := store.New(store.Options{
		Storage:   storage,
		Key:       cfg.Storage.Key,
		Simulator: s,
		Journal:   j,
		Logger:    log,
		Profile: store.UserProfile{
			Name:  cfg.Profile.Name,
			Email: cfg.Profile.Email,
		},
	})
	return &session{cfg: cfg, log: log, store: st}, nil
}

func (s *session) Close() error {
	err := s.store.Close()
	_ = s.log.Sync()
	return err
}

func parentDir(path string) string {
	if path == "" {
		return ""
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return ""
	}
	return dir
}

var errNoSelection = errors.New("no account selected; create one or run 'evalsim account select <id>'")
