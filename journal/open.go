package journal

import (
	"fmt"

	"github.com/rustyeddy/evalsim/config"
)

// Open creates the journal named by cfg.Type.
func Open(cfg config.JournalConfig) (Journal, error) {
	switch cfg.Type {
	case "none", "":
		return Discard{}, nil
	case "csv":
		j, err := NewCSV(cfg.TradesFile, cfg.EquityFile)
		if err != nil {
			return nil, fmt.Errorf("open csv journal: %w", err)
		}
		return j, nil
	case "sqlite":
		j, err := NewSQLite(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite journal: %w", err)
		}
		return j, nil
	}
	return nil, fmt.Errorf("unknown journal type %q", cfg.Type)
}
