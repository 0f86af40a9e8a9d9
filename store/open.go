package store

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/rustyeddy/evalsim/config"
)

// OpenStorage builds the backend named by cfg.Type. "memory" returns nil:
// the session lives only as long as the process.
func OpenStorage(cfg config.StorageConfig) (Storage, error) {
	switch cfg.Type {
	case "memory", "":
		return nil, nil
	case "file":
		f, err := NewFile(cfg.Dir)
		if err != nil {
			return nil, err
		}
		return f, nil
	case "sqlite":
		db, err := NewSQLite(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("sqlite storage: %w", err)
		}
		return db, nil
	case "redis":
		ttl, err := cfg.ParseTTL()
		if err != nil {
			return nil, fmt.Errorf("storage ttl: %w", err)
		}
		return NewRedis(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, ttl), nil
	}
	return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
}
