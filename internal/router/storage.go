package router

import (
	"fmt"
	"os"
	"path/filepath"

	mem "pet-market-engine/internal/adapters/storage/memory"
	pg "pet-market-engine/internal/adapters/storage/postgres"
	"pet-market-engine/internal/adapters/storage/sqlite"
	"pet-market-engine/internal/config"
	"pet-market-engine/internal/storage/kv"
)

// OpenStore elige el backend según storage.driver.
// El close devuelto siempre es no-nil.
func OpenStore(cfg *config.Config) (kv.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := pg.Open(cfg.Storage.DSN)
		if err != nil {
			return nil, noop, fmt.Errorf("open postgres: %w", err)
		}
		return pg.NewKVStore(db), db.Close, nil
	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.Storage.DSN); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, noop, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		s, err := sqlite.Open(cfg.Storage.DSN)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	case config.DriverMemory, "":
		return mem.NewStore(), noop, nil
	default:
		return nil, noop, fmt.Errorf("unsupported storage driver %q", cfg.Storage.Driver)
	}
}
