package cli

import (
	"github.com/pkg/errors"

	"ltask/internal/config"
	"ltask/internal/storage"
	"ltask/internal/storage/filekv"
	"ltask/internal/storage/sqlitekv"
)

// OpenBackend is the production BackendFactory: it opens the file or SQLite
// backend at cfg.StorePath().
func OpenBackend(cfg *config.Config) (storage.Backend, error) {
	if err := cfg.EnsureDir(); err != nil {
		return nil, errors.Wrap(err, "create config directory")
	}
	switch cfg.Backend {
	case config.BackendSQLite:
		return sqlitekv.Open(cfg.StorePath())
	case config.BackendFile, "":
		return filekv.Open(cfg.StorePath())
	default:
		return nil, errors.Errorf("unknown backend: %s", cfg.Backend)
	}
}
