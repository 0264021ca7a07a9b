package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/osse101/lotto/internal/config"
	"github.com/osse101/lotto/internal/database"
	"github.com/osse101/lotto/internal/database/bolt"
	"github.com/osse101/lotto/internal/database/postgres"
	"github.com/osse101/lotto/internal/handler"
	"github.com/osse101/lotto/internal/lotto"
)

// Storage is the opened persistence backend
type Storage struct {
	Repo   lotto.Repository
	Health handler.HealthChecker
	close  func() error
}

// Close releases the backend's connections or file lock
func (s *Storage) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// OpenStorage opens the backend selected by cfg.StorageDriver. Postgres
// gets its embedded migrations applied before the repository is returned.
func OpenStorage(ctx context.Context, cfg *config.Config) (*Storage, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverPostgres:
		pool, err := database.NewPool(cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenDatabase, err)
		}
		if err := database.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrate, err)
		}
		slog.Info(LogMsgMigrationsApplied)
		slog.Info(LogMsgStorageOpened, "driver", cfg.StorageDriver, "host", cfg.DBHost, "database", cfg.DBName)
		return &Storage{
			Repo:   postgres.NewPoolRepository(pool),
			Health: pingPool{pool: pool},
			close:  func() error { pool.Close(); return nil },
		}, nil

	case config.StorageDriverBolt:
		if err := os.MkdirAll(filepath.Dir(cfg.BoltPath), DirPermission); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedCreateBoltDir, err)
		}
		store, err := bolt.Open(cfg.BoltPath, BoltOpenTimeout)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenDatabase, err)
		}
		slog.Info(LogMsgStorageOpened, "driver", cfg.StorageDriver, "path", cfg.BoltPath)
		return &Storage{Repo: store, Health: store, close: store.Close}, nil
	}

	return nil, fmt.Errorf("%s: %q", ErrMsgUnknownStorageDriver, cfg.StorageDriver)
}

// pingPool adapts a pgx pool to the readiness probe
type pingPool struct {
	pool interface {
		Ping(ctx context.Context) error
	}
}

func (p pingPool) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}
