package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/memorize-api/internal/common/config"
	"github.com/AlibekovAA/memorize-api/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/memorize-api/internal/common/crypto"
	"github.com/AlibekovAA/memorize-api/internal/common/db"
	"github.com/AlibekovAA/memorize-api/internal/common/logger"
	userrepo "github.com/AlibekovAA/memorize-api/internal/user/repository"
)

type App struct {
	Log      *logger.Logger
	Config   config.Config
	Pool     *pgxpool.Pool
	UserRepo userrepo.Repository
}

// NewApp loads configuration, opens the database pool and applies pending
// migrations. Missing configuration or an unreachable database is fatal.
func NewApp(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.LogDir, constants.AppName, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	pool := db.NewPool(log, db.PoolConfig{
		DatabaseURL: cfg.DatabaseURL,
		MaxConns:    cfg.DBMaxConns,
		MinConns:    cfg.DBMinConns,
	})
	if pool == nil {
		return nil, fmt.Errorf("failed to initialize database pool")
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, log); err != nil {
			pool.Close()
			return nil, err
		}
	}

	db.StartPoolMetrics(ctx, pool, constants.DBPoolMetricsInterval)

	return &App{
		Log:      log,
		Config:   cfg,
		Pool:     pool,
		UserRepo: userrepo.NewPgRepository(pool, commoncrypto.NewUUIDGenerator()),
	}, nil
}

func (a *App) Close() {
	a.Pool.Close()
}
