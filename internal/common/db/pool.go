package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/AlibekovAA/memorize-api/internal/common/constants"
	"github.com/AlibekovAA/memorize-api/internal/common/logger"
)

type PoolConfig struct {
	DatabaseURL string
	MaxConns    int32
	MinConns    int32
}

// NewPool connects with a fixed number of attempts. A pool that cannot be
// established is fatal for the process.
func NewPool(log *logger.Logger, cfg PoolConfig) *pgxpool.Pool {
	pgCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to parse database url: %v", err)
	}

	pgCfg.MaxConns = constants.DBPoolMaxOpenConns
	if cfg.MaxConns > 0 {
		pgCfg.MaxConns = cfg.MaxConns
	}
	pgCfg.MinConns = constants.DBPoolMinOpenConns
	if cfg.MinConns > 0 {
		pgCfg.MinConns = cfg.MinConns
	}
	pgCfg.MaxConnLifetime = constants.DBPoolConnMaxLifetime
	pgCfg.MaxConnIdleTime = constants.DBPoolConnMaxIdleTime
	pgCfg.HealthCheckPeriod = constants.DBPoolHealthCheck
	pgCfg.ConnConfig.ConnectTimeout = constants.DBPoolConnectTimeout
	pgCfg.ConnConfig.RuntimeParams = map[string]string{
		"application_name": constants.AppName,
	}

	for attempt := 1; attempt <= constants.DBPoolMaxAttempts; attempt++ {
		pool, err := pgxpool.ConnectConfig(context.Background(), pgCfg)
		if err == nil {
			log.Infof("database connection pool initialized: max=%d, min=%d", pgCfg.MaxConns, pgCfg.MinConns)
			return pool
		}

		log.Warnf("failed to connect to database (attempt %d/%d): %v", attempt, constants.DBPoolMaxAttempts, err)

		if attempt == constants.DBPoolMaxAttempts {
			log.Fatalf("failed to connect to database after %d attempts: %v", constants.DBPoolMaxAttempts, err)
			return nil
		}

		time.Sleep(constants.DBPoolRetryDelay)
	}

	return nil
}
