package persist

import (
	"context"
	"fmt"
	"time"

	"github.com/gdlib/gdengine/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	applicationName = "gdengine-snapshots"
	minPingTimeout  = time.Second
)

// DB is the snapshot store's connection pool. Snapshot writes are short
// single-transaction bursts from the Persist phase, so the pool stays small.
type DB struct {
	Pool *pgxpool.Pool
	log  *zap.Logger
}

// poolConfig maps the [database] section onto pgx settings. MinConns is
// clamped to MaxConns and the session is tagged so snapshot traffic is
// visible in pg_stat_activity.
func poolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	poolCfg.MinConns = int32(cfg.MaxIdleConns)
	if poolCfg.MinConns > poolCfg.MaxConns {
		poolCfg.MinConns = poolCfg.MaxConns
	}
	if cfg.ConnMaxLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime
	}
	if _, ok := poolCfg.ConnConfig.RuntimeParams["application_name"]; !ok {
		poolCfg.ConnConfig.RuntimeParams["application_name"] = applicationName
	}
	return poolCfg, nil
}

// pingTimeout follows the per-save budget; a store that cannot answer a
// ping within it would miss every snapshot anyway.
func pingTimeout(cfg config.DatabaseConfig) time.Duration {
	if cfg.SnapshotTimeout < minPingTimeout {
		return minPingTimeout
	}
	return cfg.SnapshotTimeout
}

func NewDB(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (*DB, error) {
	if log == nil {
		log = zap.NewNop()
	}
	poolCfg, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout(cfg))
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("snapshot store unreachable at %s: %w", poolCfg.ConnConfig.Host, err)
	}

	log.Info("snapshot store connected",
		zap.String("host", poolCfg.ConnConfig.Host),
		zap.String("database", poolCfg.ConnConfig.Database),
		zap.Int32("max_conns", poolCfg.MaxConns))
	return &DB{Pool: pool, log: log}, nil
}

// Close drains the pool, logging how many connections were still checked
// out (a snapshot save that outlived shutdown).
func (db *DB) Close() {
	if n := db.Pool.Stat().AcquiredConns(); n > 0 {
		db.log.Warn("closing snapshot store with busy connections", zap.Int32("acquired", n))
	}
	db.Pool.Close()
}
