package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"eventmaster/config"
	"eventmaster/internal/domain"
	"eventmaster/internal/repository/memory"
	"eventmaster/internal/repository/postgres"
	"eventmaster/internal/repository/redis"
	"eventmaster/internal/repository/sqlite"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// OpenStore returns the KVStore selected by cfg.StoreDriver and the closer that releases it.
func OpenStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (domain.KVStore, io.Closer, error) {
	switch cfg.StoreDriver {
	case config.StoreMemory, "":
		logger.Warn("using in-memory store; data is lost on restart")
		return memory.NewKVStore(), nopCloser{}, nil
	case config.StorePostgres:
		db, err := postgres.Open(ctx, cfg.DBUrl)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewKVStore(db), db, nil
	case config.StoreSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	case config.StoreRedis:
		store, err := redis.NewKVStore(ctx, redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}
}
