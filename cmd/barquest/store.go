package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/samdwyer/barquest/internal/config"
	"github.com/samdwyer/barquest/internal/profile"
)

// openStore connects the configured profile backend. The returned func
// releases its connections.
func openStore(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (profile.Repository, func(), error) {
	switch cfg.Backend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("connecting to redis %s: %w", cfg.Redis.Addr, err)
		}
		logger.Info("profile store connected", zap.String("backend", cfg.Backend), zap.String("addr", cfg.Redis.Addr))
		return profile.NewRedis(client), func() { _ = client.Close() }, nil

	case config.BackendPostgres:
		repo, err := profile.NewPostgres(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		if cfg.Postgres.Migrate {
			if err := profile.RunMigrations(ctx, repo.Pool()); err != nil {
				repo.Close()
				return nil, nil, fmt.Errorf("running migrations: %w", err)
			}
			logger.Info("database migrations applied")
		}
		logger.Info("profile store connected", zap.String("backend", cfg.Backend))
		return repo, repo.Close, nil

	default:
		logger.Info("profile store connected", zap.String("backend", config.BackendMemory))
		return profile.NewMemory(), func() {}, nil
	}
}
