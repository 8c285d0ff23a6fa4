package main

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stitts-dev/draft-sim/internal/cache"
	"github.com/stitts-dev/draft-sim/internal/services"
	"github.com/stitts-dev/draft-sim/pkg/config"
	"github.com/stitts-dev/draft-sim/pkg/database"
	"github.com/stitts-dev/draft-sim/pkg/logger"
)

// app holds the shared dependencies a command needs
type app struct {
	cfg    *config.Config
	logger *logrus.Logger
	db     *database.DB
	redis  *redis.Client
	cache  *cache.PoolCache
	pools  *services.PoolService
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.LoadConfig(cmd.Flags())
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:    cfg,
		logger: logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment()),
	}

	if cfg.DatabaseURL != "" {
		a.db, err = database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
		if err != nil {
			return nil, err
		}
	}

	if cfg.RedisURL != "" {
		a.redis = a.connectRedis(cmd.Context())
	}
	a.cache = cache.NewPoolCache(a.redis, cfg.PoolCacheTTL, cfg.CircuitBreakerThreshold, cfg.CircuitBreakerTimeout, a.logger)

	source, err := services.NewSource(cfg.PlayerSource, a.db)
	if err != nil {
		a.close()
		return nil, err
	}
	a.pools = services.NewPoolService(source, a.cache, a.logger, cfg.PoolRefreshInterval)

	return a, nil
}

// connectRedis returns nil when redis is unreachable so the pool loads uncached
func (a *app) connectRedis(ctx context.Context) *redis.Client {
	client, err := cache.NewRedisClient(a.cfg.RedisURL)
	if err != nil {
		a.logger.WithError(err).Warn("Invalid REDIS_URL, pool cache disabled")
		return nil
	}

	pingCtx, cancel := context.WithTimeout(contextOrBackground(ctx), 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		a.logger.WithError(err).Warn("Redis unreachable, pool cache disabled")
		client.Close()
		return nil
	}
	return client
}

func (a *app) close() {
	if a.pools != nil {
		a.pools.Stop()
	}
	if a.redis != nil {
		a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
