package app

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/vendorconnect/vendorconnect-backend/internal/data/cache"
	"github.com/vendorconnect/vendorconnect-backend/internal/platform/logger"
	"github.com/vendorconnect/vendorconnect-backend/internal/realtime/bus"
)

// Clients holds the connections shared by the cache and the event bus. Redis
// is optional; without REDIS_ADDR both fall back to in-process versions.
type Clients struct {
	Redis    *goredis.Client
	Rankings cache.RankingsCache
	Events   bus.Bus
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	if cfg.RedisAddr == "" {
		log.Warn("REDIS_ADDR not set; using in-process rankings cache and event bus")
		return Clients{
			Rankings: cache.NewNoopRankingsCache(),
			Events:   bus.NewNoopBus(),
		}, nil
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return Clients{}, fmt.Errorf("redis ping %s: %w", cfg.RedisAddr, err)
	}

	rankings, err := cache.NewRedisRankingsCache(rdb, cfg.RankingsCacheTTL, log)
	if err != nil {
		_ = rdb.Close()
		return Clients{}, fmt.Errorf("init rankings cache: %w", err)
	}
	events, err := bus.NewRedisBus(log, rdb, cfg.RedisChannel)
	if err != nil {
		_ = rdb.Close()
		return Clients{}, fmt.Errorf("init redis event bus: %w", err)
	}
	return Clients{Redis: rdb, Rankings: rankings, Events: events}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Events != nil {
		_ = c.Events.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
