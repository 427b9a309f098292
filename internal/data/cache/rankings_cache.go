package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	types "github.com/vendorconnect/vendorconnect-backend/internal/domain"
	"github.com/vendorconnect/vendorconnect-backend/internal/platform/logger"
)

const (
	rankingsVersionKey = "trust:rankings:version"
	DefaultRankingsTTL = 30 * time.Second
)

// RankingsCache memoizes leaderboard pages. Invalidate drops every cached
// page at once by bumping a version that is part of each key.
//
// Readers take the version once with Version, before loading rows, and pass
// it to both Get and Set. A page computed from rows read before an
// Invalidate is then stored under the retired version and never served.
type RankingsCache interface {
	Version(ctx context.Context) (int64, error)
	Get(ctx context.Context, version int64, role types.Role, limit int) ([]types.RankingEntry, bool, error)
	Set(ctx context.Context, version int64, role types.Role, limit int, entries []types.RankingEntry) error
	Invalidate(ctx context.Context) error
}

type redisRankingsCache struct {
	rdb *goredis.Client
	ttl time.Duration
	log *logger.Logger
}

func NewRedisRankingsCache(rdb *goredis.Client, ttl time.Duration, baseLog *logger.Logger) (RankingsCache, error) {
	if rdb == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if ttl <= 0 {
		ttl = DefaultRankingsTTL
	}
	return &redisRankingsCache{rdb: rdb, ttl: ttl, log: baseLog.With("cache", "RankingsCache")}, nil
}

func (c *redisRankingsCache) Version(ctx context.Context) (int64, error) {
	v, err := c.rdb.Get(ctx, rankingsVersionKey).Int64()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	return v, err
}

func rankingsKey(version int64, role types.Role, limit int) string {
	r := string(role)
	if r == "" {
		r = "all"
	}
	return fmt.Sprintf("trust:rankings:v%d:%s:%d", version, r, limit)
}

func (c *redisRankingsCache) Get(ctx context.Context, version int64, role types.Role, limit int) ([]types.RankingEntry, bool, error) {
	raw, err := c.rdb.Get(ctx, rankingsKey(version, role, limit)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var out []types.RankingEntry
	if err := json.Unmarshal(raw, &out); err != nil {
		c.log.Warn("dropping undecodable rankings entry", "role", role, "error", err)
		return nil, false, nil
	}
	return out, true, nil
}

func (c *redisRankingsCache) Set(ctx context.Context, version int64, role types.Role, limit int, entries []types.RankingEntry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, rankingsKey(version, role, limit), raw, c.ttl).Err()
}

func (c *redisRankingsCache) Invalidate(ctx context.Context) error {
	return c.rdb.Incr(ctx, rankingsVersionKey).Err()
}

type noopRankingsCache struct{}

// NewNoopRankingsCache always misses. Used when Redis is not configured.
func NewNoopRankingsCache() RankingsCache { return noopRankingsCache{} }

func (noopRankingsCache) Version(context.Context) (int64, error) { return 0, nil }
func (noopRankingsCache) Get(context.Context, int64, types.Role, int) ([]types.RankingEntry, bool, error) {
	return nil, false, nil
}
func (noopRankingsCache) Set(context.Context, int64, types.Role, int, []types.RankingEntry) error {
	return nil
}
func (noopRankingsCache) Invalidate(context.Context) error { return nil }
