package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	types "github.com/vendorconnect/vendorconnect-backend/internal/domain"
	"github.com/vendorconnect/vendorconnect-backend/internal/platform/logger"
)

func newTestCache(t *testing.T, ttl time.Duration) (RankingsCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	c, err := NewRedisRankingsCache(rdb, ttl, log)
	if err != nil {
		t.Fatalf("NewRedisRankingsCache: %v", err)
	}
	return c, mr
}

func sampleEntries() []types.RankingEntry {
	return []types.RankingEntry{
		{Rank: 1, Tier: "elite", TrustScore: types.TrustScore{UserID: uuid.New(), CurrentScore: 90}},
		{Rank: 2, Tier: "trusted", TrustScore: types.TrustScore{UserID: uuid.New(), CurrentScore: 72}},
	}
}

func mustVersion(t *testing.T, c RankingsCache) int64 {
	t.Helper()
	v, err := c.Version(context.Background())
	if err != nil {
		t.Fatalf("Version: %v", err)
	}
	return v
}

func TestRankingsCacheHitMissAndInvalidate(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()
	v := mustVersion(t, c)

	if _, ok, err := c.Get(ctx, v, types.RoleSupplier, 0); err != nil || ok {
		t.Fatalf("Get on empty cache: ok=%v err=%v", ok, err)
	}

	entries := sampleEntries()
	if err := c.Set(ctx, v, types.RoleSupplier, 0, entries); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := c.Get(ctx, v, types.RoleSupplier, 0)
	if err != nil || !ok {
		t.Fatalf("Get after Set: ok=%v err=%v", ok, err)
	}
	if len(got) != 2 || got[0].UserID != entries[0].UserID || got[1].CurrentScore != 72 {
		t.Fatalf("Get after Set: unexpected %+v", got)
	}

	// Different role or limit is a different page.
	if _, ok, _ := c.Get(ctx, v, types.RoleVendor, 0); ok {
		t.Fatalf("expected miss for vendor page")
	}
	if _, ok, _ := c.Get(ctx, v, types.RoleSupplier, 10); ok {
		t.Fatalf("expected miss for limited page")
	}

	if err := c.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	next := mustVersion(t, c)
	if next == v {
		t.Fatalf("Invalidate should bump the version")
	}
	if _, ok, _ := c.Get(ctx, next, types.RoleSupplier, 0); ok {
		t.Fatalf("expected miss after Invalidate")
	}
}

func TestRankingsCacheSetUnderRetiredVersion(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	// A reader takes the version, a writer invalidates, then the reader stores
	// the page it built from rows it loaded before the write.
	readerVersion := mustVersion(t, c)
	if err := c.Invalidate(ctx); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if err := c.Set(ctx, readerVersion, types.RoleSupplier, 0, sampleEntries()); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if _, ok, _ := c.Get(ctx, mustVersion(t, c), types.RoleSupplier, 0); ok {
		t.Fatalf("page written under a retired version must not be served")
	}
}

func TestRankingsCacheExpires(t *testing.T) {
	c, mr := newTestCache(t, 5*time.Second)
	ctx := context.Background()
	v := mustVersion(t, c)

	if err := c.Set(ctx, v, "", 0, sampleEntries()); err != nil {
		t.Fatalf("Set: %v", err)
	}
	mr.FastForward(6 * time.Second)
	if _, ok, _ := c.Get(ctx, v, "", 0); ok {
		t.Fatalf("expected miss after ttl")
	}
}

func TestNoopRankingsCache(t *testing.T) {
	c := NewNoopRankingsCache()
	ctx := context.Background()
	if err := c.Set(ctx, 0, "", 0, sampleEntries()); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, ok, _ := c.Get(ctx, 0, "", 0); ok {
		t.Fatalf("noop cache should always miss")
	}
}
