package app

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, k := range []string{
		"PORT", "DB_DRIVER", "REDIS_ADDR", "REDIS_CHANNEL", "TRUST_BATCH_CONCURRENCY",
		"TRUST_RANKINGS_CACHE_TTL_SECONDS", "TRUST_ALLOW_SCORE_OVERRIDE", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(k, "")
	}
	cfg := LoadConfig(nil)
	if cfg.Port != "8080" {
		t.Fatalf("port: want 8080, got %q", cfg.Port)
	}
	if cfg.DB.Driver != "postgres" {
		t.Fatalf("driver: want postgres, got %q", cfg.DB.Driver)
	}
	if cfg.RedisChannel != "vendorconnect.events" {
		t.Fatalf("channel: got %q", cfg.RedisChannel)
	}
	if cfg.BatchConcurrency != 1 {
		t.Fatalf("concurrency: want 1, got %d", cfg.BatchConcurrency)
	}
	if cfg.RankingsCacheTTL != 30*time.Second {
		t.Fatalf("ttl: want 30s, got %s", cfg.RankingsCacheTTL)
	}
	if !cfg.AllowScoreOverride {
		t.Fatalf("override should default to enabled")
	}
	if len(cfg.AllowedOrigins) == 0 {
		t.Fatalf("expected default CORS origins")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/trust.db")
	t.Setenv("TRUST_BATCH_CONCURRENCY", "-3")
	t.Setenv("TRUST_RANKINGS_CACHE_TTL_SECONDS", "120")
	t.Setenv("TRUST_ALLOW_SCORE_OVERRIDE", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")

	cfg := LoadConfig(nil)
	if cfg.Port != "9090" || cfg.DB.Driver != "sqlite" || cfg.DB.SQLitePath != "/tmp/trust.db" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.BatchConcurrency != 1 {
		t.Fatalf("non-positive concurrency should fall back to 1, got %d", cfg.BatchConcurrency)
	}
	if cfg.RankingsCacheTTL != 2*time.Minute {
		t.Fatalf("ttl: got %s", cfg.RankingsCacheTTL)
	}
	if cfg.AllowScoreOverride {
		t.Fatalf("override should be disabled")
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Fatalf("origins: got %v", cfg.AllowedOrigins)
	}
}
