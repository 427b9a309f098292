package app

import (
	"time"

	"github.com/vendorconnect/vendorconnect-backend/internal/data/cache"
	"github.com/vendorconnect/vendorconnect-backend/internal/data/db"
	httpMW "github.com/vendorconnect/vendorconnect-backend/internal/http/middleware"
	"github.com/vendorconnect/vendorconnect-backend/internal/observability"
	"github.com/vendorconnect/vendorconnect-backend/internal/platform/envutil"
	"github.com/vendorconnect/vendorconnect-backend/internal/platform/logger"
	"github.com/vendorconnect/vendorconnect-backend/internal/realtime/bus"
)

type Config struct {
	Port        string
	LogMode     string
	ServiceName string
	Environment string

	JWTSecretKey string

	DB db.Config

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisChannel  string

	BatchConcurrency   int
	RankingsCacheTTL   time.Duration
	AllowScoreOverride bool

	OtelEnabled    bool
	AllowedOrigins []string
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:         envutil.String("PORT", "8080"),
		LogMode:      envutil.String("LOG_MODE", "development"),
		ServiceName:  envutil.String("OTEL_SERVICE_NAME", "vendorconnect-trust"),
		Environment:  envutil.String("APP_ENV", "development"),
		JWTSecretKey: envutil.String("JWT_SECRET_KEY", ""),
		DB: db.Config{
			Driver:     envutil.String("DB_DRIVER", "postgres"),
			Host:       envutil.String("POSTGRES_HOST", "localhost"),
			Port:       envutil.String("POSTGRES_PORT", "5432"),
			User:       envutil.String("POSTGRES_USER", "postgres"),
			Password:   envutil.String("POSTGRES_PASSWORD", ""),
			Name:       envutil.String("POSTGRES_NAME", "vendorconnect"),
			SSLMode:    envutil.String("POSTGRES_SSLMODE", "disable"),
			SQLitePath: envutil.String("SQLITE_PATH", "vendorconnect.db"),
			MaxOpen:    envutil.Int("POSTGRES_MAX_OPEN_CONNS", 20),
			MaxIdle:    envutil.Int("POSTGRES_MAX_IDLE_CONNS", 5),
		},
		RedisAddr:          envutil.String("REDIS_ADDR", ""),
		RedisPassword:      envutil.String("REDIS_PASSWORD", ""),
		RedisDB:            envutil.Int("REDIS_DB", 0),
		RedisChannel:       envutil.String("REDIS_CHANNEL", bus.DefaultChannel),
		BatchConcurrency:   envutil.Int("TRUST_BATCH_CONCURRENCY", 1),
		RankingsCacheTTL:   envutil.Seconds("TRUST_RANKINGS_CACHE_TTL_SECONDS", cache.DefaultRankingsTTL),
		AllowScoreOverride: envutil.Bool("TRUST_ALLOW_SCORE_OVERRIDE", true),
		OtelEnabled:        envutil.Bool("OTEL_ENABLED", false),
		AllowedOrigins:     envutil.List("CORS_ALLOWED_ORIGINS", httpMW.DefaultAllowedOrigins),
	}
	if cfg.BatchConcurrency <= 0 {
		cfg.BatchConcurrency = 1
	}
	if log != nil {
		log.Info("config loaded",
			"port", cfg.Port,
			"db_driver", cfg.DB.Driver,
			"redis", cfg.RedisAddr != "",
			"batch_concurrency", cfg.BatchConcurrency,
			"allow_score_override", cfg.AllowScoreOverride,
			"metrics", observability.Enabled(),
			"otel", cfg.OtelEnabled,
		)
	}
	return cfg
}
