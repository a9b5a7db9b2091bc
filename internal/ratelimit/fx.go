package ratelimit

import (
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/thinkzo/intake/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("rate.limit",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config) (Limiter, error) {
	window := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second

	switch cfg.RateLimit.Backend {
	case "", "memory":
		return NewMemoryLimiter(window), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RateLimit.RedisAddr,
			Password: cfg.RateLimit.RedisPassword,
			DB:       cfg.RateLimit.RedisDB,
		})
		return NewRedisLimiter(client, window)
	default:
		return nil, fmt.Errorf("unsupported rate limit backend %q", cfg.RateLimit.Backend)
	}
}
