package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const keyContactEmail = "contact:submit:%s"

// RedisLimiter is the fixed-window variant for deployments running more than
// one instance, where a process-local map would silently weaken limiting.
type RedisLimiter struct {
	client *redis.Client
	window time.Duration
}

func NewRedisLimiter(client *redis.Client, window time.Duration) (*RedisLimiter, error) {
	if client == nil {
		return nil, errors.New("rate limiter redis client is required")
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RedisLimiter{client: client, window: window}, nil
}

func (l *RedisLimiter) Allow(ctx context.Context, email string) (time.Duration, bool, error) {
	key := fmt.Sprintf(keyContactEmail, strings.TrimSpace(email))

	ok, err := l.client.SetNX(ctx, key, time.Now().UTC().Unix(), l.window).Result()
	if err != nil {
		return 0, false, err
	}
	if ok {
		return 0, true, nil
	}

	ttl, err := l.client.PTTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = l.window
	}
	return ttl, false, nil
}
