package rate

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config holds rate limiter tuning parameters.
type Config struct {
	EnableIPThrottle bool
	MaxAttempts      int
	Window           time.Duration
}

// Limiter enforces per-identifier and per-IP fixed-window limits for
// credential checks using Redis counters. Counters are incremented only on
// failed attempts and cleared on success, so a legitimate caller who
// eventually signs in never hits the ceiling.
type Limiter struct {
	redis  redis.UniversalClient
	config Config
}

// New creates a [Limiter] backed by the given Redis client.
func New(redisClient redis.UniversalClient, cfg Config) *Limiter {
	return &Limiter{
		redis:  redisClient,
		config: cfg,
	}
}

// Check reports whether the identifier+IP pair is within the attempt
// budget. Returns ErrRateLimited once the window budget is spent.
func (l *Limiter) Check(ctx context.Context, identifier, ip string) error {
	if err := l.checkCounter(ctx, identifierKey(identifier)); err != nil {
		return err
	}

	if l.config.EnableIPThrottle && ip != "" {
		if err := l.checkCounter(ctx, ipKey(ip)); err != nil {
			return err
		}
	}

	return nil
}

// Increment records a failed attempt for the identifier+IP pair.
func (l *Limiter) Increment(ctx context.Context, identifier, ip string) error {
	count, err := l.incrementWithTTL(ctx, identifierKey(identifier))
	if err != nil {
		return err
	}
	if count > int64(l.config.MaxAttempts) {
		return ErrRateLimited
	}

	if l.config.EnableIPThrottle && ip != "" {
		count, err = l.incrementWithTTL(ctx, ipKey(ip))
		if err != nil {
			return err
		}
		if count > int64(l.config.MaxAttempts) {
			return ErrRateLimited
		}
	}

	return nil
}

// Reset clears the failure counters for the identifier+IP pair. Called
// after a successful credential check.
func (l *Limiter) Reset(ctx context.Context, identifier, ip string) error {
	keys := []string{identifierKey(identifier)}
	if l.config.EnableIPThrottle && ip != "" {
		keys = append(keys, ipKey(ip))
	}

	if err := l.redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

func (l *Limiter) checkCounter(ctx context.Context, key string) error {
	count, err := l.redis.Get(ctx, key).Int64()
	if err != nil {
		if err == redis.Nil {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	if count >= int64(l.config.MaxAttempts) {
		return ErrRateLimited
	}

	return nil
}

func (l *Limiter) incrementWithTTL(ctx context.Context, key string) (int64, error) {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.config.Window).Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	return count, nil
}

func identifierKey(identifier string) string {
	return "ali:" + identifier
}

func ipKey(ip string) string {
	return "alip:" + ip
}
