package rate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T, cfg Config) *Limiter {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return New(client, cfg)
}

func TestLimiterBlocksAtCeiling(t *testing.T) {
	limiter := newTestLimiter(t, Config{MaxAttempts: 3, Window: time.Minute})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := limiter.Check(ctx, "alice@example.com", ""); err != nil {
			t.Fatalf("Check before ceiling failed: %v", err)
		}
		if err := limiter.Increment(ctx, "alice@example.com", ""); err != nil {
			t.Fatalf("Increment %d failed: %v", i, err)
		}
	}

	if err := limiter.Check(ctx, "alice@example.com", ""); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("Check at ceiling = %v, want ErrRateLimited", err)
	}
	if err := limiter.Increment(ctx, "alice@example.com", ""); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("Increment past ceiling = %v, want ErrRateLimited", err)
	}
}

func TestLimiterResetClearsCounters(t *testing.T) {
	limiter := newTestLimiter(t, Config{MaxAttempts: 2, Window: time.Minute})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := limiter.Increment(ctx, "alice@example.com", ""); err != nil {
			t.Fatalf("Increment failed: %v", err)
		}
	}
	if err := limiter.Check(ctx, "alice@example.com", ""); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("Check = %v, want ErrRateLimited", err)
	}

	if err := limiter.Reset(ctx, "alice@example.com", ""); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if err := limiter.Check(ctx, "alice@example.com", ""); err != nil {
		t.Fatalf("Check after Reset failed: %v", err)
	}
}

func TestLimiterIPThrottle(t *testing.T) {
	limiter := newTestLimiter(t, Config{EnableIPThrottle: true, MaxAttempts: 2, Window: time.Minute})
	ctx := context.Background()

	// Different identifiers, same IP.
	for i := 0; i < 2; i++ {
		if err := limiter.Increment(ctx, "alice@example.com", "10.0.0.1"); err != nil {
			t.Fatalf("Increment failed: %v", err)
		}
	}

	if err := limiter.Check(ctx, "bob@example.com", "10.0.0.1"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("Check for second identifier on throttled IP = %v, want ErrRateLimited", err)
	}
	if err := limiter.Check(ctx, "bob@example.com", "10.0.0.2"); err != nil {
		t.Fatalf("Check on fresh IP failed: %v", err)
	}
}

func TestLimiterWindowExpires(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run failed: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := New(client, Config{MaxAttempts: 1, Window: time.Minute})
	ctx := context.Background()

	if err := limiter.Increment(ctx, "alice@example.com", ""); err != nil {
		t.Fatalf("Increment failed: %v", err)
	}
	if err := limiter.Check(ctx, "alice@example.com", ""); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("Check = %v, want ErrRateLimited", err)
	}

	mr.FastForward(2 * time.Minute)

	if err := limiter.Check(ctx, "alice@example.com", ""); err != nil {
		t.Fatalf("Check after window expiry failed: %v", err)
	}
}
