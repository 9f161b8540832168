package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a session ID resolves to nothing live.
var ErrNotFound = errors.New("session not found")

// ErrRedisUnavailable wraps Redis transport failures.
var ErrRedisUnavailable = errors.New("session redis unavailable")

// Store is the Redis-backed session store. Sessions are revocable
// server-side: deleting the record invalidates the cookie token
// immediately, everywhere.
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// NewStore creates a session [Store] backed by the given Redis client.
// prefix sets the Redis key namespace.
func NewStore(redisClient redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = "sas"
	}
	return &Store{
		redis:  redisClient,
		prefix: prefix,
	}
}

func (s *Store) key(sessionID string) string {
	return s.prefix + ":" + sessionID
}

func (s *Store) accountKey(accountID string) string {
	return s.prefix + "u:" + accountID
}

// Save persists a [Session] with the given TTL and indexes it under the
// owning account for bulk revocation.
func (s *Store) Save(ctx context.Context, sess *Session, ttl time.Duration) error {
	data, err := Encode(sess)
	if err != nil {
		return err
	}

	sessionKey := s.key(sess.SessionID)
	accountKey := s.accountKey(sess.AccountID)

	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey, data, ttl)
		pipe.SAdd(ctx, accountKey, sess.SessionID)
		pipe.Expire(ctx, accountKey, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// Get retrieves a session by ID. A missing, expired, or corrupt record
// returns [ErrNotFound]; only transport failures surface as
// [ErrRedisUnavailable].
func (s *Store) Get(ctx context.Context, sessionID string) (*Session, error) {
	data, err := s.redis.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	sess, err := Decode(data)
	if err != nil {
		// A corrupt record is unusable; drop it rather than serving errors
		// on every request carrying this cookie.
		_ = s.redis.Del(ctx, s.key(sessionID)).Err()
		return nil, ErrNotFound
	}
	sess.SessionID = sessionID

	if time.Now().Unix() >= sess.ExpiresAt {
		if err := s.deleteSessionAndIndex(ctx, sess.AccountID, sessionID); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}

	return sess, nil
}

// Delete removes a session. Idempotent: deleting a session that does not
// exist is not an error.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	data, err := s.redis.Get(ctx, s.key(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	sess, err := Decode(data)
	if err != nil {
		if delErr := s.redis.Del(ctx, s.key(sessionID)).Err(); delErr != nil {
			return fmt.Errorf("%w: %v", ErrRedisUnavailable, delErr)
		}
		return nil
	}

	return s.deleteSessionAndIndex(ctx, sess.AccountID, sessionID)
}

// DeleteAllForAccount removes every tracked session belonging to an
// account. A session saved concurrently with this call may survive; it is
// bounded by its own TTL.
func (s *Store) DeleteAllForAccount(ctx context.Context, accountID string) error {
	accountKey := s.accountKey(accountID)

	sessionIDs, err := s.redis.SMembers(ctx, accountKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, sessionID := range sessionIDs {
			pipe.Del(ctx, s.key(sessionID))
		}
		pipe.Del(ctx, accountKey)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// ActiveSessionIDs returns the tracked session IDs for an account.
func (s *Store) ActiveSessionIDs(ctx context.Context, accountID string) ([]string, error) {
	ids, err := s.redis.SMembers(ctx, s.accountKey(accountID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return ids, nil
}

// Ping returns a point-in-time Redis availability check and latency.
func (s *Store) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return time.Since(start), nil
}

func (s *Store) deleteSessionAndIndex(ctx context.Context, accountID, sessionID string) error {
	_, err := s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key(sessionID))
		pipe.SRem(ctx, s.accountKey(accountID), sessionID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
