package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/marketloop/auth-service/internal/ports"
)

// RedisLockoutStore implements brute-force lockout storage in Redis.
type RedisLockoutStore struct {
	client *redis.Client
}

// NewRedisLockoutStore creates a lockout store backed by Redis hashes.
func NewRedisLockoutStore(client *redis.Client) *RedisLockoutStore {
	return &RedisLockoutStore{client: client}
}

func (s *RedisLockoutStore) Get(ctx context.Context, key string) (ports.LockoutState, error) {
	data, err := s.client.HGetAll(ctx, "auth:lockout:"+key).Result()
	if err != nil {
		return ports.LockoutState{}, err
	}
	if len(data) == 0 {
		return ports.LockoutState{}, nil
	}

	state := ports.LockoutState{}
	if raw, ok := data["failures"]; ok {
		if n, convErr := strconv.Atoi(raw); convErr == nil {
			state.Failures = n
		}
	}
	if raw, ok := data["locked_until"]; ok && raw != "" {
		if unix, convErr := strconv.ParseInt(raw, 10, 64); convErr == nil && unix > 0 {
			state.LockedUntil = time.Unix(unix, 0).UTC()
		}
	}
	return state, nil
}

func (s *RedisLockoutStore) RecordFailure(ctx context.Context, key string, window, lockFor time.Duration, threshold int) (ports.LockoutState, error) {
	redisKey := "auth:lockout:" + key

	count, err := s.client.HIncrBy(ctx, redisKey, "failures", 1).Result()
	if err != nil {
		return ports.LockoutState{}, err
	}
	// The failure window doubles as the counter TTL, so stale counters fade
	// on their own.
	if count == 1 && window > 0 {
		_ = s.client.Expire(ctx, redisKey, window).Err()
	}

	state := ports.LockoutState{Failures: int(count)}
	if threshold > 0 && int(count) >= threshold {
		lockedUntil := time.Now().UTC().Add(lockFor)
		_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.HSet(ctx, redisKey, "locked_until", lockedUntil.Unix())
			p.Expire(ctx, redisKey, lockFor+30*time.Minute)
			return nil
		})
		if err != nil {
			return ports.LockoutState{}, err
		}
		state.LockedUntil = lockedUntil
	}
	return state, nil
}

func (s *RedisLockoutStore) Clear(ctx context.Context, key string) error {
	return s.client.Del(ctx, "auth:lockout:"+key).Err()
}

// RedisThrottleStore rate-limits repeatable self-service actions with a
// single SET NX per window.
type RedisThrottleStore struct {
	client *redis.Client
}

func NewRedisThrottleStore(client *redis.Client) *RedisThrottleStore {
	return &RedisThrottleStore{client: client}
}

func (s *RedisThrottleStore) Allow(ctx context.Context, key string, window time.Duration) (bool, error) {
	return s.client.SetNX(ctx, "auth:throttle:"+key, "1", window).Result()
}
