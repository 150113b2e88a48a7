// Package redisstate implements repository.StateRepository on Redis.
package redisstate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/Anika2121/brain-bloom/internal/repository"
)

// RedisStateRepository holds the volatile per-room coordination state:
// quiz-generation locks, rate-limit counters and the ranking cache.
type RedisStateRepository struct {
	client    *redis.Client
	keyPrefix string
}

func NewRedisStateRepository(client *redis.Client, keyPrefix string) *RedisStateRepository {
	if client == nil {
		panic("redis client cannot be nil for RedisStateRepository")
	}
	if keyPrefix == "" {
		keyPrefix = "bb:"
	}
	return &RedisStateRepository{client: client, keyPrefix: keyPrefix}
}

func (r *RedisStateRepository) quizLockKey(roomID uint) string {
	return fmt.Sprintf("%sroom:%d:quizlock", r.keyPrefix, roomID)
}

func (r *RedisStateRepository) rankingKey(roomID uint) string {
	return fmt.Sprintf("%sroom:%d:ranking", r.keyPrefix, roomID)
}

func (r *RedisStateRepository) roomKeyPattern(roomID uint) string {
	return fmt.Sprintf("%sroom:%d:*", r.keyPrefix, roomID)
}

// AcquireQuizLock takes the generation lock with SET NX so that the quiz
// for a room is generated at most once even when the sweep and a request
// path observe the QUIZ phase simultaneously.
func (r *RedisStateRepository) AcquireQuizLock(ctx context.Context, roomID uint, ttl time.Duration) (bool, error) {
	ok, err := r.client.SetNX(ctx, r.quizLockKey(roomID), "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis: acquire quiz lock for room %d: %w", roomID, err)
	}
	return ok, nil
}

func (r *RedisStateRepository) ReleaseQuizLock(ctx context.Context, roomID uint) error {
	if err := r.client.Del(ctx, r.quizLockKey(roomID)).Err(); err != nil {
		return fmt.Errorf("redis: release quiz lock for room %d: %w", roomID, err)
	}
	return nil
}

// CheckRateLimit increments the counter and refreshes the window in one
// pipeline; INCR is atomic, the EXPIRE keeps the key from leaking.
func (r *RedisStateRepository) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	fullKey := r.keyPrefix + "ratelimit:" + key

	pipe := r.client.Pipeline()
	incr := pipe.Incr(ctx, fullKey)
	pipe.Expire(ctx, fullKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("redis: rate limit pipeline for %s: %w", key, err)
	}
	count, err := incr.Result()
	if err != nil {
		return false, fmt.Errorf("redis: rate limit count for %s: %w", key, err)
	}
	return count > int64(limit), nil
}

func (r *RedisStateRepository) SetRankingCache(ctx context.Context, roomID uint, payload []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.rankingKey(roomID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set ranking cache for room %d: %w", roomID, err)
	}
	return nil
}

func (r *RedisStateRepository) GetRankingCache(ctx context.Context, roomID uint) ([]byte, error) {
	data, err := r.client.Get(ctx, r.rankingKey(roomID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("redis: get ranking cache for room %d: %w", roomID, err)
	}
	return data, nil
}

// CleanupRoomState scans and deletes every key owned by the room.
func (r *RedisStateRepository) CleanupRoomState(ctx context.Context, roomID uint) error {
	iter := r.client.Scan(ctx, 0, r.roomKeyPattern(roomID), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis: scan keys for room %d: %w", roomID, err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis: delete %d keys for room %d: %w", len(keys), roomID, err)
	}
	logrus.WithFields(logrus.Fields{"room_id": roomID, "keys": len(keys)}).
		Debug("Cleaned up room state in redis")
	return nil
}
