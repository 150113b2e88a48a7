package repository

import (
	"context"
	"time"
)

// StateRepository covers the volatile per-room coordination state kept in
// Redis: the quiz-generation lock, request rate-limit counters and the
// ranking cache.
type StateRepository interface {
	// AcquireQuizLock attempts to take the per-room generation lock.
	// Returns false when another process already holds it. The lock
	// expires after ttl so a crashed worker cannot wedge generation.
	AcquireQuizLock(ctx context.Context, roomID uint, ttl time.Duration) (bool, error)

	// ReleaseQuizLock is idempotent.
	ReleaseQuizLock(ctx context.Context, roomID uint) error

	// CheckRateLimit increments the counter for key and reports whether
	// the limit was exceeded within the window.
	CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	// SetRankingCache stores the serialized ranking payload for a room.
	SetRankingCache(ctx context.Context, roomID uint, payload []byte, ttl time.Duration) error

	// GetRankingCache returns ErrNotFound on a cache miss.
	GetRankingCache(ctx context.Context, roomID uint) ([]byte, error)

	// CleanupRoomState drops every key owned by the room; called by the
	// sweep after deleting an expired room.
	CleanupRoomState(ctx context.Context, roomID uint) error
}
