// Package repository declares the persistence interfaces the services
// depend on. GORM implementations live under internal/infra/persistence,
// the redis-backed state repository under internal/infra/state.
package repository

import (
	"context"

	"github.com/Anika2121/brain-bloom/internal/domain"
)

// RoomRepository manages rooms and their participant sets.
type RoomRepository interface {
	// Save creates or updates a room. Violating the
	// (title, start_at, creator_id) unique index yields ErrDuplicateEntry.
	Save(ctx context.Context, room *domain.Room) error

	// FindByID returns ErrRoomNotFound when the room does not exist
	// (including when it was already swept away).
	FindByID(ctx context.Context, id uint) (*domain.Room, error)

	// FindByJoinCode looks a private room up by its join code.
	FindByJoinCode(ctx context.Context, code string) (*domain.Room, error)

	// FindAll returns every room; used by the periodic sweep.
	FindAll(ctx context.Context) ([]domain.Room, error)

	// FindPublic returns all public rooms.
	FindPublic(ctx context.Context) ([]domain.Room, error)

	// AddParticipant is idempotent.
	AddParticipant(ctx context.Context, roomID, userID uint) error

	RemoveParticipant(ctx context.Context, roomID, userID uint) error

	// IsMember reports whether the user participates in or created the room.
	IsMember(ctx context.Context, roomID, userID uint) (bool, error)

	// Members returns the participants plus the creator.
	Members(ctx context.Context, roomID uint) ([]domain.User, error)

	// Delete removes the room and, through cascades, all of its
	// summaries, quizzes, responses and chat messages.
	Delete(ctx context.Context, roomID uint) error

	IsJoinCodeTaken(ctx context.Context, code string) (bool, error)
}
