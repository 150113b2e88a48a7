package repository

import (
	"context"

	"github.com/Anika2121/brain-bloom/internal/domain"
)

// QuizRepository manages generated quizzes and participant responses.
type QuizRepository interface {
	Save(ctx context.Context, quiz *domain.Quiz) error
	FindByID(ctx context.Context, id uint) (*domain.Quiz, error)
	FindByRoom(ctx context.Context, roomID uint) ([]domain.Quiz, error)
	CountByRoom(ctx context.Context, roomID uint) (int64, error)

	// DeleteByRoom clears all quizzes (and, via cascade, their responses)
	// ahead of regeneration.
	DeleteByRoom(ctx context.Context, roomID uint) error

	// UpsertResponse atomically inserts or overwrites the response for
	// the (room, user, quiz) triple.
	UpsertResponse(ctx context.Context, response *domain.QuizResponse) error

	ResponsesByRoom(ctx context.Context, roomID uint) ([]domain.QuizResponse, error)
	ResponsesByRoomAndUser(ctx context.Context, roomID, userID uint) ([]domain.QuizResponse, error)
}
