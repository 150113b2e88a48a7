package repository

import (
	"context"

	"github.com/Anika2121/brain-bloom/internal/domain"
)

// ChatRepository manages room chat history.
type ChatRepository interface {
	Save(ctx context.Context, message *domain.ChatMessage) error

	// FindByRoom returns messages ordered by timestamp ascending.
	FindByRoom(ctx context.Context, roomID uint) ([]domain.ChatMessage, error)
}
