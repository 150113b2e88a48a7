package gormpersistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Anika2121/brain-bloom/internal/domain"
)

// GormChatRepository is the GORM implementation of ChatRepository.
type GormChatRepository struct {
	db *gorm.DB
}

func NewGormChatRepository(db *gorm.DB) *GormChatRepository {
	if db == nil {
		panic("database connection cannot be nil for GormChatRepository")
	}
	return &GormChatRepository{db: db}
}

func (r *GormChatRepository) Save(ctx context.Context, message *domain.ChatMessage) error {
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return fmt.Errorf("gorm: save chat message for room %d: %w", message.RoomID, err)
	}
	return nil
}

func (r *GormChatRepository) FindByRoom(ctx context.Context, roomID uint) ([]domain.ChatMessage, error) {
	var messages []domain.ChatMessage
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("timestamp").
		Preload("Sender").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find chat messages for room %d: %w", roomID, err)
	}
	return messages, nil
}
