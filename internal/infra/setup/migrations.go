package setup

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/Anika2121/brain-bloom/internal/domain"
)

// MigrateDB auto-migrates the schema for all models.
func MigrateDB(db *gorm.DB) error {
	err := db.AutoMigrate(
		&domain.User{},
		&domain.OTP{},
		&domain.Room{},
		&domain.Summary{},
		&domain.Quiz{},
		&domain.QuizResponse{},
		&domain.ChatMessage{},
	)
	if err != nil {
		return fmt.Errorf("auto-migrate schema: %w", err)
	}
	return nil
}
