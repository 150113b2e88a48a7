package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Anika2121/brain-bloom/internal/domain"
	"github.com/Anika2121/brain-bloom/internal/repository"
)

// GormQuizRepository is the GORM implementation of QuizRepository.
type GormQuizRepository struct {
	db *gorm.DB
}

func NewGormQuizRepository(db *gorm.DB) *GormQuizRepository {
	if db == nil {
		panic("database connection cannot be nil for GormQuizRepository")
	}
	return &GormQuizRepository{db: db}
}

func (r *GormQuizRepository) Save(ctx context.Context, quiz *domain.Quiz) error {
	if err := r.db.WithContext(ctx).Create(quiz).Error; err != nil {
		return fmt.Errorf("gorm: save quiz for room %d: %w", quiz.RoomID, err)
	}
	return nil
}

func (r *GormQuizRepository) FindByID(ctx context.Context, id uint) (*domain.Quiz, error) {
	var quiz domain.Quiz
	err := r.db.WithContext(ctx).First(&quiz, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrQuizNotFound
		}
		return nil, fmt.Errorf("gorm: find quiz by id %d: %w", id, err)
	}
	return &quiz, nil
}

func (r *GormQuizRepository) FindByRoom(ctx context.Context, roomID uint) ([]domain.Quiz, error) {
	var quizzes []domain.Quiz
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("id").
		Find(&quizzes).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find quizzes for room %d: %w", roomID, err)
	}
	return quizzes, nil
}

func (r *GormQuizRepository) CountByRoom(ctx context.Context, roomID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Quiz{}).
		Where("room_id = ?", roomID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("gorm: count quizzes for room %d: %w", roomID, err)
	}
	return count, nil
}

func (r *GormQuizRepository) DeleteByRoom(ctx context.Context, roomID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", roomID).Delete(&domain.QuizResponse{}).Error; err != nil {
			return err
		}
		return tx.Where("room_id = ?", roomID).Delete(&domain.Quiz{}).Error
	})
	if err != nil {
		return fmt.Errorf("gorm: delete quizzes for room %d: %w", roomID, err)
	}
	return nil
}

// UpsertResponse relies on the (room_id, user_id, quiz_id) unique index:
// a conflicting insert turns into an update of the selected answer, so
// concurrent resubmission never produces a second row.
func (r *GormQuizRepository) UpsertResponse(ctx context.Context, response *domain.QuizResponse) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "room_id"}, {Name: "user_id"}, {Name: "quiz_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"selected_answer", "submitted_at"}),
	}).Create(response).Error
	if err != nil {
		return fmt.Errorf("gorm: upsert quiz response (room: %d, user: %d, quiz: %d): %w",
			response.RoomID, response.UserID, response.QuizID, err)
	}
	return nil
}

func (r *GormQuizRepository) ResponsesByRoom(ctx context.Context, roomID uint) ([]domain.QuizResponse, error) {
	var responses []domain.QuizResponse
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Find(&responses).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find responses for room %d: %w", roomID, err)
	}
	return responses, nil
}

func (r *GormQuizRepository) ResponsesByRoomAndUser(ctx context.Context, roomID, userID uint) ([]domain.QuizResponse, error) {
	var responses []domain.QuizResponse
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Find(&responses).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find responses (room: %d, user: %d): %w", roomID, userID, err)
	}
	return responses, nil
}
