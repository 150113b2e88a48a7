package gormpersistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Anika2121/brain-bloom/internal/domain"
	"github.com/Anika2121/brain-bloom/internal/repository"
)

// GormSummaryRepository is the GORM implementation of SummaryRepository.
type GormSummaryRepository struct {
	db *gorm.DB
}

func NewGormSummaryRepository(db *gorm.DB) *GormSummaryRepository {
	if db == nil {
		panic("database connection cannot be nil for GormSummaryRepository")
	}
	return &GormSummaryRepository{db: db}
}

func (r *GormSummaryRepository) Save(ctx context.Context, summary *domain.Summary) error {
	err := r.db.WithContext(ctx).Create(summary).Error
	if err != nil {
		if isDuplicateEntry(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: save summary (room: %d, pdf: %s): %w", summary.RoomID, summary.PDFName, err)
	}
	return nil
}

func (r *GormSummaryRepository) FindByRoom(ctx context.Context, roomID uint) ([]domain.Summary, error) {
	var summaries []domain.Summary
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("uploaded_at DESC").
		Find(&summaries).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find summaries for room %d: %w", roomID, err)
	}
	return summaries, nil
}

func (r *GormSummaryRepository) ExistsByRoomAndName(ctx context.Context, roomID uint, pdfName string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Summary{}).
		Where("room_id = ? AND pdf_name = ?", roomID, pdfName).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("gorm: count summaries (room: %d, pdf: %s): %w", roomID, pdfName, err)
	}
	return count > 0, nil
}

func (r *GormSummaryRepository) TextsByRoom(ctx context.Context, roomID uint) ([]string, error) {
	var texts []string
	err := r.db.WithContext(ctx).Model(&domain.Summary{}).
		Where("room_id = ?", roomID).
		Order("uploaded_at DESC").
		Pluck("summary_text", &texts).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: pluck summary texts for room %d: %w", roomID, err)
	}
	return texts, nil
}
