package repository

import (
	"context"

	"github.com/Anika2121/brain-bloom/internal/domain"
)

// SummaryRepository manages per-room PDF summaries.
type SummaryRepository interface {
	// Save rejects a second summary for the same (room, pdf name) with
	// ErrDuplicateEntry.
	Save(ctx context.Context, summary *domain.Summary) error

	// FindByRoom returns summaries newest-first.
	FindByRoom(ctx context.Context, roomID uint) ([]domain.Summary, error)

	// ExistsByRoomAndName reports whether the original filename was
	// already summarized in the room.
	ExistsByRoomAndName(ctx context.Context, roomID uint, pdfName string) (bool, error)

	// TextsByRoom returns just the summary texts, newest-first; used to
	// build the @ai question-answering context.
	TextsByRoom(ctx context.Context, roomID uint) ([]string, error)
}
