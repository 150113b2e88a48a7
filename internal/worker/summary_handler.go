package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/Anika2121/brain-bloom/internal/service"
	"github.com/Anika2121/brain-bloom/internal/tasks"
)

// SummarizeHandler runs the summarization pipeline for one upload.
type SummarizeHandler struct {
	summaries *service.SummaryService
}

func NewSummarizeHandler(summaries *service.SummaryService) *SummarizeHandler {
	if summaries == nil {
		panic("worker: summary service is nil")
	}
	return &SummarizeHandler{summaries: summaries}
}

func (h *SummarizeHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p tasks.SummarizePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("worker: unmarshal summarize payload: %v: %w", err, asynq.SkipRetry)
	}

	logrus.WithFields(logrus.Fields{"room_id": p.RoomID, "pdf": p.PDFName}).Info("Processing summarization task")
	if err := h.summaries.Process(ctx, p); err != nil {
		// Unreadable or empty PDFs will not improve on retry.
		if errors.Is(err, service.ErrValidation) {
			return fmt.Errorf("worker: %v: %w", err, asynq.SkipRetry)
		}
		return err
	}
	return nil
}
