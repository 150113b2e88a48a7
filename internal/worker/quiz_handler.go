package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/Anika2121/brain-bloom/internal/hub"
	"github.com/Anika2121/brain-bloom/internal/service"
	"github.com/Anika2121/brain-bloom/internal/tasks"
)

// QuizGenerateHandler builds a room's quiz and announces it on the room
// channel.
type QuizGenerateHandler struct {
	quizzes   *service.QuizService
	publisher service.EventPublisher
}

func NewQuizGenerateHandler(quizzes *service.QuizService, publisher service.EventPublisher) *QuizGenerateHandler {
	if quizzes == nil {
		panic("worker: quiz service is nil")
	}
	if publisher == nil {
		panic("worker: event publisher is nil")
	}
	return &QuizGenerateHandler{quizzes: quizzes, publisher: publisher}
}

func (h *QuizGenerateHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p tasks.QuizGeneratePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("worker: unmarshal quiz payload: %v: %w", err, asynq.SkipRetry)
	}
	logCtx := logrus.WithField("room_id", p.RoomID)

	generated, err := h.quizzes.GenerateForRoom(ctx, p.RoomID)
	if err != nil {
		// The room may have been swept between scheduling and execution.
		if errors.Is(err, service.ErrRoomNotFound) {
			logCtx.Info("Room gone, dropping quiz generation")
			return nil
		}
		return err
	}
	if generated == 0 {
		return nil
	}

	payloads, err := h.quizzes.QuizzesForRoom(ctx, p.RoomID)
	if err != nil {
		return err
	}
	h.publisher.Publish(p.RoomID, hub.NewQuizStartEvent())
	h.publisher.Publish(p.RoomID, hub.NewQuizEvent(payloads))
	logCtx.WithField("questions", generated).Info("Quiz announced")
	return nil
}
