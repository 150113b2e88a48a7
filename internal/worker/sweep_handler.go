package worker

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/Anika2121/brain-bloom/internal/service"
)

// RoomSweepHandler is the periodic lifecycle driver: it deletes expired
// rooms and kicks off quiz generation for rooms that entered their quiz
// window without being observed by any client.
type RoomSweepHandler struct {
	rooms   *service.RoomService
	quizzes *service.QuizService
}

func NewRoomSweepHandler(rooms *service.RoomService, quizzes *service.QuizService) *RoomSweepHandler {
	if rooms == nil {
		panic("worker: room service is nil")
	}
	if quizzes == nil {
		panic("worker: quiz service is nil")
	}
	return &RoomSweepHandler{rooms: rooms, quizzes: quizzes}
}

func (h *RoomSweepHandler) ProcessTask(ctx context.Context, _ *asynq.Task) error {
	deleted, err := h.rooms.SweepExpired(ctx)
	if err != nil {
		return err
	}
	if deleted > 0 {
		logrus.WithField("rooms", deleted).Info("Swept expired rooms")
	}

	inQuiz, err := h.rooms.RoomsInQuizPhase(ctx)
	if err != nil {
		return err
	}
	for i := range inQuiz {
		room := &inQuiz[i]
		if err := h.quizzes.EnsureQuizzes(ctx, room); err != nil {
			logrus.WithFields(logrus.Fields{"room_id": room.ID, "error": err}).Error("Failed to schedule quiz generation")
		}
	}
	return nil
}
