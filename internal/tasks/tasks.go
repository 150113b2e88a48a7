package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// Task type names routed through asynq.
const (
	TypeSummarize    = "summary:generate"
	TypeQuizGenerate = "quiz:generate"
	TypeRoomSweep    = "room:sweep"
)

// SummarizePayload carries one uploaded PDF through the summarization
// pipeline. StoredName is the unique on-disk name; PDFName is the original
// filename shown to users.
type SummarizePayload struct {
	RoomID     uint   `json:"room_id"`
	UploaderID uint   `json:"uploader_id"`
	PDFName    string `json:"pdf_name"`
	StoredName string `json:"stored_name"`
}

// QuizGeneratePayload identifies the room whose quizzes should be built.
type QuizGeneratePayload struct {
	RoomID uint `json:"room_id"`
}

// NewSummarizeTask builds a summarization task for the critical queue.
func NewSummarizeTask(p SummarizePayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("tasks: marshal summarize payload: %w", err)
	}
	return asynq.NewTask(TypeSummarize, payload,
		asynq.Queue("critical"),
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Minute),
	), nil
}

// NewQuizGenerateTask builds a quiz generation task for a room.
func NewQuizGenerateTask(roomID uint) (*asynq.Task, error) {
	payload, err := json.Marshal(QuizGeneratePayload{RoomID: roomID})
	if err != nil {
		return nil, fmt.Errorf("tasks: marshal quiz payload: %w", err)
	}
	return asynq.NewTask(TypeQuizGenerate, payload,
		asynq.Queue("default"),
		asynq.MaxRetry(2),
		asynq.Timeout(5*time.Minute),
	), nil
}

// NewRoomSweepTask builds the periodic lifecycle sweep task. It carries no
// payload; the handler scans all rooms.
func NewRoomSweepTask() *asynq.Task {
	return asynq.NewTask(TypeRoomSweep, nil,
		asynq.Queue("low"),
		asynq.MaxRetry(1),
		asynq.Timeout(2*time.Minute),
	)
}
