package tasks

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
)

// Enqueuer wraps the asynq client so services can enqueue work without
// knowing about task construction.
type Enqueuer struct {
	client *asynq.Client
}

func NewEnqueuer(client *asynq.Client) *Enqueuer {
	if client == nil {
		panic("tasks: asynq client is nil")
	}
	return &Enqueuer{client: client}
}

func (e *Enqueuer) EnqueueSummarize(ctx context.Context, p SummarizePayload) error {
	task, err := NewSummarizeTask(p)
	if err != nil {
		return err
	}
	if _, err := e.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("tasks: enqueue %s: %w", TypeSummarize, err)
	}
	return nil
}

func (e *Enqueuer) EnqueueQuizGenerate(ctx context.Context, roomID uint) error {
	task, err := NewQuizGenerateTask(roomID)
	if err != nil {
		return err
	}
	// TaskID dedup keeps repeated room observations from piling up identical
	// generation jobs while one is still pending.
	opts := []asynq.Option{asynq.TaskID(fmt.Sprintf("quiz:generate:%d", roomID))}
	if _, err := e.client.EnqueueContext(ctx, task, opts...); err != nil {
		if err == asynq.ErrTaskIDConflict || err == asynq.ErrDuplicateTask {
			return nil
		}
		return fmt.Errorf("tasks: enqueue %s: %w", TypeQuizGenerate, err)
	}
	return nil
}
