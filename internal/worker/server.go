// Package worker runs the asynq consumer that executes summarization,
// quiz generation and the periodic room lifecycle sweep.
package worker

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/Anika2121/brain-bloom/internal/tasks"
)

// Server wraps the asynq server and its task mux.
type Server struct {
	srv *asynq.Server
	mux *asynq.ServeMux
}

// NewServer builds the worker with weighted queues: uploads summarize on
// the critical queue so quiz generation and sweeps cannot starve them.
func NewServer(redisOpt asynq.RedisClientOpt, summarize *SummarizeHandler, quiz *QuizGenerateHandler, sweep *RoomSweepHandler) *Server {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
		Queues: map[string]int{
			"critical": 6,
			"default":  3,
			"low":      1,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			logrus.WithFields(logrus.Fields{
				"type":  task.Type(),
				"error": err,
			}).Error("Task processing failed")
		}),
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSummarize, summarize.ProcessTask)
	mux.HandleFunc(tasks.TypeQuizGenerate, quiz.ProcessTask)
	mux.HandleFunc(tasks.TypeRoomSweep, sweep.ProcessTask)

	return &Server{srv: srv, mux: mux}
}

// Start runs the consumer loop on its own goroutines.
func (s *Server) Start() error {
	return s.srv.Start(s.mux)
}

// Shutdown waits for in-flight tasks to finish.
func (s *Server) Shutdown() {
	s.srv.Shutdown()
}
