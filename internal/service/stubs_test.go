package service_test

import (
	"context"
	"sync"

	"github.com/Anika2121/brain-bloom/internal/hub"
	"github.com/Anika2121/brain-bloom/internal/tasks"
)

// fakeML is a scriptable stand-in for the ML sidecar client.
type fakeML struct {
	extractText   func(storedName string) (string, error)
	summarize     func(text string, maxLen, minLen int) (string, error)
	keyPoints     func(text string, n int) ([]string, error)
	answer        func(question, contextText string) (string, error)
	answerCalls   int
	extractCalls  int
	summarizeLens []int
}

func (f *fakeML) ExtractText(_ context.Context, storedName string) (string, error) {
	f.extractCalls++
	return f.extractText(storedName)
}

func (f *fakeML) Summarize(_ context.Context, text string, maxLen, minLen int) (string, error) {
	f.summarizeLens = append(f.summarizeLens, maxLen)
	return f.summarize(text, maxLen, minLen)
}

func (f *fakeML) ExtractKeyPoints(_ context.Context, text string, n int) ([]string, error) {
	return f.keyPoints(text, n)
}

func (f *fakeML) Answer(_ context.Context, question, contextText string) (string, error) {
	f.answerCalls++
	return f.answer(question, contextText)
}

// recordingPublisher captures events published to rooms.
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	RoomID uint
	Event  hub.Event
}

func (p *recordingPublisher) Publish(roomID uint, event hub.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{RoomID: roomID, Event: event})
}

func (p *recordingPublisher) byType(eventType string) []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []publishedEvent
	for _, e := range p.events {
		if e.Event.EventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}

// recordingEnqueuer captures queued background work.
type recordingEnqueuer struct {
	summarize []tasks.SummarizePayload
	quizRooms []uint
	err       error
}

func (e *recordingEnqueuer) EnqueueSummarize(_ context.Context, p tasks.SummarizePayload) error {
	if e.err != nil {
		return e.err
	}
	e.summarize = append(e.summarize, p)
	return nil
}

func (e *recordingEnqueuer) EnqueueQuizGenerate(_ context.Context, roomID uint) error {
	if e.err != nil {
		return e.err
	}
	e.quizRooms = append(e.quizRooms, roomID)
	return nil
}

// recordingMailer captures OTP deliveries.
type recordingMailer struct {
	sent []string
	err  error
}

func (m *recordingMailer) SendOTP(to, code string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, to+":"+code)
	return nil
}
