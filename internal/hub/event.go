package hub

import "encoding/json"

// Wire event types fanned out to room subscribers.
const (
	EventChatMessage       = "chat_message"
	EventSummarizingStart  = "summarizing_start"
	EventChunkSummary      = "chunk_summary"
	EventFinalSummary      = "final_summary"
	EventRoomNotification  = "room_notification"
	EventQuizStart         = "quiz_start_notification"
	EventQuiz              = "quiz"
	EventRanking           = "ranking"
	EventError             = "error"
)

// Inbound message types accepted from clients.
const (
	InboundChatMessage  = "chat_message"
	InboundQuizResponse = "quiz_response"
)

// Event is a tagged payload deliverable to a room group. Concrete events
// carry their own `type` field so the client can dispatch on it.
type Event interface {
	EventType() string
}

// ChatMessageEvent carries one chat message. UserID is nil and Username
// is "AI" for AI-authored replies.
type ChatMessageEvent struct {
	Type         string   `json:"type"`
	Message      string   `json:"message"`
	UserID       *uint    `json:"user_id"`
	Username     string   `json:"username"`
	Timestamp    string   `json:"timestamp"`
	Mentions     []string `json:"mentions"`
	IsAIResponse bool     `json:"is_ai_response"`
}

func (ChatMessageEvent) EventType() string { return EventChatMessage }

// SummarizingStartEvent announces that a PDF upload entered the
// summarization pipeline.
type SummarizingStartEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewSummarizingStartEvent() SummarizingStartEvent {
	return SummarizingStartEvent{Type: EventSummarizingStart, Message: "Summarization in progress..."}
}

func (SummarizingStartEvent) EventType() string { return EventSummarizingStart }

// ChunkSummaryEvent streams one chunk's summary while a long document is
// still being processed.
type ChunkSummaryEvent struct {
	Type        string `json:"type"`
	Summary     string `json:"summary"`
	ChunkNumber int    `json:"chunk_number"`
}

func NewChunkSummaryEvent(summary string, chunkNumber int) ChunkSummaryEvent {
	return ChunkSummaryEvent{Type: EventChunkSummary, Summary: summary, ChunkNumber: chunkNumber}
}

func (ChunkSummaryEvent) EventType() string { return EventChunkSummary }

// FinalSummaryEvent carries the combined summary for a finished upload.
type FinalSummaryEvent struct {
	Type     string `json:"type"`
	Summary  string `json:"summary"`
	Username string `json:"username"`
	PDFName  string `json:"pdf_name"`
}

func NewFinalSummaryEvent(summary, username, pdfName string) FinalSummaryEvent {
	return FinalSummaryEvent{Type: EventFinalSummary, Summary: summary, Username: username, PDFName: pdfName}
}

func (FinalSummaryEvent) EventType() string { return EventFinalSummary }

// RoomNotificationEvent is a generic room-wide notice.
type RoomNotificationEvent struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Username string `json:"username,omitempty"`
}

func NewRoomNotificationEvent(message, username string) RoomNotificationEvent {
	return RoomNotificationEvent{Type: EventRoomNotification, Message: message, Username: username}
}

func (RoomNotificationEvent) EventType() string { return EventRoomNotification }

// QuizStartEvent announces that the quiz has been generated and the quiz
// phase is live.
type QuizStartEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewQuizStartEvent() QuizStartEvent {
	return QuizStartEvent{Type: EventQuizStart, Message: "Quiz has been started!"}
}

func (QuizStartEvent) EventType() string { return EventQuizStart }

// QuizPayload is one question as delivered to clients; the correct
// answer is never included.
type QuizPayload struct {
	ID       uint              `json:"id"`
	Question string            `json:"question"`
	Options  map[string]string `json:"options"`
}

// QuizEvent carries the full quiz list for the room.
type QuizEvent struct {
	Type    string        `json:"type"`
	Quizzes []QuizPayload `json:"quizzes"`
}

func NewQuizEvent(quizzes []QuizPayload) QuizEvent {
	return QuizEvent{Type: EventQuiz, Quizzes: quizzes}
}

func (QuizEvent) EventType() string { return EventQuiz }

// RankingEntry is one participant's score.
type RankingEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// RankingEvent carries the ordered name→score pairs for the ranking phase.
type RankingEvent struct {
	Type     string         `json:"type"`
	Rankings []RankingEntry `json:"rankings"`
}

func NewRankingEvent(rankings []RankingEntry) RankingEvent {
	return RankingEvent{Type: EventRanking, Rankings: rankings}
}

func (RankingEvent) EventType() string { return EventRanking }

// ErrorEvent is sent back to a single client whose inbound message could
// not be processed.
type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func NewErrorEvent(message string) ErrorEvent {
	return ErrorEvent{Type: EventError, Message: message}
}

func (ErrorEvent) EventType() string { return EventError }

// inboundMessage is the envelope clients send over the socket.
type inboundMessage struct {
	Type           string `json:"type"`
	Message        string `json:"message"`
	QuizID         uint   `json:"quiz_id"`
	SelectedAnswer string `json:"selected_answer"`
}

func marshalEvent(ev Event) ([]byte, error) {
	return json.Marshal(ev)
}
