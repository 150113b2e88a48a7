package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"github.com/Anika2121/brain-bloom/internal/domain"
	"github.com/Anika2121/brain-bloom/internal/hub"
	"github.com/Anika2121/brain-bloom/internal/repository"
)

const aiUsername = "AI"

var mentionPattern = regexp.MustCompile(`@(\w+)`)

// ChatService persists chat messages, resolves @mentions and answers
// @ai questions against the room's summaries.
type ChatService struct {
	chatRepo    repository.ChatRepository
	userRepo    repository.UserRepository
	summaryRepo repository.SummaryRepository
	answerer    QuestionAnswerer

	// mentionCache maps lowercased mention tokens to resolved display
	// names so bursts of chat do not hammer the users table.
	mentionCache *cache.Cache
	now          func() time.Time
}

func NewChatService(chatRepo repository.ChatRepository, userRepo repository.UserRepository, summaryRepo repository.SummaryRepository, answerer QuestionAnswerer) *ChatService {
	if chatRepo == nil {
		panic("service: chat repository is nil")
	}
	if userRepo == nil {
		panic("service: user repository is nil")
	}
	if summaryRepo == nil {
		panic("service: summary repository is nil")
	}
	return &ChatService{
		chatRepo:     chatRepo,
		userRepo:     userRepo,
		summaryRepo:  summaryRepo,
		answerer:     answerer,
		mentionCache: cache.New(5*time.Minute, 10*time.Minute),
		now:          time.Now,
	}
}

// HandleChatMessage persists an inbound message and returns the events to
// broadcast: the message itself and, for @ai questions, the AI reply.
func (s *ChatService) HandleChatMessage(ctx context.Context, roomID, userID uint, message string) ([]hub.Event, error) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty message", ErrValidation)
	}

	sender, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("service: load sender: %w", err)
	}

	isAIQuery := strings.HasPrefix(strings.ToLower(trimmed), "@ai")
	var mentions []string
	if !isAIQuery {
		mentions = s.resolveMentions(ctx, trimmed)
	}

	msg := &domain.ChatMessage{RoomID: roomID, SenderID: &userID, Message: trimmed}
	if err := s.chatRepo.Save(ctx, msg); err != nil {
		return nil, fmt.Errorf("service: save chat message: %w", err)
	}

	senderID := userID
	events := []hub.Event{hub.ChatMessageEvent{
		Type:      hub.EventChatMessage,
		Message:   trimmed,
		UserID:    &senderID,
		Username:  sender.DisplayName(),
		Timestamp: s.eventTime(msg.Timestamp),
		Mentions:  mentions,
	}}

	if isAIQuery {
		reply := s.aiReply(ctx, roomID, trimmed)
		aiMsg := &domain.ChatMessage{RoomID: roomID, Message: reply, IsAIResponse: true}
		if err := s.chatRepo.Save(ctx, aiMsg); err != nil {
			logrus.WithFields(logrus.Fields{"room_id": roomID, "error": err}).Error("Failed to persist AI reply")
		}
		events = append(events, hub.ChatMessageEvent{
			Type:         hub.EventChatMessage,
			Message:      reply,
			Username:     aiUsername,
			Timestamp:    s.eventTime(aiMsg.Timestamp),
			Mentions:     []string{},
			IsAIResponse: true,
		})
	}
	return events, nil
}

// History returns the room's chat log, oldest first.
func (s *ChatService) History(ctx context.Context, roomID uint) ([]domain.ChatMessage, error) {
	messages, err := s.chatRepo.FindByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("service: load chat history: %w", err)
	}
	return messages, nil
}

// resolveMentions maps @tokens onto registered display names,
// case-insensitively. Unknown tokens are dropped.
func (s *ChatService) resolveMentions(ctx context.Context, message string) []string {
	seen := make(map[string]bool)
	var resolved []string
	for _, match := range mentionPattern.FindAllStringSubmatch(message, -1) {
		token := strings.ToLower(match[1])
		if token == "ai" || seen[token] {
			continue
		}
		seen[token] = true

		if cached, ok := s.mentionCache.Get(token); ok {
			if name, ok := cached.(string); ok && name != "" {
				resolved = append(resolved, name)
			}
			continue
		}

		user, err := s.userRepo.FindByNameInsensitive(ctx, match[1])
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				logrus.WithFields(logrus.Fields{"mention": token, "error": err}).Warn("Mention lookup failed")
			}
			// Negative entries keep repeated unknown tokens cheap.
			s.mentionCache.SetDefault(token, "")
			continue
		}
		name := user.DisplayName()
		s.mentionCache.SetDefault(token, name)
		resolved = append(resolved, name)
	}
	return resolved
}

func (s *ChatService) aiReply(ctx context.Context, roomID uint, message string) string {
	question := strings.TrimSpace(message[len("@ai"):])
	if question == "" {
		return "Please ask a valid question after @ai."
	}

	texts, err := s.summaryRepo.TextsByRoom(ctx, roomID)
	if err != nil {
		return "Sorry, I couldn't process your question: " + err.Error()
	}
	if len(texts) == 0 {
		return "No summaries available to answer questions. Please upload a PDF first."
	}

	qaCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	answer, err := s.answerer.Answer(qaCtx, question, strings.Join(texts, "\n\n"))
	if err != nil {
		logrus.WithFields(logrus.Fields{"room_id": roomID, "error": err}).Error("AI question answering failed")
		return "Sorry, I couldn't process your question: " + err.Error()
	}
	return answer
}

func (s *ChatService) eventTime(t time.Time) string {
	if t.IsZero() {
		t = s.now()
	}
	return t.UTC().Format(time.RFC3339)
}
