package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Anika2121/brain-bloom/internal/domain"
	"github.com/Anika2121/brain-bloom/internal/hub"
	"github.com/Anika2121/brain-bloom/internal/repository"
	"github.com/Anika2121/brain-bloom/internal/repository/mocks"
	"github.com/Anika2121/brain-bloom/internal/service"
)

func newChatService(chatRepo *mocks.ChatRepository, userRepo *mocks.UserRepository, summaryRepo *mocks.SummaryRepository, ml *fakeML) *service.ChatService {
	return service.NewChatService(chatRepo, userRepo, summaryRepo, ml)
}

func TestChatService_HandleChatMessage_WithMention(t *testing.T) {
	chatRepo := new(mocks.ChatRepository)
	userRepo := new(mocks.UserRepository)
	summaryRepo := new(mocks.SummaryRepository)
	svc := newChatService(chatRepo, userRepo, summaryRepo, &fakeML{})
	ctx := context.Background()

	sender := &domain.User{ID: 1, Name: "Rafi", Email: "rafi@example.com"}
	mentioned := &domain.User{ID: 2, Name: "Anika", Email: "anika@example.com"}
	userRepo.On("FindByID", ctx, uint(1)).Return(sender, nil).Once()
	userRepo.On("FindByNameInsensitive", ctx, "anika").Return(mentioned, nil).Once()
	chatRepo.On("Save", ctx, mock.MatchedBy(func(m *domain.ChatMessage) bool {
		return m.RoomID == 5 && m.SenderID != nil && *m.SenderID == 1 && !m.IsAIResponse
	})).Return(nil).Once()

	events, err := svc.HandleChatMessage(ctx, 5, 1, "hey @anika check slide 3")

	require.NoError(t, err)
	require.Len(t, events, 1)
	msg, ok := events[0].(hub.ChatMessageEvent)
	require.True(t, ok)
	assert.Equal(t, "Rafi", msg.Username)
	assert.Equal(t, []string{"Anika"}, msg.Mentions)
	assert.False(t, msg.IsAIResponse)
	chatRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestChatService_HandleChatMessage_MentionCacheAvoidsSecondLookup(t *testing.T) {
	chatRepo := new(mocks.ChatRepository)
	userRepo := new(mocks.UserRepository)
	summaryRepo := new(mocks.SummaryRepository)
	svc := newChatService(chatRepo, userRepo, summaryRepo, &fakeML{})
	ctx := context.Background()

	sender := &domain.User{ID: 1, Name: "Rafi"}
	mentioned := &domain.User{ID: 2, Name: "Anika"}
	userRepo.On("FindByID", ctx, uint(1)).Return(sender, nil).Twice()
	userRepo.On("FindByNameInsensitive", ctx, "Anika").Return(mentioned, nil).Once()
	chatRepo.On("Save", ctx, mock.Anything).Return(nil).Twice()

	_, err := svc.HandleChatMessage(ctx, 5, 1, "ping @Anika")
	require.NoError(t, err)
	_, err = svc.HandleChatMessage(ctx, 5, 1, "again @Anika")
	require.NoError(t, err)

	userRepo.AssertNumberOfCalls(t, "FindByNameInsensitive", 1)
}

func TestChatService_HandleChatMessage_AIEmptyQuestion(t *testing.T) {
	chatRepo := new(mocks.ChatRepository)
	userRepo := new(mocks.UserRepository)
	summaryRepo := new(mocks.SummaryRepository)
	svc := newChatService(chatRepo, userRepo, summaryRepo, &fakeML{})
	ctx := context.Background()

	userRepo.On("FindByID", ctx, uint(1)).Return(&domain.User{ID: 1, Name: "Rafi"}, nil).Once()
	chatRepo.On("Save", ctx, mock.Anything).Return(nil).Twice()

	events, err := svc.HandleChatMessage(ctx, 5, 1, "@ai   ")

	require.NoError(t, err)
	require.Len(t, events, 2)
	reply := events[1].(hub.ChatMessageEvent)
	assert.Equal(t, "Please ask a valid question after @ai.", reply.Message)
	assert.True(t, reply.IsAIResponse)
	assert.Equal(t, "AI", reply.Username)
	assert.Nil(t, reply.UserID)
	// The summary context is never consulted for an empty question.
	summaryRepo.AssertNotCalled(t, "TextsByRoom", mock.Anything, mock.Anything)
}

func TestChatService_HandleChatMessage_AINoSummaries(t *testing.T) {
	chatRepo := new(mocks.ChatRepository)
	userRepo := new(mocks.UserRepository)
	summaryRepo := new(mocks.SummaryRepository)
	ml := &fakeML{}
	svc := newChatService(chatRepo, userRepo, summaryRepo, ml)
	ctx := context.Background()

	userRepo.On("FindByID", ctx, uint(1)).Return(&domain.User{ID: 1, Name: "Rafi"}, nil).Once()
	summaryRepo.On("TextsByRoom", ctx, uint(5)).Return([]string{}, nil).Once()

	var saved []*domain.ChatMessage
	chatRepo.On("Save", ctx, mock.Anything).Run(func(args mock.Arguments) {
		saved = append(saved, args.Get(1).(*domain.ChatMessage))
	}).Return(nil).Twice()

	events, err := svc.HandleChatMessage(ctx, 5, 1, "@ai what is a heap?")

	require.NoError(t, err)
	require.Len(t, events, 2)
	reply := events[1].(hub.ChatMessageEvent)
	assert.Equal(t, "No summaries available to answer questions. Please upload a PDF first.", reply.Message)
	assert.Equal(t, 0, ml.answerCalls)

	// The AI reply is persisted with no sender.
	require.Len(t, saved, 2)
	assert.Nil(t, saved[1].SenderID)
	assert.True(t, saved[1].IsAIResponse)
}

func TestChatService_HandleChatMessage_AIAnswers(t *testing.T) {
	chatRepo := new(mocks.ChatRepository)
	userRepo := new(mocks.UserRepository)
	summaryRepo := new(mocks.SummaryRepository)
	ml := &fakeML{answer: func(question, contextText string) (string, error) {
		assert.Equal(t, "what is a heap?", question)
		assert.Contains(t, contextText, "heaps are trees")
		return "A heap is a tree-shaped priority structure.", nil
	}}
	svc := newChatService(chatRepo, userRepo, summaryRepo, ml)
	ctx := context.Background()

	userRepo.On("FindByID", ctx, uint(1)).Return(&domain.User{ID: 1, Name: "Rafi"}, nil).Once()
	summaryRepo.On("TextsByRoom", ctx, uint(5)).Return([]string{"heaps are trees"}, nil).Once()
	chatRepo.On("Save", ctx, mock.Anything).Return(nil).Twice()

	events, err := svc.HandleChatMessage(ctx, 5, 1, "@ai what is a heap?")

	require.NoError(t, err)
	reply := events[1].(hub.ChatMessageEvent)
	assert.Equal(t, "A heap is a tree-shaped priority structure.", reply.Message)
}

func TestChatService_HandleChatMessage_AIFailure(t *testing.T) {
	chatRepo := new(mocks.ChatRepository)
	userRepo := new(mocks.UserRepository)
	summaryRepo := new(mocks.SummaryRepository)
	ml := &fakeML{answer: func(string, string) (string, error) {
		return "", errors.New("model timeout")
	}}
	svc := newChatService(chatRepo, userRepo, summaryRepo, ml)
	ctx := context.Background()

	userRepo.On("FindByID", ctx, uint(1)).Return(&domain.User{ID: 1, Name: "Rafi"}, nil).Once()
	summaryRepo.On("TextsByRoom", ctx, uint(5)).Return([]string{"context"}, nil).Once()
	chatRepo.On("Save", ctx, mock.Anything).Return(nil).Twice()

	events, err := svc.HandleChatMessage(ctx, 5, 1, "@ai explain")

	require.NoError(t, err)
	reply := events[1].(hub.ChatMessageEvent)
	assert.Equal(t, "Sorry, I couldn't process your question: model timeout", reply.Message)
}

func TestChatService_HandleChatMessage_EmptyRejected(t *testing.T) {
	svc := newChatService(new(mocks.ChatRepository), new(mocks.UserRepository), new(mocks.SummaryRepository), &fakeML{})
	_, err := svc.HandleChatMessage(context.Background(), 5, 1, "   ")
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestChatService_HandleChatMessage_UnknownSender(t *testing.T) {
	chatRepo := new(mocks.ChatRepository)
	userRepo := new(mocks.UserRepository)
	svc := newChatService(chatRepo, userRepo, new(mocks.SummaryRepository), &fakeML{})
	ctx := context.Background()

	userRepo.On("FindByID", ctx, uint(99)).Return(nil, repository.ErrNotFound).Once()

	_, err := svc.HandleChatMessage(ctx, 5, 99, "hello")
	assert.ErrorIs(t, err, service.ErrUserNotFound)
	chatRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
