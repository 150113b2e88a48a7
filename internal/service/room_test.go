package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Anika2121/brain-bloom/internal/domain"
	"github.com/Anika2121/brain-bloom/internal/repository"
	"github.com/Anika2121/brain-bloom/internal/repository/mocks"
	"github.com/Anika2121/brain-bloom/internal/service"
)

func newRoomService(roomRepo *mocks.RoomRepository, stateRepo *mocks.StateRepository) *service.RoomService {
	userRepo := new(mocks.UserRepository)
	var state repository.StateRepository
	if stateRepo != nil {
		state = stateRepo
	}
	return service.NewRoomService(roomRepo, userRepo, state)
}

func TestRoomService_CreateRoom_Public(t *testing.T) {
	roomRepo := new(mocks.RoomRepository)
	svc := newRoomService(roomRepo, nil)
	ctx := context.Background()
	start := time.Now().Add(2 * time.Hour)

	roomRepo.On("Save", ctx, mock.MatchedBy(func(r *domain.Room) bool {
		return r.Title == "Sorting deep dive" &&
			r.Visibility == domain.VisibilityPublic &&
			r.JoinCode == "" &&
			r.StartAt.Equal(start.UTC())
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Room).ID = 7
	}).Return(nil).Once()
	roomRepo.On("AddParticipant", ctx, uint(7), uint(3)).Return(nil).Once()

	room, err := svc.CreateRoom(ctx, 3, service.CreateRoomInput{
		Title:   "Sorting deep dive",
		Course:  "Algorithms",
		StartAt: start,
	})

	require.NoError(t, err)
	assert.Equal(t, uint(7), room.ID)
	roomRepo.AssertExpectations(t)
}

func TestRoomService_CreateRoom_PrivateGetsJoinCode(t *testing.T) {
	roomRepo := new(mocks.RoomRepository)
	svc := newRoomService(roomRepo, nil)
	ctx := context.Background()

	roomRepo.On("IsJoinCodeTaken", ctx, mock.AnythingOfType("string")).Return(false, nil).Once()
	roomRepo.On("Save", ctx, mock.MatchedBy(func(r *domain.Room) bool {
		return r.Visibility == domain.VisibilityPrivate && len(r.JoinCode) == 6
	})).Return(nil).Once()
	roomRepo.On("AddParticipant", ctx, mock.Anything, uint(1)).Return(nil).Once()

	room, err := svc.CreateRoom(ctx, 1, service.CreateRoomInput{
		Title:      "Closed session",
		Course:     "Data Structures",
		StartAt:    time.Now().Add(time.Hour),
		Visibility: domain.VisibilityPrivate,
	})

	require.NoError(t, err)
	assert.Len(t, room.JoinCode, 6)
	roomRepo.AssertExpectations(t)
}

func TestRoomService_CreateRoom_Duplicate(t *testing.T) {
	roomRepo := new(mocks.RoomRepository)
	svc := newRoomService(roomRepo, nil)
	ctx := context.Background()

	roomRepo.On("Save", ctx, mock.Anything).Return(repository.ErrDuplicateEntry).Once()

	_, err := svc.CreateRoom(ctx, 1, service.CreateRoomInput{
		Title:   "Repeat",
		Course:  "Algorithms",
		StartAt: time.Now().Add(time.Hour),
	})

	assert.ErrorIs(t, err, service.ErrDuplicateRoom)
	roomRepo.AssertExpectations(t)
}

func TestRoomService_CreateRoom_Validation(t *testing.T) {
	svc := newRoomService(new(mocks.RoomRepository), nil)
	ctx := context.Background()

	_, err := svc.CreateRoom(ctx, 1, service.CreateRoomInput{Course: "Algorithms", StartAt: time.Now()})
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = svc.CreateRoom(ctx, 1, service.CreateRoomInput{Title: "x", Course: "Algorithms"})
	assert.ErrorIs(t, err, service.ErrValidation)

	_, err = svc.CreateRoom(ctx, 1, service.CreateRoomInput{
		Title: "x", Course: "Algorithms", StartAt: time.Now(), Visibility: "secret",
	})
	assert.ErrorIs(t, err, service.ErrValidation)
}

func TestRoomService_FindRoom_ExpiredBehavesAsMissing(t *testing.T) {
	roomRepo := new(mocks.RoomRepository)
	svc := newRoomService(roomRepo, nil)
	ctx := context.Background()

	expired := &domain.Room{ID: 4, StartAt: time.Now().Add(-2 * time.Hour)}
	roomRepo.On("FindByID", ctx, uint(4)).Return(expired, nil).Once()

	_, err := svc.FindRoom(ctx, 4)
	assert.ErrorIs(t, err, service.ErrRoomNotFound)
	roomRepo.AssertExpectations(t)
}

func TestRoomService_JoinByCode(t *testing.T) {
	roomRepo := new(mocks.RoomRepository)
	svc := newRoomService(roomRepo, nil)
	ctx := context.Background()

	room := &domain.Room{ID: 9, StartAt: time.Now().Add(time.Hour), Visibility: domain.VisibilityPrivate, JoinCode: "AB12CD"}
	roomRepo.On("FindByJoinCode", ctx, "AB12CD").Return(room, nil).Once()
	roomRepo.On("AddParticipant", ctx, uint(9), uint(2)).Return(nil).Once()

	joined, err := svc.JoinByCode(ctx, 2, "ab12cd")
	require.NoError(t, err)
	assert.Equal(t, uint(9), joined.ID)

	roomRepo.On("FindByJoinCode", ctx, "NOPE00").Return(nil, repository.ErrNotFound).Once()
	_, err = svc.JoinByCode(ctx, 2, "nope00")
	assert.ErrorIs(t, err, service.ErrInvalidJoinCode)
	roomRepo.AssertExpectations(t)
}

func TestRoomService_SweepExpired(t *testing.T) {
	roomRepo := new(mocks.RoomRepository)
	stateRepo := new(mocks.StateRepository)
	svc := newRoomService(roomRepo, stateRepo)
	ctx := context.Background()

	now := time.Now()
	rooms := []domain.Room{
		{ID: 1, Title: "old", StartAt: now.Add(-1 * time.Hour)},
		{ID: 2, Title: "live", StartAt: now.Add(-5 * time.Minute)},
		{ID: 3, Title: "older", StartAt: now.Add(-3 * time.Hour)},
	}
	roomRepo.On("FindAll", ctx).Return(rooms, nil).Once()
	roomRepo.On("Delete", ctx, uint(1)).Return(nil).Once()
	roomRepo.On("Delete", ctx, uint(3)).Return(nil).Once()
	stateRepo.On("CleanupRoomState", ctx, uint(1)).Return(nil).Once()
	stateRepo.On("CleanupRoomState", ctx, uint(3)).Return(nil).Once()

	deleted, err := svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)
	roomRepo.AssertNotCalled(t, "Delete", ctx, uint(2))
	roomRepo.AssertExpectations(t)
	stateRepo.AssertExpectations(t)
}

func TestRoomService_ListPublic_FiltersExpired(t *testing.T) {
	roomRepo := new(mocks.RoomRepository)
	svc := newRoomService(roomRepo, nil)
	ctx := context.Background()

	now := time.Now()
	roomRepo.On("FindPublic", ctx).Return([]domain.Room{
		{ID: 1, StartAt: now.Add(-2 * time.Hour)},
		{ID: 2, StartAt: now.Add(time.Hour)},
	}, nil).Once()

	rooms, err := svc.ListPublic(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, uint(2), rooms[0].ID)
}
