package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Anika2121/brain-bloom/internal/domain"
	"github.com/Anika2121/brain-bloom/internal/repository"
)

const (
	joinCodeCharset  = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	joinCodeLength   = 6
	joinCodeAttempts = 10
)

// CreateRoomInput carries the fields a creator supplies for a new room.
type CreateRoomInput struct {
	Title      string
	Course     string
	Department string
	Topic      string
	StartAt    time.Time
	Visibility string
}

// RoomService owns room lifecycle: creation, membership, listing and the
// periodic removal of expired rooms.
type RoomService struct {
	roomRepo  repository.RoomRepository
	userRepo  repository.UserRepository
	stateRepo repository.StateRepository
	now       func() time.Time
}

func NewRoomService(roomRepo repository.RoomRepository, userRepo repository.UserRepository, stateRepo repository.StateRepository) *RoomService {
	if roomRepo == nil {
		panic("service: room repository is nil")
	}
	if userRepo == nil {
		panic("service: user repository is nil")
	}
	return &RoomService{
		roomRepo:  roomRepo,
		userRepo:  userRepo,
		stateRepo: stateRepo,
		now:       time.Now,
	}
}

// CreateRoom validates the input, assigns a join code to private rooms and
// persists the room with its creator as the first participant.
func (s *RoomService) CreateRoom(ctx context.Context, creatorID uint, in CreateRoomInput) (*domain.Room, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Course = strings.TrimSpace(in.Course)
	if in.Title == "" || in.Course == "" {
		return nil, fmt.Errorf("%w: title and course are required", ErrValidation)
	}
	if in.StartAt.IsZero() {
		return nil, fmt.Errorf("%w: start time is required", ErrValidation)
	}
	switch in.Visibility {
	case "":
		in.Visibility = domain.VisibilityPublic
	case domain.VisibilityPublic, domain.VisibilityPrivate:
	default:
		return nil, fmt.Errorf("%w: visibility must be public or private", ErrValidation)
	}

	room := &domain.Room{
		Title:      in.Title,
		Course:     in.Course,
		Department: strings.TrimSpace(in.Department),
		Topic:      strings.TrimSpace(in.Topic),
		StartAt:    in.StartAt.UTC(),
		Visibility: in.Visibility,
		CreatorID:  creatorID,
	}
	if in.Visibility == domain.VisibilityPrivate {
		code, err := s.generateUniqueJoinCode(ctx)
		if err != nil {
			return nil, err
		}
		room.JoinCode = code
	}

	if err := s.roomRepo.Save(ctx, room); err != nil {
		if errors.Is(err, repository.ErrDuplicateEntry) {
			return nil, ErrDuplicateRoom
		}
		return nil, fmt.Errorf("service: save room: %w", err)
	}
	if err := s.roomRepo.AddParticipant(ctx, room.ID, creatorID); err != nil {
		logrus.WithFields(logrus.Fields{"room_id": room.ID, "user_id": creatorID, "error": err}).
			Warn("Failed to add creator as participant")
	}
	return room, nil
}

// FindRoom loads a room and enforces expiry: an expired room behaves as if
// it no longer exists.
func (s *RoomService) FindRoom(ctx context.Context, roomID uint) (*domain.Room, error) {
	room, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("service: load room: %w", err)
	}
	if room.Expired(s.now()) {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// JoinPublic adds the user to a public room.
func (s *RoomService) JoinPublic(ctx context.Context, userID, roomID uint) (*domain.Room, error) {
	room, err := s.FindRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.Visibility != domain.VisibilityPublic {
		return nil, fmt.Errorf("%w: room requires a join code", ErrValidation)
	}
	if err := s.roomRepo.AddParticipant(ctx, room.ID, userID); err != nil {
		return nil, fmt.Errorf("service: add participant: %w", err)
	}
	return room, nil
}

// JoinByCode adds the user to the private room matching the code.
func (s *RoomService) JoinByCode(ctx context.Context, userID uint, code string) (*domain.Room, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrInvalidJoinCode
	}
	room, err := s.roomRepo.FindByJoinCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidJoinCode
		}
		return nil, fmt.Errorf("service: find by join code: %w", err)
	}
	if room.Expired(s.now()) {
		return nil, ErrInvalidJoinCode
	}
	if err := s.roomRepo.AddParticipant(ctx, room.ID, userID); err != nil {
		return nil, fmt.Errorf("service: add participant: %w", err)
	}
	return room, nil
}

// Leave removes the user from the room's participant set.
func (s *RoomService) Leave(ctx context.Context, userID, roomID uint) error {
	if _, err := s.FindRoom(ctx, roomID); err != nil {
		return err
	}
	if err := s.roomRepo.RemoveParticipant(ctx, roomID, userID); err != nil {
		return fmt.Errorf("service: remove participant: %w", err)
	}
	return nil
}

// RequireMember verifies membership; creators are always members.
func (s *RoomService) RequireMember(ctx context.Context, roomID, userID uint) error {
	ok, err := s.roomRepo.IsMember(ctx, roomID, userID)
	if err != nil {
		return fmt.Errorf("service: check membership: %w", err)
	}
	if !ok {
		return ErrNotRoomMember
	}
	return nil
}

// ListPublic returns public rooms that have not expired, soonest first.
func (s *RoomService) ListPublic(ctx context.Context) ([]domain.Room, error) {
	rooms, err := s.roomRepo.FindPublic(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: list public rooms: %w", err)
	}
	now := s.now()
	live := rooms[:0]
	for _, r := range rooms {
		if !r.Expired(now) {
			live = append(live, r)
		}
	}
	return live, nil
}

// SweepExpired deletes every expired room along with its dependent rows and
// any per-room state in redis. It is the only code path that deletes rooms.
func (s *RoomService) SweepExpired(ctx context.Context) (int, error) {
	rooms, err := s.roomRepo.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("service: list rooms: %w", err)
	}
	now := s.now()
	deleted := 0
	for _, r := range rooms {
		if !r.Expired(now) {
			continue
		}
		logCtx := logrus.WithFields(logrus.Fields{"room_id": r.ID, "title": r.Title})
		if err := s.roomRepo.Delete(ctx, r.ID); err != nil {
			logCtx.WithField("error", err).Error("Failed to delete expired room")
			continue
		}
		if s.stateRepo != nil {
			if err := s.stateRepo.CleanupRoomState(ctx, r.ID); err != nil {
				logCtx.WithField("error", err).Warn("Failed to clean room state")
			}
		}
		logCtx.Info("Removed expired room")
		deleted++
	}
	return deleted, nil
}

// RoomsInQuizPhase returns rooms currently inside their quiz window.
func (s *RoomService) RoomsInQuizPhase(ctx context.Context) ([]domain.Room, error) {
	rooms, err := s.roomRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: list rooms: %w", err)
	}
	now := s.now()
	var out []domain.Room
	for _, r := range rooms {
		if r.PhaseAt(now) == domain.PhaseQuiz {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *RoomService) generateUniqueJoinCode(ctx context.Context) (string, error) {
	for i := 0; i < joinCodeAttempts; i++ {
		buf := make([]byte, joinCodeLength)
		for j := range buf {
			buf[j] = joinCodeCharset[rand.Intn(len(joinCodeCharset))]
		}
		code := string(buf)
		taken, err := s.roomRepo.IsJoinCodeTaken(ctx, code)
		if err != nil {
			return "", fmt.Errorf("service: check join code: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", fmt.Errorf("service: could not generate a unique join code")
}
