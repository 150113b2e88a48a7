// Package gormpersistence implements the repository interfaces on GORM
// with the MySQL driver.
package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/Anika2121/brain-bloom/internal/domain"
	"github.com/Anika2121/brain-bloom/internal/repository"
)

// GormRoomRepository is the GORM implementation of RoomRepository.
type GormRoomRepository struct {
	db *gorm.DB
}

func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	if db == nil {
		panic("database connection cannot be nil for GormRoomRepository")
	}
	return &GormRoomRepository{db: db}
}

func (r *GormRoomRepository) Save(ctx context.Context, room *domain.Room) error {
	err := r.db.WithContext(ctx).Save(room).Error
	if err != nil {
		if isDuplicateEntry(err) {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: save room (id: %d, title: %q): %w", room.ID, room.Title, err)
	}
	return nil
}

func (r *GormRoomRepository) FindByID(ctx context.Context, id uint) (*domain.Room, error) {
	var room domain.Room
	err := r.db.WithContext(ctx).First(&room, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRoomNotFound
		}
		return nil, fmt.Errorf("gorm: find room by id %d: %w", id, err)
	}
	return &room, nil
}

func (r *GormRoomRepository) FindByJoinCode(ctx context.Context, code string) (*domain.Room, error) {
	var room domain.Room
	err := r.db.WithContext(ctx).Where("join_code = ?", code).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRoomNotFound
		}
		return nil, fmt.Errorf("gorm: find room by join code %q: %w", code, err)
	}
	return &room, nil
}

func (r *GormRoomRepository) FindAll(ctx context.Context) ([]domain.Room, error) {
	var rooms []domain.Room
	if err := r.db.WithContext(ctx).Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("gorm: find all rooms: %w", err)
	}
	return rooms, nil
}

func (r *GormRoomRepository) FindPublic(ctx context.Context) ([]domain.Room, error) {
	var rooms []domain.Room
	err := r.db.WithContext(ctx).
		Where("visibility = ?", domain.VisibilityPublic).
		Order("start_at").
		Find(&rooms).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find public rooms: %w", err)
	}
	return rooms, nil
}

func (r *GormRoomRepository) AddParticipant(ctx context.Context, roomID, userID uint) error {
	room := domain.Room{ID: roomID}
	user := domain.User{ID: userID}
	err := r.db.WithContext(ctx).Model(&room).Association("Participants").Append(&user)
	if err != nil {
		return fmt.Errorf("gorm: add participant %d to room %d: %w", userID, roomID, err)
	}
	return nil
}

func (r *GormRoomRepository) RemoveParticipant(ctx context.Context, roomID, userID uint) error {
	room := domain.Room{ID: roomID}
	user := domain.User{ID: userID}
	err := r.db.WithContext(ctx).Model(&room).Association("Participants").Delete(&user)
	if err != nil {
		return fmt.Errorf("gorm: remove participant %d from room %d: %w", userID, roomID, err)
	}
	return nil
}

func (r *GormRoomRepository) IsMember(ctx context.Context, roomID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Room{}).
		Where("id = ? AND creator_id = ?", roomID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("gorm: check room creator: %w", err)
	}
	if count > 0 {
		return true, nil
	}
	err = r.db.WithContext(ctx).Table("room_participants").
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("gorm: check room membership: %w", err)
	}
	return count > 0, nil
}

func (r *GormRoomRepository) Members(ctx context.Context, roomID uint) ([]domain.User, error) {
	var room domain.Room
	err := r.db.WithContext(ctx).Preload("Participants").Preload("Creator").First(&room, roomID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRoomNotFound
		}
		return nil, fmt.Errorf("gorm: load members of room %d: %w", roomID, err)
	}
	members := room.Participants
	for _, p := range members {
		if p.ID == room.CreatorID {
			return members, nil
		}
	}
	return append(members, room.Creator), nil
}

// Delete removes the room and all dependents in one transaction. The
// explicit dependent deletes keep the cascade working even when the
// backing schema was created without FK constraints.
func (r *GormRoomRepository) Delete(ctx context.Context, roomID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("room_id = ?", roomID).Delete(&domain.QuizResponse{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", roomID).Delete(&domain.Quiz{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", roomID).Delete(&domain.ChatMessage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("room_id = ?", roomID).Delete(&domain.Summary{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM room_participants WHERE room_id = ?", roomID).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Room{}, roomID).Error
	})
	if err != nil {
		return fmt.Errorf("gorm: delete room %d: %w", roomID, err)
	}
	return nil
}

func (r *GormRoomRepository) IsJoinCodeTaken(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Room{}).Where("join_code = ?", code).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("gorm: count rooms by join code %q: %w", code, err)
	}
	return count > 0, nil
}

// isDuplicateEntry maps MySQL error 1062 to the repository sentinel.
func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
