package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Quiz is one generated question for a room. Options maps option letters
// to option text: exactly {A,B} for true/false questions, {A,B,C,D}
// otherwise. CorrectAnswer is always one of the option keys.
type Quiz struct {
	ID            uint      `gorm:"primaryKey"`
	RoomID        uint      `gorm:"not null;index"`
	Question      string    `gorm:"type:text;not null"`
	Options       string    `gorm:"type:text;not null"`      // JSON letter -> option text
	CorrectAnswer string    `gorm:"type:varchar(1);not null"` // "A".."D"
	CreatedAt     time.Time `gorm:"autoCreateTime"`

	Room Room `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE"`
}

// ParseOptions decodes the option map.
func (q *Quiz) ParseOptions() (map[string]string, error) {
	var options map[string]string
	if err := json.Unmarshal([]byte(q.Options), &options); err != nil {
		return nil, fmt.Errorf("unmarshal quiz options: %w", err)
	}
	return options, nil
}

// SetOptions serializes the option map into the Options column.
func (q *Quiz) SetOptions(options map[string]string) error {
	data, err := json.Marshal(options)
	if err != nil {
		return fmt.Errorf("marshal quiz options: %w", err)
	}
	q.Options = string(data)
	return nil
}

// QuizResponse records a participant's selected letter for one quiz.
// The (room, user, quiz) triple is unique; resubmission overwrites.
type QuizResponse struct {
	ID             uint      `gorm:"primaryKey"`
	RoomID         uint      `gorm:"not null;uniqueIndex:idx_quiz_response"`
	UserID         uint      `gorm:"not null;uniqueIndex:idx_quiz_response"`
	QuizID         uint      `gorm:"not null;uniqueIndex:idx_quiz_response"`
	SelectedAnswer string    `gorm:"type:varchar(1);not null"`
	SubmittedAt    time.Time `gorm:"autoUpdateTime"`

	Room Room `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE"`
	User User `gorm:"foreignKey:UserID"`
	Quiz Quiz `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE"`
}
