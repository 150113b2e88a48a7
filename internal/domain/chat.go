package domain

import "time"

// ChatMessage is one message in a room's chat. SenderID is nil for
// AI-authored replies.
type ChatMessage struct {
	ID           uint      `gorm:"primaryKey"`
	RoomID       uint      `gorm:"not null;index"`
	SenderID     *uint     `gorm:"index"`
	Message      string    `gorm:"type:text;not null"`
	IsAIResponse bool      `gorm:"not null;default:false"`
	Timestamp    time.Time `gorm:"autoCreateTime;index"`

	Room   Room  `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE"`
	Sender *User `gorm:"foreignKey:SenderID"`
}
