// Package domain defines the persistent models and the pure room-phase
// logic shared by services, repositories and handlers.
package domain

import (
	"strings"
	"time"
)

// User represents a registered student.
type User struct {
	ID         uint      `gorm:"primaryKey"`
	Name       string    `gorm:"type:varchar(100);not null"`
	Email      string    `gorm:"type:varchar(191);uniqueIndex:idx_email;not null"`
	Password   string    `gorm:"type:text;not null"` // bcrypt hash
	IsVerified bool      `gorm:"not null;default:false"`
	Department string    `gorm:"type:varchar(100)"`
	Semester   string    `gorm:"type:varchar(50)"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

// DisplayName returns the trimmed name, falling back to the email local
// part when no name was set.
func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.Name)
	if name != "" {
		return name
	}
	if at := strings.IndexByte(u.Email, '@'); at > 0 {
		return u.Email[:at]
	}
	return u.Email
}

// OTP holds a one-time verification code sent by mail during signup and
// password recovery.
type OTP struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"type:varchar(191);index;not null"`
	Code      string    `gorm:"type:varchar(6);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
