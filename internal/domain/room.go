package domain

import "time"

// Room visibility values.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// Room is a scheduled collaborative study session. Its lifecycle phase is
// never stored; it is recomputed from StartAt on every observation (see
// phase.go).
type Room struct {
	ID         uint      `gorm:"primaryKey"`
	Title      string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_room_identity"`
	Course     string    `gorm:"type:varchar(100);not null"`
	Department string    `gorm:"type:varchar(100)"`
	Topic      string    `gorm:"type:varchar(100)"`
	StartAt    time.Time `gorm:"not null;index;uniqueIndex:idx_room_identity"`
	Visibility string    `gorm:"type:varchar(10);not null;default:'public'"`
	JoinCode   string    `gorm:"type:varchar(10)"` // set for private rooms only
	CreatorID  uint      `gorm:"not null;index;uniqueIndex:idx_room_identity"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`

	Creator      User   `gorm:"foreignKey:CreatorID"`
	Participants []User `gorm:"many2many:room_participants;"`
}

// PhaseAt returns the room's lifecycle phase at the given instant.
func (r *Room) PhaseAt(now time.Time) Phase {
	return PhaseOf(r.StartAt, now)
}

// Expired reports whether the room's ranking window has elapsed.
func (r *Room) Expired(now time.Time) bool {
	return r.PhaseAt(now) == PhaseExpired
}
