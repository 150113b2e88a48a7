package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Summary holds the generated summary and key points for one uploaded PDF.
// At most one summary may exist per (room, original filename); duplicate
// uploads are rejected, never overwritten.
type Summary struct {
	ID          uint      `gorm:"primaryKey"`
	RoomID      uint      `gorm:"not null;index;uniqueIndex:idx_summary_pdf;constraint:OnDelete:CASCADE"`
	UploaderID  uint      `gorm:"not null;index"`
	PDFName     string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_summary_pdf"` // original filename
	StoredName  string    `gorm:"type:varchar(255)"`                                      // uuid-prefixed stored filename
	SummaryText string    `gorm:"type:text;not null"`
	KeyPoints   string    `gorm:"type:text"` // JSON array of phrases, in extraction order
	UploadedAt  time.Time `gorm:"autoCreateTime;index"`

	Room     Room `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE"`
	Uploader User `gorm:"foreignKey:UploaderID"`
}

// ParseKeyPoints decodes the serialized key-point list.
func (s *Summary) ParseKeyPoints() ([]string, error) {
	if s.KeyPoints == "" || s.KeyPoints == "null" {
		return nil, nil
	}
	var points []string
	if err := json.Unmarshal([]byte(s.KeyPoints), &points); err != nil {
		return nil, fmt.Errorf("unmarshal key points: %w", err)
	}
	return points, nil
}

// SetKeyPoints serializes the key-point list into the KeyPoints column.
func (s *Summary) SetKeyPoints(points []string) error {
	data, err := json.Marshal(points)
	if err != nil {
		return fmt.Errorf("marshal key points: %w", err)
	}
	s.KeyPoints = string(data)
	return nil
}
