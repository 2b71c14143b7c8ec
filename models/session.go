package models

import (
	"time"

	"github.com/lib/pq"
)

// Session is the persisted server-side session of a logged in user
type Session struct {
	ID            string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID        uint           `json:"user_id" gorm:"not null;index"`
	Role          Role           `json:"role" gorm:"type:varchar(20);not null"`
	DisplayName   string         `json:"display_name" gorm:"type:varchar(150)"`
	SealedToken   []byte         `json:"-" gorm:"type:bytea;not null"`
	SearchHistory pq.StringArray `json:"search_history" gorm:"type:text[]"`
	ExpiresAt     time.Time      `json:"expires_at" gorm:"not null;index"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// TableName specifies the table name for Session
func (Session) TableName() string {
	return "sessions"
}

// IsExpired reports whether the session is past its expiry at t
func (s *Session) IsExpired(t time.Time) bool {
	return !t.Before(s.ExpiresAt)
}
