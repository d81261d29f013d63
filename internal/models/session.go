package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session records an authenticated device. Tokens carry the session id;
// deleting the row invalidates the token.
type Session struct {
	ID        string    `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    string    `gorm:"type:varchar(36);index;not null" json:"user_id"`
	IPAddress string    `gorm:"default:''" json:"ip_address"`
	UserAgent string    `gorm:"default:''" json:"user_agent"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the table name.
func (Session) TableName() string {
	return "sessions"
}

// BeforeCreate assigns a UUID primary key.
func (s *Session) BeforeCreate(*gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
