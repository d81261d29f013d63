package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account owner. Depending on the configured auth mode an
// account is keyed by email (with a password) or by phone number.
type User struct {
	ID           string         `gorm:"type:varchar(36);primarykey" json:"id"`
	Email        *string        `gorm:"uniqueIndex" json:"email,omitempty"`
	PhoneNumber  *string        `gorm:"uniqueIndex" json:"phone_number,omitempty"`
	PasswordHash string         `json:"-"`
	Name         string         `gorm:"default:''" json:"name"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns a UUID primary key.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
