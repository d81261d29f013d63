package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client is a billable customer owned by a user.
type Client struct {
	ID        string         `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    string         `gorm:"type:varchar(36);index;not null" json:"user_id"`
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `gorm:"not null" json:"email"`
	Phone     string         `gorm:"default:''" json:"phone"`
	Notes     string         `gorm:"type:text;default:''" json:"notes"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Client) TableName() string {
	return "clients"
}

// BeforeCreate assigns a UUID primary key.
func (c *Client) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
