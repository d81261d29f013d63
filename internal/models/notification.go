package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification is an append-only delivery audit row. The row is written
// before any transport call; delivered_at or error_message is filled in
// afterwards. Rows are never updated beyond that or deleted.
type Notification struct {
	ID               string     `gorm:"type:varchar(36);primarykey" json:"id"`
	RecipientType    string     `gorm:"index:idx_notifications_recipient;not null" json:"recipient_type"`
	RecipientID      string     `gorm:"type:varchar(36);index:idx_notifications_recipient;not null" json:"recipient_id"`
	NotificationType string     `gorm:"index;not null" json:"notification_type"`
	DeliveryMethod   string     `gorm:"not null" json:"delivery_method"`
	Content          string     `gorm:"type:text;not null" json:"content"`
	DeliveredAt      *time.Time `json:"delivered_at"`
	ErrorMessage     string     `gorm:"type:text;default:''" json:"error_message"`
	CreatedAt        time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TableName sets the table name.
func (Notification) TableName() string {
	return "notifications"
}

// BeforeCreate assigns a UUID primary key.
func (n *Notification) BeforeCreate(*gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

// Delivered reports whether the transport confirmed delivery.
func (n *Notification) Delivered() bool {
	return n.DeliveredAt != nil
}
