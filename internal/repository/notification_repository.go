package repository

import (
	"time"

	"github.com/ledgerline/internal/models"

	"gorm.io/gorm"
)

// NotificationRepository is the delivery audit trail interface. Rows are
// append-only: after creation only the delivery outcome may be written.
type NotificationRepository interface {
	Create(notification *models.Notification) error
	MarkDelivered(id string, at time.Time) error
	RecordError(id string, message string) error
	List(filter NotificationListFilter) ([]models.Notification, int64, error)
}

// GormNotificationRepository is the GORM implementation.
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates the notification repository.
func NewNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Create inserts an audit row.
func (r *GormNotificationRepository) Create(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// MarkDelivered records a successful transport call.
func (r *GormNotificationRepository) MarkDelivered(id string, at time.Time) error {
	return r.db.Model(&models.Notification{}).Where("id = ?", id).
		Update("delivered_at", at).Error
}

// RecordError records a failed transport call.
func (r *GormNotificationRepository) RecordError(id string, message string) error {
	return r.db.Model(&models.Notification{}).Where("id = ?", id).
		Update("error_message", message).Error
}

// List returns audit rows, newest first.
func (r *GormNotificationRepository) List(filter NotificationListFilter) ([]models.Notification, int64, error) {
	query := r.db.Model(&models.Notification{})

	if filter.RecipientType != "" {
		query = query.Where("recipient_type = ?", filter.RecipientType)
	}
	if filter.RecipientID != "" {
		query = query.Where("recipient_id = ?", filter.RecipientID)
	}
	if filter.NotificationType != "" {
		query = query.Where("notification_type = ?", filter.NotificationType)
	}
	if filter.DeliveryMethod != "" {
		query = query.Where("delivery_method = ?", filter.DeliveryMethod)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var notifications []models.Notification
	if err := query.Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}
