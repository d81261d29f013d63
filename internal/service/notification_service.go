package service

import (
	"context"
	"time"

	"github.com/ledgerline/internal/constants"
	"github.com/ledgerline/internal/logger"
	"github.com/ledgerline/internal/models"
	"github.com/ledgerline/internal/repository"
)

// Recipient is the polymorphic target of a notification.
type Recipient struct {
	Type        string
	ID          string
	PhoneNumber string
	Email       string
}

// RecipientFromUser builds a recipient reference for a user.
func RecipientFromUser(user *models.User) Recipient {
	r := Recipient{Type: constants.RecipientTypeUser, ID: user.ID}
	if user.PhoneNumber != nil {
		r.PhoneNumber = *user.PhoneNumber
	}
	if user.Email != nil {
		r.Email = *user.Email
	}
	return r
}

// RecipientFromClient builds a recipient reference for a client.
func RecipientFromClient(client *models.Client) Recipient {
	return Recipient{
		Type:        constants.RecipientTypeClient,
		ID:          client.ID,
		PhoneNumber: client.Phone,
		Email:       client.Email,
	}
}

// NotificationService is the delivery dispatcher. Every delivery attempt
// writes an audit row before the transport call, then records the
// outcome. The audit row survives transport failures.
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	smsSender        SMSSender
	emailSender      EmailSender
}

// NewNotificationService creates the dispatcher.
func NewNotificationService(notificationRepo repository.NotificationRepository, smsSender SMSSender, emailSender EmailSender) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		smsSender:        smsSender,
		emailSender:      emailSender,
	}
}

// DeliverSMS sends a text message and audits the attempt.
func (s *NotificationService) DeliverSMS(ctx context.Context, recipient Recipient, content, notificationType string) (*models.Notification, error) {
	if recipient.PhoneNumber == "" {
		return nil, ErrChannelUnsupported
	}
	return s.deliver(ctx, recipient, constants.DeliveryMethodSMS, content, notificationType, func() error {
		return s.smsSender.SendSMS(ctx, recipient.PhoneNumber, content)
	})
}

// DeliverEmail sends an email and audits the attempt.
func (s *NotificationService) DeliverEmail(ctx context.Context, recipient Recipient, subject, content, notificationType string) (*models.Notification, error) {
	if recipient.Email == "" {
		return nil, ErrChannelUnsupported
	}
	return s.deliver(ctx, recipient, constants.DeliveryMethodEmail, content, notificationType, func() error {
		return s.emailSender.SendEmail(ctx, recipient.Email, subject, content)
	})
}

// DeliverMultiChannel attempts every channel the recipient has an
// address for. A failed channel does not stop the others.
func (s *NotificationService) DeliverMultiChannel(ctx context.Context, recipient Recipient, subject, content, notificationType string) []*models.Notification {
	var results []*models.Notification
	if recipient.PhoneNumber != "" {
		if n, err := s.DeliverSMS(ctx, recipient, content, notificationType); n != nil {
			results = append(results, n)
		} else if err != nil {
			logger.Warnw("multi_channel_sms_failed",
				"recipient_type", recipient.Type,
				"recipient_id", recipient.ID,
				"error", err,
			)
		}
	}
	if recipient.Email != "" {
		if n, err := s.DeliverEmail(ctx, recipient, subject, content, notificationType); n != nil {
			results = append(results, n)
		} else if err != nil {
			logger.Warnw("multi_channel_email_failed",
				"recipient_type", recipient.Type,
				"recipient_id", recipient.ID,
				"error", err,
			)
		}
	}
	return results
}

// deliver writes the audit row, runs the transport, records the outcome.
// On transport failure the notification is returned along with the error
// so callers can decide what the failure means for their flow.
func (s *NotificationService) deliver(_ context.Context, recipient Recipient, method, content, notificationType string, send func() error) (*models.Notification, error) {
	notification := &models.Notification{
		RecipientType:    recipient.Type,
		RecipientID:      recipient.ID,
		NotificationType: notificationType,
		DeliveryMethod:   method,
		Content:          content,
	}
	if err := s.notificationRepo.Create(notification); err != nil {
		logger.Errorw("notification_record_create_failed",
			"recipient_type", recipient.Type,
			"recipient_id", recipient.ID,
			"method", method,
			"error", err,
		)
		return nil, err
	}

	if err := send(); err != nil {
		if recordErr := s.notificationRepo.RecordError(notification.ID, err.Error()); recordErr != nil {
			logger.Errorw("notification_error_record_failed",
				"notification_id", notification.ID,
				"error", recordErr,
			)
		}
		notification.ErrorMessage = err.Error()
		logger.Warnw("notification_delivery_failed",
			"notification_id", notification.ID,
			"method", method,
			"type", notificationType,
			"error", err,
		)
		return notification, err
	}

	now := time.Now()
	if err := s.notificationRepo.MarkDelivered(notification.ID, now); err != nil {
		logger.Errorw("notification_delivered_record_failed",
			"notification_id", notification.ID,
			"error", err,
		)
	}
	notification.DeliveredAt = &now
	logger.Infow("notification_delivered",
		"notification_id", notification.ID,
		"method", method,
		"type", notificationType,
	)
	return notification, nil
}

// ListForRecipient returns the recipient's audit trail.
func (s *NotificationService) ListForRecipient(_ context.Context, recipientType, recipientID string, page, pageSize int) ([]models.Notification, int64, error) {
	return s.notificationRepo.List(repository.NotificationListFilter{
		Page:          page,
		PageSize:      pageSize,
		RecipientType: recipientType,
		RecipientID:   recipientID,
	})
}
