package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ledgerline/internal/constants"
	"github.com/ledgerline/internal/models"

	"gorm.io/gorm"
)

func setupNotificationTest(t *testing.T) (*NotificationService, *fakeSMSSender, *fakeEmailSender, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t)
	sms := &fakeSMSSender{}
	email := &fakeEmailSender{}
	return newTestNotificationService(db, sms, email), sms, email, db
}

func TestDeliverSMSRecordsAuditBeforeTransport(t *testing.T) {
	svc, sms, _, db := setupNotificationTest(t)
	sms.err = errors.New("provider down")

	recipient := Recipient{Type: constants.RecipientTypeUser, ID: "user-1", PhoneNumber: "+15555550123"}
	notification, err := svc.DeliverSMS(context.Background(), recipient, "hello", constants.NotificationTypeGeneric)
	if err == nil {
		t.Fatalf("transport failure should surface")
	}
	if notification == nil {
		t.Fatalf("audit row should be returned on failure")
	}

	// The row was written before the transport call and keeps the error.
	var stored models.Notification
	if err := db.First(&stored, "id = ?", notification.ID).Error; err != nil {
		t.Fatalf("reload notification failed: %v", err)
	}
	if stored.ErrorMessage != "provider down" {
		t.Fatalf("error_message want %q got %q", "provider down", stored.ErrorMessage)
	}
	if stored.DeliveredAt != nil {
		t.Fatalf("failed delivery must not be marked delivered")
	}
}

func TestDeliverSMSMarksDelivered(t *testing.T) {
	svc, _, _, db := setupNotificationTest(t)

	recipient := Recipient{Type: constants.RecipientTypeUser, ID: "user-1", PhoneNumber: "+15555550123"}
	notification, err := svc.DeliverSMS(context.Background(), recipient, "hello", constants.NotificationTypeVerificationCode)
	if err != nil {
		t.Fatalf("deliver failed: %v", err)
	}

	var stored models.Notification
	if err := db.First(&stored, "id = ?", notification.ID).Error; err != nil {
		t.Fatalf("reload notification failed: %v", err)
	}
	if !stored.Delivered() {
		t.Fatalf("delivery should be marked delivered")
	}
	if stored.DeliveryMethod != constants.DeliveryMethodSMS {
		t.Fatalf("delivery_method want sms got %s", stored.DeliveryMethod)
	}
	if stored.NotificationType != constants.NotificationTypeVerificationCode {
		t.Fatalf("notification_type want verification_code got %s", stored.NotificationType)
	}
}

func TestDeliverRequiresChannelAddress(t *testing.T) {
	svc, _, _, db := setupNotificationTest(t)
	ctx := context.Background()

	recipient := Recipient{Type: constants.RecipientTypeUser, ID: "user-1"}
	if _, err := svc.DeliverSMS(ctx, recipient, "x", constants.NotificationTypeGeneric); !errors.Is(err, ErrChannelUnsupported) {
		t.Fatalf("sms without phone want ErrChannelUnsupported got %v", err)
	}
	if _, err := svc.DeliverEmail(ctx, recipient, "s", "x", constants.NotificationTypeGeneric); !errors.Is(err, ErrChannelUnsupported) {
		t.Fatalf("email without address want ErrChannelUnsupported got %v", err)
	}

	var count int64
	if err := db.Model(&models.Notification{}).Count(&count).Error; err != nil {
		t.Fatalf("count notifications failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("no audit rows expected, got %d", count)
	}
}

func TestDeliverMultiChannelPartialFailure(t *testing.T) {
	svc, sms, email, _ := setupNotificationTest(t)
	sms.err = errors.New("provider down")

	recipient := Recipient{
		Type:        constants.RecipientTypeClient,
		ID:          "client-1",
		PhoneNumber: "+15555550123",
		Email:       "billing@example.com",
	}
	results := svc.DeliverMultiChannel(context.Background(), recipient, "subject", "body", constants.NotificationTypeInvoiceStatus)
	if len(results) != 2 {
		t.Fatalf("results want 2 got %d", len(results))
	}
	if results[0].ErrorMessage == "" {
		t.Fatalf("sms result should carry the transport error")
	}
	if results[1].DeliveredAt == nil {
		t.Fatalf("email result should be delivered")
	}
	if len(email.messages) != 1 {
		t.Fatalf("email sends want 1 got %d", len(email.messages))
	}
}

func TestListForRecipient(t *testing.T) {
	svc, _, _, _ := setupNotificationTest(t)
	ctx := context.Background()

	recipient := Recipient{Type: constants.RecipientTypeUser, ID: "user-1", PhoneNumber: "+15555550123"}
	for i := 0; i < 3; i++ {
		if _, err := svc.DeliverSMS(ctx, recipient, "hi", constants.NotificationTypeGeneric); err != nil {
			t.Fatalf("deliver %d failed: %v", i, err)
		}
	}
	other := Recipient{Type: constants.RecipientTypeUser, ID: "user-2", PhoneNumber: "+15555550124"}
	if _, err := svc.DeliverSMS(ctx, other, "hi", constants.NotificationTypeGeneric); err != nil {
		t.Fatalf("deliver other failed: %v", err)
	}

	rows, total, err := svc.ListForRecipient(ctx, constants.RecipientTypeUser, "user-1", 1, 20)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 3 || len(rows) != 3 {
		t.Fatalf("list want 3 rows got total=%d len=%d", total, len(rows))
	}
}
