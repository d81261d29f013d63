package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ledgerline/internal/models"
	"github.com/ledgerline/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Client{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

type sentSMS struct {
	To   string
	Body string
}

type fakeSMSSender struct {
	mu       sync.Mutex
	messages []sentSMS
	err      error
}

func (f *fakeSMSSender) SendSMS(_ context.Context, toPhone, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, sentSMS{To: toPhone, Body: body})
	return nil
}

func (f *fakeSMSSender) sent() []sentSMS {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sentSMS, len(f.messages))
	copy(out, f.messages)
	return out
}

type sentEmail struct {
	To      string
	Subject string
	Body    string
}

type fakeEmailSender struct {
	mu       sync.Mutex
	messages []sentEmail
	err      error
}

func (f *fakeEmailSender) SendEmail(_ context.Context, toEmail, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, sentEmail{To: toEmail, Subject: subject, Body: body})
	return nil
}

func (f *fakeEmailSender) sent() []sentEmail {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sentEmail, len(f.messages))
	copy(out, f.messages)
	return out
}

func newTestNotificationService(db *gorm.DB, sms *fakeSMSSender, email *fakeEmailSender) *NotificationService {
	return NewNotificationService(repository.NewNotificationRepository(db), sms, email)
}
