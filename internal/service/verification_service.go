package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ledgerline/internal/cache"
	"github.com/ledgerline/internal/config"
	"github.com/ledgerline/internal/constants"
	"github.com/ledgerline/internal/logger"
	"github.com/ledgerline/internal/models"
	"github.com/ledgerline/internal/repository"
)

// VerificationService runs the SMS one-time-code flow. Codes and send
// counters live in the code store only; the database never sees them.
type VerificationService struct {
	cfg          *config.VerificationConfig
	store        cache.CodeStore
	userRepo     repository.UserRepository
	notification *NotificationService
}

// NewVerificationService creates the verification service.
func NewVerificationService(cfg *config.VerificationConfig, store cache.CodeStore, userRepo repository.UserRepository, notification *NotificationService) *VerificationService {
	return &VerificationService{
		cfg:          cfg,
		store:        store,
		userRepo:     userRepo,
		notification: notification,
	}
}

func (s *VerificationService) codeTTL() time.Duration {
	minutes := s.cfg.CodeExpireMinutes
	if minutes <= 0 {
		minutes = 10
	}
	return time.Duration(minutes) * time.Minute
}

func (s *VerificationService) sendWindow() time.Duration {
	minutes := s.cfg.WindowMinutes
	if minutes <= 0 {
		minutes = 60
	}
	return time.Duration(minutes) * time.Minute
}

func (s *VerificationService) maxSends() int64 {
	if s.cfg.MaxSendsPerWindow <= 0 {
		return 3
	}
	return int64(s.cfg.MaxSendsPerWindow)
}

// SendVerification generates a code, stores it and texts it to the
// phone. A repeat send replaces any pending code. The send counter uses
// a fixed window anchored at the first send; a blocked request has no
// side effects at all. A transport failure leaves the stored code in
// place, so the caller may retry delivery without minting a new code.
func (s *VerificationService) SendVerification(ctx context.Context, phone string) error {
	if !ValidPhoneNumber(phone) {
		return ErrInvalidPhoneNumber
	}

	attempts, err := s.store.GetAttempts(ctx, phone)
	if err != nil {
		logger.Errorw("verification_attempts_read_failed", "error", err)
		return ErrServiceUnavailable
	}
	if attempts >= s.maxSends() {
		logger.Infow("verification_send_rate_limited", "attempts", attempts)
		return ErrRateLimited
	}

	code, err := GenerateVerificationCode()
	if err != nil {
		logger.Errorw("verification_code_generate_failed", "error", err)
		return ErrServiceUnavailable
	}

	if err := s.store.PutCode(ctx, phone, code, s.codeTTL()); err != nil {
		logger.Errorw("verification_code_store_failed", "error", err)
		return ErrServiceUnavailable
	}
	if _, err := s.store.IncrAttempts(ctx, phone, s.sendWindow()); err != nil {
		logger.Errorw("verification_attempts_incr_failed", "error", err)
		return ErrServiceUnavailable
	}

	user, err := s.userRepo.FindOrCreateByPhone(phone)
	if err != nil {
		logger.Errorw("verification_user_resolve_failed", "error", err)
		return ErrServiceUnavailable
	}

	content := fmt.Sprintf("Your verification code is: %06d. This code expires in %d minutes.",
		code, int(s.codeTTL()/time.Minute))
	if _, err := s.notification.DeliverSMS(ctx, RecipientFromUser(user), content, constants.NotificationTypeVerificationCode); err != nil {
		logger.Errorw("verification_sms_delivery_failed", "user_id", user.ID, "error", err)
		return ErrServiceUnavailable
	}

	logger.Infow("verification_code_sent", "user_id", user.ID)
	return nil
}

// VerifyCode checks a submitted code against the stored one. A match
// consumes the code and clears the send counter, returning the verified
// user. A mismatch leaves everything in place so the user can retype.
func (s *VerificationService) VerifyCode(ctx context.Context, phone string, code int) (*models.User, error) {
	if !ValidPhoneNumber(phone) {
		return nil, ErrInvalidPhoneNumber
	}

	stored, found, err := s.store.GetCode(ctx, phone)
	if err != nil {
		logger.Errorw("verification_code_read_failed", "error", err)
		return nil, ErrServiceUnavailable
	}
	if !found {
		return nil, ErrSessionExpired
	}
	if stored != code {
		return nil, ErrInvalidCode
	}

	// Consume before looking the user up. Cleanup failures are logged
	// but never block an approved verification.
	if err := s.store.DeleteCode(ctx, phone); err != nil {
		logger.Warnw("verification_code_delete_failed", "error", err)
	}
	if err := s.store.ClearAttempts(ctx, phone); err != nil {
		logger.Warnw("verification_attempts_clear_failed", "error", err)
	}

	user, err := s.userRepo.FindOrCreateByPhone(phone)
	if err != nil {
		logger.Errorw("verification_user_resolve_failed", "error", err)
		return nil, ErrServiceUnavailable
	}

	logger.Infow("verification_code_approved", "user_id", user.ID)
	return user, nil
}
