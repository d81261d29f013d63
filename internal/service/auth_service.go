package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/ledgerline/internal/cache"
	"github.com/ledgerline/internal/config"
	"github.com/ledgerline/internal/constants"
	"github.com/ledgerline/internal/logger"
	"github.com/ledgerline/internal/models"
	"github.com/ledgerline/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// SessionClaims are the JWT claims for an authenticated session. The
// token is only as valid as its session row; deleting the row logs the
// device out.
type SessionClaims struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// AuthResult is a freshly established session.
type AuthResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

// userStrategy validates identity input for one auth mode. Selected once
// at startup from config so mode checks don't leak into every method.
type userStrategy interface {
	mode() string
}

type phoneStrategy struct{}

func (phoneStrategy) mode() string { return constants.AuthModePhone }

type emailStrategy struct {
	passwordMinLength int
}

func (emailStrategy) mode() string { return constants.AuthModeEmail }

func (s emailStrategy) validatePassword(password string) error {
	min := s.passwordMinLength
	if min <= 0 {
		min = 8
	}
	if len(password) < min {
		return ErrWeakPassword
	}
	return nil
}

// AuthService binds verified identities to users and sessions.
type AuthService struct {
	cfg           *config.Config
	userRepo      repository.UserRepository
	sessionRepo   repository.SessionRepository
	notifications *NotificationService
	strategy      userStrategy
}

// NewAuthService creates the auth service for the configured mode.
func NewAuthService(cfg *config.Config, userRepo repository.UserRepository, sessionRepo repository.SessionRepository, notifications *NotificationService) *AuthService {
	var strategy userStrategy = phoneStrategy{}
	if strings.EqualFold(strings.TrimSpace(cfg.Auth.Mode), constants.AuthModeEmail) {
		strategy = emailStrategy{passwordMinLength: cfg.Security.PasswordMinLength}
	}
	return &AuthService{
		cfg:           cfg,
		userRepo:      userRepo,
		sessionRepo:   sessionRepo,
		notifications: notifications,
		strategy:      strategy,
	}
}

// Mode returns the active auth mode.
func (s *AuthService) Mode() string {
	return s.strategy.mode()
}

// EstablishPhoneSession creates a session for a phone-verified user.
// The caller must have verified the phone first.
func (s *AuthService) EstablishPhoneSession(ctx context.Context, user *models.User, ipAddress, userAgent string) (*AuthResult, error) {
	if s.strategy.mode() != constants.AuthModePhone {
		return nil, ErrAuthModeDisabled
	}
	return s.establishSession(ctx, user, ipAddress, userAgent)
}

// RegisterWithEmail creates an email/password account and logs it in.
func (s *AuthService) RegisterWithEmail(ctx context.Context, email, password, name, ipAddress, userAgent string) (*AuthResult, error) {
	strategy, ok := s.strategy.(emailStrategy)
	if !ok {
		return nil, ErrAuthModeDisabled
	}

	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := strategy.validatePassword(password); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		logger.Errorw("auth_email_lookup_failed", "error", err)
		return nil, ErrServiceUnavailable
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        &normalized,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(name),
	}
	if err := s.userRepo.Create(user); err != nil {
		logger.Errorw("auth_user_create_failed", "error", err)
		return nil, ErrServiceUnavailable
	}

	logger.Infow("user_registered", "user_id", user.ID)
	return s.establishSession(ctx, user, ipAddress, userAgent)
}

// LoginWithEmail checks credentials and opens a session.
func (s *AuthService) LoginWithEmail(ctx context.Context, email, password, ipAddress, userAgent string) (*AuthResult, error) {
	if _, ok := s.strategy.(emailStrategy); !ok {
		return nil, ErrAuthModeDisabled
	}

	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		logger.Errorw("auth_email_lookup_failed", "error", err)
		return nil, ErrServiceUnavailable
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return s.establishSession(ctx, user, ipAddress, userAgent)
}

// PasswordResetClaims are the claims on a password reset token. The
// fingerprint ties the token to the password it resets; once the
// password changes, every outstanding token stops verifying.
type PasswordResetClaims struct {
	UserID      string `json:"user_id"`
	Fingerprint string `json:"fingerprint"`
	jwt.RegisteredClaims
}

// RequestPasswordReset emails a reset token to the account behind the
// address. An unknown or malformed address is reported as success so
// the endpoint cannot be used to probe which emails are registered.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if _, ok := s.strategy.(emailStrategy); !ok {
		return ErrAuthModeDisabled
	}

	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		logger.Errorw("auth_email_lookup_failed", "error", err)
		return ErrServiceUnavailable
	}
	if user == nil {
		logger.Infow("password_reset_unknown_email")
		return nil
	}

	now := time.Now()
	claims := PasswordResetClaims{
		UserID:      user.ID,
		Fingerprint: passwordFingerprint(user.PasswordHash),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.resetTokenTTL())),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return err
	}

	// Remember the newest token id. A fresh request supersedes any
	// earlier token when the cache is up; without it, expiry and the
	// fingerprint check still bound the token's life.
	if err := cache.SetJSON(ctx, resetTokenCacheKey(user.ID), claims.ID, s.resetTokenTTL()); err != nil {
		logger.Warnw("password_reset_token_cache_failed", "error", err)
	}

	content := fmt.Sprintf("Reset your password using this token: %s. It expires in %d minutes.",
		token, int(s.resetTokenTTL()/time.Minute))
	if _, err := s.notifications.DeliverEmail(ctx, RecipientFromUser(user), "Password Reset Request", content, constants.NotificationTypePasswordReset); err != nil {
		logger.Errorw("password_reset_delivery_failed", "user_id", user.ID, "error", err)
		return ErrServiceUnavailable
	}

	logger.Infow("password_reset_requested", "user_id", user.ID)
	return nil
}

// ResetPassword sets a new password for the account behind a reset
// token and revokes all of the account's sessions.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	strategy, ok := s.strategy.(emailStrategy)
	if !ok {
		return ErrAuthModeDisabled
	}

	claims, err := s.parseResetToken(token)
	if err != nil {
		return ErrInvalidResetToken
	}
	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		logger.Errorw("auth_user_lookup_failed", "error", err)
		return ErrServiceUnavailable
	}
	if user == nil || claims.Fingerprint != passwordFingerprint(user.PasswordHash) {
		return ErrInvalidResetToken
	}

	var issuedID string
	if found, err := cache.GetJSON(ctx, resetTokenCacheKey(user.ID), &issuedID); err != nil {
		logger.Warnw("password_reset_token_cache_read_failed", "error", err)
	} else if found && issuedID != claims.ID {
		return ErrInvalidResetToken
	}

	if err := strategy.validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	if err := s.userRepo.Update(user); err != nil {
		logger.Errorw("auth_user_update_failed", "user_id", user.ID, "error", err)
		return ErrServiceUnavailable
	}

	if err := cache.Del(ctx, resetTokenCacheKey(user.ID)); err != nil {
		logger.Warnw("password_reset_token_cache_delete_failed", "error", err)
	}
	if err := s.sessionRepo.DeleteByUser(user.ID); err != nil {
		logger.Warnw("password_reset_session_revoke_failed", "user_id", user.ID, "error", err)
	}

	logger.Infow("password_reset_completed", "user_id", user.ID)
	return nil
}

func (s *AuthService) parseResetToken(tokenString string) (*PasswordResetClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &PasswordResetClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if parsed, ok := token.Claims.(*PasswordResetClaims); ok && token.Valid {
		return parsed, nil
	}
	return nil, errors.New("invalid token")
}

func (s *AuthService) resetTokenTTL() time.Duration {
	minutes := s.cfg.Security.ResetTokenExpireMinutes
	if minutes <= 0 {
		minutes = 15
	}
	return time.Duration(minutes) * time.Minute
}

func resetTokenCacheKey(userID string) string {
	return "password_reset:" + userID
}

func passwordFingerprint(passwordHash string) string {
	sum := sha256.Sum256([]byte(passwordHash))
	return hex.EncodeToString(sum[:8])
}

// Logout deletes the session behind a token.
func (s *AuthService) Logout(_ context.Context, sessionID string) error {
	return s.sessionRepo.Delete(sessionID)
}

// Authenticate parses a token and confirms its session still exists.
func (s *AuthService) Authenticate(_ context.Context, tokenString string) (*models.User, *SessionClaims, error) {
	claims, err := s.ParseToken(tokenString)
	if err != nil {
		return nil, nil, err
	}
	session, err := s.sessionRepo.GetByID(claims.SessionID)
	if err != nil {
		logger.Errorw("auth_session_lookup_failed", "error", err)
		return nil, nil, ErrServiceUnavailable
	}
	if session == nil || session.UserID != claims.UserID {
		return nil, nil, errors.New("session revoked")
	}
	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		logger.Errorw("auth_user_lookup_failed", "error", err)
		return nil, nil, ErrServiceUnavailable
	}
	if user == nil {
		return nil, nil, ErrNotFound
	}
	return user, claims, nil
}

// ParseToken validates a signed session token.
func (s *AuthService) ParseToken(tokenString string) (*SessionClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &SessionClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if parsed, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return parsed, nil
	}
	return nil, errors.New("invalid token")
}

func (s *AuthService) establishSession(_ context.Context, user *models.User, ipAddress, userAgent string) (*AuthResult, error) {
	session := &models.Session{
		UserID:    user.ID,
		IPAddress: ipAddress,
		UserAgent: userAgent,
	}
	if err := s.sessionRepo.Create(session); err != nil {
		logger.Errorw("session_create_failed", "user_id", user.ID, "error", err)
		return nil, ErrServiceUnavailable
	}

	expireHours := s.cfg.JWT.ExpireHours
	if expireHours <= 0 {
		expireHours = 24
	}
	now := time.Now()
	expiresAt := now.Add(time.Duration(expireHours) * time.Hour)
	claims := SessionClaims{
		UserID:    user.ID,
		SessionID: session.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return nil, err
	}

	logger.Infow("session_established", "user_id", user.ID, "session_id", session.ID)
	return &AuthResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func normalizeEmail(email string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(email))
	if trimmed == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return "", ErrInvalidEmail
	}
	return trimmed, nil
}
