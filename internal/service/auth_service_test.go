package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ledgerline/internal/config"
	"github.com/ledgerline/internal/constants"
	"github.com/ledgerline/internal/repository"

	"gorm.io/gorm"
)

func setupAuthTest(t *testing.T, mode string) (*AuthService, *gorm.DB, *fakeEmailSender) {
	t.Helper()
	db := openServiceTestDB(t)
	cfg := &config.Config{}
	cfg.Auth.Mode = mode
	cfg.JWT.SecretKey = "0123456789abcdef0123456789abcdef"
	cfg.JWT.ExpireHours = 24
	cfg.Security.PasswordMinLength = 8
	email := &fakeEmailSender{}
	notifications := newTestNotificationService(db, &fakeSMSSender{}, email)
	svc := NewAuthService(cfg, repository.NewUserRepository(db), repository.NewSessionRepository(db), notifications)
	return svc, db, email
}

func TestRegisterAndLoginWithEmail(t *testing.T) {
	svc, _, _ := setupAuthTest(t, constants.AuthModeEmail)
	ctx := context.Background()

	result, err := svc.RegisterWithEmail(ctx, "Alex@Example.com", "correct-horse", "Alex", "127.0.0.1", "go-test")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if result.Token == "" {
		t.Fatalf("register returned empty token")
	}
	if result.User.Email == nil || *result.User.Email != "alex@example.com" {
		t.Fatalf("email not normalized: %+v", result.User.Email)
	}

	user, claims, err := svc.Authenticate(ctx, result.Token)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if user.ID != result.User.ID || claims.UserID != user.ID {
		t.Fatalf("authenticated identity mismatch")
	}

	if _, err := svc.RegisterWithEmail(ctx, "alex@example.com", "another-pass", "", "", ""); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("duplicate register want ErrEmailExists got %v", err)
	}

	if _, err := svc.LoginWithEmail(ctx, "alex@example.com", "correct-horse", "", ""); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if _, err := svc.LoginWithEmail(ctx, "alex@example.com", "wrong-pass", "", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password want ErrInvalidCredentials got %v", err)
	}
	if _, err := svc.LoginWithEmail(ctx, "nobody@example.com", "correct-horse", "", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email want ErrInvalidCredentials got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := setupAuthTest(t, constants.AuthModeEmail)
	ctx := context.Background()

	if _, err := svc.RegisterWithEmail(ctx, "not-an-email", "correct-horse", "", "", ""); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("bad email want ErrInvalidEmail got %v", err)
	}
	if _, err := svc.RegisterWithEmail(ctx, "a@example.com", "short", "", "", ""); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("short password want ErrWeakPassword got %v", err)
	}
}

func TestAuthModeGating(t *testing.T) {
	phoneSvc, phoneDB, _ := setupAuthTest(t, constants.AuthModePhone)
	ctx := context.Background()

	if phoneSvc.Mode() != constants.AuthModePhone {
		t.Fatalf("mode want phone got %s", phoneSvc.Mode())
	}
	if _, err := phoneSvc.RegisterWithEmail(ctx, "a@example.com", "correct-horse", "", "", ""); !errors.Is(err, ErrAuthModeDisabled) {
		t.Fatalf("register in phone mode want ErrAuthModeDisabled got %v", err)
	}

	user, err := repository.NewUserRepository(phoneDB).FindOrCreateByPhone("+15555550123")
	if err != nil {
		t.Fatalf("create phone user failed: %v", err)
	}
	if _, err := phoneSvc.EstablishPhoneSession(ctx, user, "", ""); err != nil {
		t.Fatalf("phone session in phone mode failed: %v", err)
	}

	emailSvc, emailDB, _ := setupAuthTest(t, constants.AuthModeEmail)
	emailUser, err := repository.NewUserRepository(emailDB).FindOrCreateByPhone("+15555550124")
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	if _, err := emailSvc.EstablishPhoneSession(ctx, emailUser, "", ""); !errors.Is(err, ErrAuthModeDisabled) {
		t.Fatalf("phone session in email mode want ErrAuthModeDisabled got %v", err)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, db, _ := setupAuthTest(t, constants.AuthModePhone)
	ctx := context.Background()

	user, err := repository.NewUserRepository(db).FindOrCreateByPhone("+15555550123")
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	result, err := svc.EstablishPhoneSession(ctx, user, "127.0.0.1", "go-test")
	if err != nil {
		t.Fatalf("establish session failed: %v", err)
	}

	_, claims, err := svc.Authenticate(ctx, result.Token)
	if err != nil {
		t.Fatalf("authenticate before logout failed: %v", err)
	}
	if err := svc.Logout(ctx, claims.SessionID); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, _, err := svc.Authenticate(ctx, result.Token); err == nil {
		t.Fatalf("token should be rejected after logout")
	}
}

func resetTokenFromEmail(t *testing.T, email *fakeEmailSender) string {
	t.Helper()
	sent := email.sent()
	if len(sent) == 0 {
		t.Fatalf("no reset email sent")
	}
	body := sent[len(sent)-1].Body
	token := strings.TrimPrefix(body, "Reset your password using this token: ")
	if token == body {
		t.Fatalf("unexpected reset email body: %q", body)
	}
	if i := strings.Index(token, ". "); i >= 0 {
		token = token[:i]
	}
	return token
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _, email := setupAuthTest(t, constants.AuthModeEmail)
	ctx := context.Background()

	registered, err := svc.RegisterWithEmail(ctx, "alex@example.com", "correct-horse", "Alex", "127.0.0.1", "go-test")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := svc.RequestPasswordReset(ctx, "Alex@Example.com"); err != nil {
		t.Fatalf("request reset failed: %v", err)
	}
	token := resetTokenFromEmail(t, email)

	if err := svc.ResetPassword(ctx, token, "battery-staple"); err != nil {
		t.Fatalf("reset failed: %v", err)
	}

	if _, err := svc.LoginWithEmail(ctx, "alex@example.com", "correct-horse", "", ""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password want ErrInvalidCredentials got %v", err)
	}
	if _, err := svc.LoginWithEmail(ctx, "alex@example.com", "battery-staple", "", ""); err != nil {
		t.Fatalf("new password login failed: %v", err)
	}

	// Sessions opened before the reset are revoked.
	if _, _, err := svc.Authenticate(ctx, registered.Token); err == nil {
		t.Fatalf("pre-reset session should be rejected")
	}

	// The token died with the password it was minted for.
	if err := svc.ResetPassword(ctx, token, "yet-another-pass"); !errors.Is(err, ErrInvalidResetToken) {
		t.Fatalf("token reuse want ErrInvalidResetToken got %v", err)
	}
}

func TestPasswordResetUnknownEmailIsSilent(t *testing.T) {
	svc, _, email := setupAuthTest(t, constants.AuthModeEmail)

	if err := svc.RequestPasswordReset(context.Background(), "ghost@example.com"); err != nil {
		t.Fatalf("unknown email want nil got %v", err)
	}
	if err := svc.RequestPasswordReset(context.Background(), "not-an-email"); err != nil {
		t.Fatalf("malformed email want nil got %v", err)
	}
	if got := len(email.sent()); got != 0 {
		t.Fatalf("emails sent want 0 got %d", got)
	}
}

func TestPasswordResetValidation(t *testing.T) {
	svc, _, email := setupAuthTest(t, constants.AuthModeEmail)
	ctx := context.Background()

	if _, err := svc.RegisterWithEmail(ctx, "alex@example.com", "correct-horse", "", "", ""); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := svc.ResetPassword(ctx, "not-a-token", "battery-staple"); !errors.Is(err, ErrInvalidResetToken) {
		t.Fatalf("garbage token want ErrInvalidResetToken got %v", err)
	}

	if err := svc.RequestPasswordReset(ctx, "alex@example.com"); err != nil {
		t.Fatalf("request reset failed: %v", err)
	}
	token := resetTokenFromEmail(t, email)

	if err := svc.ResetPassword(ctx, token, "short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("weak password want ErrWeakPassword got %v", err)
	}
	// A rejected password does not burn the token.
	if err := svc.ResetPassword(ctx, token, "battery-staple"); err != nil {
		t.Fatalf("reset after weak attempt failed: %v", err)
	}

	phoneSvc, _, _ := setupAuthTest(t, constants.AuthModePhone)
	if err := phoneSvc.RequestPasswordReset(ctx, "alex@example.com"); !errors.Is(err, ErrAuthModeDisabled) {
		t.Fatalf("request in phone mode want ErrAuthModeDisabled got %v", err)
	}
	if err := phoneSvc.ResetPassword(ctx, token, "battery-staple"); !errors.Is(err, ErrAuthModeDisabled) {
		t.Fatalf("reset in phone mode want ErrAuthModeDisabled got %v", err)
	}
}

func TestSessionTokenNotAcceptedForPasswordReset(t *testing.T) {
	svc, _, _ := setupAuthTest(t, constants.AuthModeEmail)
	ctx := context.Background()

	result, err := svc.RegisterWithEmail(ctx, "alex@example.com", "correct-horse", "", "", "")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := svc.ResetPassword(ctx, result.Token, "battery-staple"); !errors.Is(err, ErrInvalidResetToken) {
		t.Fatalf("session token want ErrInvalidResetToken got %v", err)
	}
}

func TestParseTokenRejectsForeignSecret(t *testing.T) {
	svc, db, _ := setupAuthTest(t, constants.AuthModePhone)
	other, _, _ := setupAuthTest(t, constants.AuthModePhone)
	ctx := context.Background()

	user, err := repository.NewUserRepository(db).FindOrCreateByPhone("+15555550123")
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	result, err := svc.EstablishPhoneSession(ctx, user, "", "")
	if err != nil {
		t.Fatalf("establish session failed: %v", err)
	}

	other.cfg.JWT.SecretKey = "a-different-secret-a-different-secret"
	if _, err := other.ParseToken(result.Token); err == nil {
		t.Fatalf("token signed with another secret should be rejected")
	}
}
